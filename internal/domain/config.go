package domain

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Reasons attached to validation failures.
const (
	reasonMulticast = "the address must be a valid IPv4 multicast address in dotted notation (for example 224.26.10.5)"
	reasonInterval  = "the interval must be a positive integer number of milliseconds"
	reasonText      = "the text must contain at least one character"
)

// RawInput holds the three unvalidated values read from a front-end.
type RawInput struct {
	Address  string
	Interval string
	Text     string
}

// TransmissionConfig is a validated, immutable transmission setup.
type TransmissionConfig struct {
	// Destination is the IPv4 multicast group (4 bytes)
	Destination net.IP

	// IntervalMs is the send period in milliseconds
	IntervalMs int

	// Text is the payload text, sent as UTF-8 bytes
	Text string
}

// Interval returns the send period as a duration.
func (c TransmissionConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// Payload returns the payload bytes.
func (c TransmissionConfig) Payload() []byte {
	return []byte(c.Text)
}

// Validate checks all three inputs independently and returns either the
// validated config or a non-empty ValidationErrors in input order.
func Validate(in RawInput) (TransmissionConfig, error) {
	var (
		cfg  TransmissionConfig
		errs ValidationErrors
	)

	if ip, ok := parseMulticast(in.Address); ok {
		cfg.Destination = ip
	} else {
		errs = append(errs, &FieldError{Kind: InvalidMulticastAddress, Input: in.Address, Reason: reasonMulticast})
	}

	if ms, ok := parseInterval(in.Interval); ok {
		cfg.IntervalMs = ms
	} else {
		errs = append(errs, &FieldError{Kind: InvalidInterval, Input: in.Interval, Reason: reasonInterval})
	}

	if in.Text != "" {
		cfg.Text = in.Text
	} else {
		errs = append(errs, &FieldError{Kind: InvalidText, Input: in.Text, Reason: reasonText})
	}

	if len(errs) > 0 {
		return TransmissionConfig{}, errs
	}
	return cfg, nil
}

// parseMulticast accepts dotted-quad IPv4 addresses in 224.0.0.0/4.
func parseMulticast(s string) (net.IP, bool) {
	if strings.Contains(s, ":") {
		return nil, false
	}
	ip := net.ParseIP(s).To4()
	if ip == nil || !ip.IsMulticast() {
		return nil, false
	}
	return ip, true
}

// parseInterval accepts base-10 integers in (0, MaxInt32].
func parseInterval(s string) (int, bool) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n <= 0 {
		return 0, false
	}
	return int(n), true
}
