package domain

import (
	"errors"
	"net"
	"strings"
	"testing"
	"time"
)

func validInput() RawInput {
	return RawInput{Address: "239.1.1.1", Interval: "1000", Text: "HELLO"}
}

func TestValidate_Valid(t *testing.T) {
	cfg, err := Validate(validInput())
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !cfg.Destination.Equal(net.IPv4(239, 1, 1, 1)) {
		t.Errorf("Destination = %v, want 239.1.1.1", cfg.Destination)
	}
	if len(cfg.Destination) != net.IPv4len {
		t.Errorf("len(Destination) = %d, want 4", len(cfg.Destination))
	}
	if cfg.IntervalMs != 1000 {
		t.Errorf("IntervalMs = %d, want 1000", cfg.IntervalMs)
	}
	if cfg.Interval() != time.Second {
		t.Errorf("Interval() = %v, want 1s", cfg.Interval())
	}
	if string(cfg.Payload()) != "HELLO" {
		t.Errorf("Payload() = %q, want HELLO", cfg.Payload())
	}
}

func TestValidate_Address(t *testing.T) {
	tests := []struct {
		address string
		wantErr bool
	}{
		{"224.0.0.0", false},
		{"233.10.47.10", false},
		{"239.255.255.255", false},
		{"10.0.0.1", true},
		{"223.255.255.255", true},
		{"240.0.0.1", true},
		{"255.255.255.255", true},
		{"bad", true},
		{"", true},
		{"239.1.1", true},
		{"ff02::1", true},
		{"::ffff:239.1.1.1", true},
		{" 239.1.1.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			in := validInput()
			in.Address = tt.address
			_, err := Validate(in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%q) error = %v, wantErr %v", tt.address, err, tt.wantErr)
			}
			if tt.wantErr {
				var verrs ValidationErrors
				if !errors.As(err, &verrs) {
					t.Fatalf("error type = %T, want ValidationErrors", err)
				}
				if len(verrs) != 1 || verrs[0].Kind != InvalidMulticastAddress {
					t.Errorf("kinds = %v, want [InvalidMulticastAddress]", verrs.Kinds())
				}
			}
		})
	}
}

func TestValidate_Interval(t *testing.T) {
	tests := []struct {
		interval string
		wantErr  bool
	}{
		{"1", false},
		{"5000", false},
		{"2147483647", false},
		{"0", true},
		{"-5", true},
		{"abc", true},
		{"", true},
		{"1.5", true},
		{"2147483648", true},
	}

	for _, tt := range tests {
		t.Run(tt.interval, func(t *testing.T) {
			in := validInput()
			in.Interval = tt.interval
			_, err := Validate(in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(interval=%q) error = %v, wantErr %v", tt.interval, err, tt.wantErr)
			}
			if tt.wantErr {
				var verrs ValidationErrors
				if !errors.As(err, &verrs) || !verrs.Has(InvalidInterval) {
					t.Errorf("error = %v, want InvalidInterval", err)
				}
			}
		})
	}
}

func TestValidate_Text(t *testing.T) {
	in := validInput()
	in.Text = ""
	_, err := Validate(in)

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error = %v, want ValidationErrors", err)
	}
	if len(verrs) != 1 || verrs[0].Kind != InvalidText {
		t.Errorf("kinds = %v, want [InvalidText]", verrs.Kinds())
	}

	in.Text = " "
	if _, err := Validate(in); err != nil {
		t.Errorf("Validate(text=\" \") error = %v, want nil", err)
	}
}

func TestValidate_AggregatesAllFailures(t *testing.T) {
	_, err := Validate(RawInput{Address: "bad", Interval: "-1", Text: ""})
	if err == nil {
		t.Fatal("Validate() error = nil, want failures")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("errors.Is(err, ErrInvalidConfig) = false")
	}

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}

	want := []FailureKind{InvalidMulticastAddress, InvalidInterval, InvalidText}
	got := verrs.Kinds()
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kinds[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if verrs[0].Input != "bad" || verrs[1].Input != "-1" || verrs[2].Input != "" {
		t.Errorf("inputs = %q, %q, %q", verrs[0].Input, verrs[1].Input, verrs[2].Input)
	}

	lines := strings.Split(err.Error(), "\n")
	if len(lines) != 3 {
		t.Fatalf("Error() has %d lines, want 3: %q", len(lines), err.Error())
	}
	if !strings.HasPrefix(lines[0], "'bad': ") {
		t.Errorf("first line = %q, want prefix 'bad': ", lines[0])
	}
}

func TestFailureKind_String(t *testing.T) {
	tests := []struct {
		kind FailureKind
		want string
	}{
		{InvalidMulticastAddress, "InvalidMulticastAddress"},
		{InvalidInterval, "InvalidInterval"},
		{InvalidText, "InvalidText"},
		{FailureKind(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("FailureKind(%d).String() = %s, want %s", tt.kind, got, tt.want)
		}
	}
}

func TestNativeCaptureError_Unwrap(t *testing.T) {
	cause := errors.New("device gone")
	err := error(&NativeCaptureError{Op: "write", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if !strings.Contains(err.Error(), "write") || !strings.Contains(err.Error(), "device gone") {
		t.Errorf("Error() = %q", err.Error())
	}
}
