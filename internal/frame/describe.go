package frame

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/net/ipv4"

	"github.com/bft-labs/mctransmit/internal/domain"
)

const ethernetHeaderLen = 14

// Describe renders a frame for debug output: the IPv4 header as parsed by
// x/net/ipv4, the fingerprint, and a hex dump.
func Describe(f domain.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "frame %d bytes, fingerprint %016x\n", f.Len(), f.Fingerprint())

	raw := f.Raw()
	if len(raw) > ethernetHeaderLen {
		if h, err := ipv4.ParseHeader(raw[ethernetHeaderLen:]); err == nil {
			fmt.Fprintf(&b, "%s\n", h)
		} else {
			fmt.Fprintf(&b, "ipv4 header: %v\n", err)
		}
	}

	b.WriteString(hex.Dump(raw))
	return b.String()
}
