//go:build linux

package afpacket

import (
	"net"

	"github.com/mdlayher/packet"
)

// listen opens a send-only raw socket; protocol 0 receives nothing.
func listen(ifi *net.Interface) (conn, error) {
	c, err := packet.Listen(ifi, packet.Raw, 0, nil)
	if err != nil {
		return nil, err
	}
	if err := c.SetPromiscuous(true); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}
