package domain

import "net"

// MulticastMAC maps an IPv4 multicast address a.b.c.d to 01:00:5E:(b&0x7F):c:d.
// Only the low-order 23 bits of the group address are carried, so the top bit
// of the second octet is masked and the first octet is not represented.
func MulticastMAC(ip net.IP) net.HardwareAddr {
	v4 := ip.To4()
	if v4 == nil {
		return nil
	}
	return net.HardwareAddr{0x01, 0x00, 0x5e, v4[1] & 0x7f, v4[2], v4[3]}
}
