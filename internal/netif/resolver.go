// Package netif selects the local interface frames are sent from.
package netif

import (
	"fmt"
	"net"
	"strings"

	"github.com/bft-labs/mctransmit/internal/domain"
	"github.com/bft-labs/mctransmit/pkg/log"
)

// Interface is a snapshot of one local interface and its addresses.
type Interface struct {
	Name         string
	Index        int
	Flags        net.Flags
	HardwareAddr net.HardwareAddr
	Addrs        []net.Addr
}

// Lister enumerates local interfaces in OS order.
type Lister func() ([]Interface, error)

// SystemLister enumerates interfaces with the net package.
// Interfaces whose addresses cannot be read are returned without addresses.
func SystemLister() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}

	out := make([]Interface, 0, len(ifaces))
	for _, ifi := range ifaces {
		addrs, err := ifi.Addrs()
		if err != nil {
			addrs = nil
		}
		out = append(out, Interface{
			Name:         ifi.Name,
			Index:        ifi.Index,
			Flags:        ifi.Flags,
			HardwareAddr: ifi.HardwareAddr,
			Addrs:        addrs,
		})
	}
	return out, nil
}

// Resolver picks the first usable interface: up, not loopback, not a virtual
// alias, with a 6-byte Ethernet MAC and at least one IPv4 address.
// Selection follows enumeration order; routing is not consulted.
type Resolver struct {
	list   Lister
	logger log.Logger
}

// NewResolver creates a resolver over the system interfaces.
func NewResolver(logger log.Logger) *Resolver {
	return NewResolverWithLister(SystemLister, logger)
}

// NewResolverWithLister creates a resolver over a custom lister.
func NewResolverWithLister(list Lister, logger log.Logger) *Resolver {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Resolver{list: list, logger: logger}
}

// Resolve returns the identity of the selected interface, or an error
// wrapping domain.ErrNoUsableInterface.
func (r *Resolver) Resolve() (domain.NetworkIdentity, error) {
	ifaces, err := r.list()
	if err != nil {
		return domain.NetworkIdentity{}, fmt.Errorf("%w: %v", domain.ErrNoUsableInterface, err)
	}

	for _, ifi := range ifaces {
		reason := disqualify(ifi)
		if reason != "" {
			r.logger.Debug("interface skipped",
				log.String("iface", ifi.Name),
				log.String("reason", reason),
			)
			continue
		}

		ip := firstIPv4(ifi.Addrs)
		ident := domain.NetworkIdentity{
			Interface: ifi.Name,
			Index:     ifi.Index,
			MAC:       append(net.HardwareAddr(nil), ifi.HardwareAddr...),
			IP:        ip,
		}
		r.logger.Info("interface selected",
			log.String("iface", ident.Interface),
			log.Stringer("mac", ident.MAC),
			log.Stringer("ip", ident.IP),
		)
		return ident, nil
	}

	return domain.NetworkIdentity{}, domain.ErrNoUsableInterface
}

// ethernetAddrLen is the length of an EUI-48 MAC address.
const ethernetAddrLen = 6

// disqualify returns why ifi cannot carry frames, or "" if it can.
func disqualify(ifi Interface) string {
	switch {
	case ifi.Flags&net.FlagUp == 0:
		return "down"
	case ifi.Flags&net.FlagLoopback != 0:
		return "loopback"
	case isVirtual(ifi.Name):
		return "virtual"
	case len(ifi.HardwareAddr) == 0:
		return "no hardware address"
	case len(ifi.HardwareAddr) != ethernetAddrLen:
		return "not an Ethernet MAC"
	case firstIPv4(ifi.Addrs) == nil:
		return "no IPv4 address"
	}
	return ""
}

// isVirtual reports alias sub-interfaces such as "eth0:1".
func isVirtual(name string) bool {
	return strings.Contains(name, ":")
}

func firstIPv4(addrs []net.Addr) net.IP {
	for _, addr := range addrs {
		var ip net.IP
		switch a := addr.(type) {
		case *net.IPNet:
			ip = a.IP
		case *net.IPAddr:
			ip = a.IP
		}
		if v4 := ip.To4(); v4 != nil {
			return v4
		}
	}
	return nil
}
