package ddns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
)

var errNoInterfaceAddress = errors.New("no usable address found")

// InterfaceResolver constructs a resolver that reports the first non-loopback address of the named interface.
// It suits hosts which hold their public address directly, e.g. a router with a PPPoE link.
// The address is reported as-is, in the order the operating system lists it.
func InterfaceResolver(name string) Resolver {
	return interfaceResolver{name: name}
}

type interfaceResolver struct {
	name string
}

func (r interfaceResolver) Resolve(ctx context.Context, _ bool) (PublicIPInfo, error) {
	iface, err := net.InterfaceByName(r.name)
	if err != nil {
		return nil, fmt.Errorf("error getting interface %s by name: %w", r.name, err)
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, fmt.Errorf("error looking up addresses for interface %s: %w", r.name, err)
	}
	// addr: ip+net:192.168.86.253/24
	// addr: ip+net:fe80::2cc9:801b:3551:9a43/64
	addr, err := firstRoutable(addrs)
	if err != nil {
		return nil, fmt.Errorf("interface %s: %w", r.name, err)
	}
	return PublicIPInfo{"ip": addr.String()}, nil
}

func firstRoutable(addrs []net.Addr) (netip.Addr, error) {
	var parseErrors []error
	for _, a := range addrs {
		prefix, err := netip.ParsePrefix(a.String())
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("error parsing local ip %s: %w", a.String(), err))
			continue
		}
		ip := prefix.Addr()
		if ip.IsLoopback() || ip.IsLinkLocalUnicast() {
			continue
		}
		return ip, nil
	}
	return netip.Addr{}, errors.Join(append([]error{errNoInterfaceAddress}, parseErrors...)...)
}
