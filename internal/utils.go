package internal

import (
	"errors"
	"net"
)

var ErrNoIpNet = errors.New("ipnet could not be found")

// LocalIpNet returns the first IPv4 network of an interface that is up and
// not a loopback.
func LocalIpNet() (net.IPNet, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return net.IPNet{}, err
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			return net.IPNet{}, err
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}

			if ip := ipnet.IP.To4(); ip != nil && !ip.IsLoopback() {
				return net.IPNet{IP: ip, Mask: ipnet.Mask}, nil
			}
		}
	}

	return net.IPNet{}, ErrNoIpNet
}

// HostOnly strips the port of a host:port address. Addresses without a port
// are returned as they are.
func HostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
