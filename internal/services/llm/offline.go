package llm

import "net"

// networkAvailable reports whether the host has a plausible route to the
// internet: at least one non-loopback interface that is up and has an
// address. Cheap enough to run before every streaming call; errors fail open
// so a broken probe never blocks generation.
func networkAvailable() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return true
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		if len(addrs) > 0 {
			return true
		}
	}
	return false
}
