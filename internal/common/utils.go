package common

import (
	"net/netip"

	"blagbl/utils"
)

// IsBogon reports whether address is an IP literal inside bogon space.
func IsBogon(address string) bool {
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range utils.BogonPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
