package blag

import (
	"fmt"
	"math/big"
	"net/netip"
	"strings"
)

// ParseDescriptor decomposes "ASN,owner,country,low-high" descriptor text.
// Owners containing commas are rejoined. Text that does not decompose keeps only Raw.
func ParseDescriptor(raw string) Descriptor {
	d := Descriptor{Raw: raw}
	parts := strings.Split(raw, ",")
	if len(parts) < 4 {
		return d
	}

	r, err := ParseRange(parts[len(parts)-1])
	if err != nil {
		return d
	}
	d.ASN = parts[0]
	d.Owner = strings.Join(parts[1:len(parts)-2], ",")
	d.Country = parts[len(parts)-2]
	d.Range = r
	return d
}

// ParseRange parses "low-high" where each bound is a decimal integer or an IP literal.
func ParseRange(s string) (Range, error) {
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		// IPv6 literals never contain '-', so the first '-' is always the separator.
		return Range{}, fmt.Errorf("range %q: missing '-'", s)
	}

	if a, err := netip.ParseAddr(lo); err == nil {
		b, err := netip.ParseAddr(hi)
		if err != nil {
			return Range{}, fmt.Errorf("range %q: %w", s, err)
		}
		r := Range{Low: a.Unmap(), High: b.Unmap()}
		if !r.IsValid() {
			return Range{}, fmt.Errorf("range %q: bounds out of order or mixed families", s)
		}
		return r, nil
	}

	low, ok := new(big.Int).SetString(lo, 10)
	if !ok {
		return Range{}, fmt.Errorf("range %q: invalid low bound", s)
	}
	high, ok := new(big.Int).SetString(hi, 10)
	if !ok {
		return Range{}, fmt.Errorf("range %q: invalid high bound", s)
	}
	return RangeFromInts(low, high)
}

// RangeFromInts builds a range from integer bounds. A low bound below 2^32 selects IPv4.
func RangeFromInts(low, high *big.Int) (Range, error) {
	if low.Sign() < 0 || high.Cmp(low) < 0 {
		return Range{}, fmt.Errorf("range %s-%s: bounds out of order", low, high)
	}

	if low.Cmp(ipv4Limit) < 0 {
		if high.Cmp(ipv4Limit) >= 0 {
			return Range{}, fmt.Errorf("range %s-%s: spans address families", low, high)
		}
		var lb, hb [4]byte
		low.FillBytes(lb[:])
		high.FillBytes(hb[:])
		return Range{Low: netip.AddrFrom4(lb), High: netip.AddrFrom4(hb)}, nil
	}

	if high.Cmp(ipv6Limit) >= 0 {
		return Range{}, fmt.Errorf("range %s-%s: exceeds 128 bits", low, high)
	}
	var lb, hb [16]byte
	low.FillBytes(lb[:])
	high.FillBytes(hb[:])
	return Range{Low: netip.AddrFrom16(lb), High: netip.AddrFrom16(hb)}, nil
}

// AddrToInt returns the numeric value of addr.
func AddrToInt(addr netip.Addr) *big.Int {
	return new(big.Int).SetBytes(addr.AsSlice())
}

// NumericAddress returns the decimal numeric form of an IP literal, or "" if s is not one.
func NumericAddress(s string) string {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return ""
	}
	return AddrToInt(addr.Unmap()).String()
}
