package blag

import (
	"fmt"
	"net/netip"
	"strings"

	"go4.org/netipx"
)

// Summarize returns the minimal aligned prefixes covering each range, concatenated in input order.
// Prefixes are not merged across ranges. Invalid ranges contribute nothing.
func Summarize(ranges []Range) []netip.Prefix {
	var out []netip.Prefix
	for _, r := range ranges {
		if !r.IsValid() {
			continue
		}
		out = append(out, netipx.IPRangeFrom(r.Low, r.High).Prefixes()...)
	}
	return out
}

// MatchRanges collects the descriptor ranges of matches.
// It fails on a descriptor without a numeric range, since the filter would silently be incomplete.
func MatchRanges(matches []Match) ([]Range, error) {
	ranges := make([]Range, 0, len(matches))
	for _, m := range matches {
		if !m.Descriptor.Range.IsValid() {
			return nil, fmt.Errorf("%s: descriptor %q has no ip range", m.Address, m.Descriptor.Raw)
		}
		ranges = append(ranges, m.Descriptor.Range)
	}
	return ranges, nil
}

// FilterExpression renders prefixes as a libpcap filter: "( net P1 or net P2 )".
func FilterExpression(prefixes []netip.Prefix) string {
	nets := make([]string, len(prefixes))
	for i, p := range prefixes {
		nets[i] = "net " + p.String()
	}
	return "( " + strings.Join(nets, " or ") + " )"
}
