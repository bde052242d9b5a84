package common

import (
	"blagbl/internal/blag"
	"blagbl/internal/metrics"
)

// LookupAddress flattens the entry for address into rows, one per descriptor.
func LookupAddress(ix *blag.Index, address string) ([]AddressRow, bool) {
	e, ok := ix.LookupAddress(address)
	metrics.ObserveLookup("address", ok)
	if !ok {
		return nil, false
	}
	rows := make([]AddressRow, 0, len(e.Descriptors))
	for _, d := range e.Descriptors {
		rows = append(rows, NewAddressRow(e.Address, d))
	}
	return rows, true
}

// LookupASN flattens the matches for asn into rows.
func LookupASN(ix *blag.Index, asn string, limit int) []ASNRow {
	matches := ix.LookupASN(asn, limit)
	metrics.ObserveLookup("asn", len(matches) > 0)
	rows := make([]ASNRow, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, NewASNRow(m))
	}
	return rows
}

// Filter builds the pcap filter expression covering the ranges of the matches for asn.
// ok is false when nothing matched.
func Filter(ix *blag.Index, asn string, limit int) (expr string, ok bool, err error) {
	matches := ix.LookupASN(asn, limit)
	metrics.ObserveLookup("filter", len(matches) > 0)
	if len(matches) == 0 {
		return "", false, nil
	}
	ranges, err := blag.MatchRanges(matches)
	if err != nil {
		return "", true, err
	}
	return blag.FilterExpression(blag.Summarize(ranges)), true, nil
}
