package blag

import (
	"encoding/csv"
	"strings"
)

// records splits text on ASCII whitespace; each token is one comma-separated row.
func records(text string) []string {
	return strings.Fields(text)
}

// fields reads a single record with the standard comma-separated rules.
func fields(record string) []string {
	r := csv.NewReader(strings.NewReader(record))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	row, err := r.Read()
	if err != nil {
		return []string{record}
	}
	return row
}

// ParseMapping builds the code -> descriptor table from the ASN-mapping text.
// Field 1 of a record is the code and field 0 the descriptor; further fields are ignored.
// Duplicate codes keep the last occurrence.
func ParseMapping(text string) (MappingTable, error) {
	recs := records(text)
	table := make(MappingTable, len(recs))
	for i, rec := range recs {
		row := fields(rec)
		if len(row) < 2 {
			return nil, &MalformedRowError{Source: "mapping", Record: i + 1, Row: rec, Fields: len(row)}
		}
		table[row[1]] = row[0]
	}
	return table, nil
}

// ParseEntries resolves every blocklist record through table.
// The result keeps dataset order; a repeated address replaces the earlier
// descriptors but keeps the position of its first occurrence.
func ParseEntries(text string, table MappingTable) ([]Entry, error) {
	recs := records(text)
	entries := make([]Entry, 0, len(recs))
	seen := make(map[string]int, len(recs))
	parsed := make(map[string]Descriptor, len(table))

	for i, rec := range recs {
		row := fields(rec)
		if len(row) < 2 {
			return nil, &MalformedRowError{Source: "entries", Record: i + 1, Row: rec, Fields: len(row)}
		}
		address, codes := row[0], row[1:]

		descriptors := make([]Descriptor, 0, len(codes))
		for _, code := range codes {
			raw, ok := table[code]
			if !ok {
				return nil, &UnresolvedCodeError{Record: i + 1, Address: address, Code: code}
			}
			d, ok := parsed[code]
			if !ok {
				d = ParseDescriptor(raw)
				parsed[code] = d
			}
			descriptors = append(descriptors, d)
		}

		if pos, ok := seen[address]; ok {
			entries[pos].Descriptors = descriptors
			continue
		}
		seen[address] = len(entries)
		entries = append(entries, Entry{Address: address, Descriptors: descriptors})
	}
	return entries, nil
}
