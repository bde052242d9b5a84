package blag

import (
	"iter"
)

// Index is the read-only resolution structure for one dataset snapshot.
// It is safe for concurrent readers.
type Index struct {
	entries   []Entry
	byAddress map[string]int
	byASN     map[string][]ref
}

type ref struct {
	entry      int
	descriptor int
}

// NewIndex builds an index over entries, which must hold distinct addresses in dataset order.
func NewIndex(entries []Entry) *Index {
	ix := &Index{
		entries:   entries,
		byAddress: make(map[string]int, len(entries)),
		byASN:     make(map[string][]ref),
	}
	for i, e := range entries {
		ix.byAddress[e.Address] = i
		for j, d := range e.Descriptors {
			if d.ASN == "" {
				continue
			}
			ix.byASN[d.ASN] = append(ix.byASN[d.ASN], ref{entry: i, descriptor: j})
		}
	}
	return ix
}

// Load parses the two dataset texts and builds an index.
func Load(blocklistText, mappingText string) (*Index, error) {
	table, err := ParseMapping(mappingText)
	if err != nil {
		return nil, err
	}
	entries, err := ParseEntries(blocklistText, table)
	if err != nil {
		return nil, err
	}
	return NewIndex(entries), nil
}

// LoadFile extracts and parses an archive on disk.
func LoadFile(path string) (*Index, error) {
	blocklist, mapping, err := ExtractFile(path)
	if err != nil {
		return nil, err
	}
	return Load(blocklist, mapping)
}

// LookupAddress returns the entry whose address is byte-identical to address.
func (ix *Index) LookupAddress(address string) (Entry, bool) {
	i, ok := ix.byAddress[address]
	if !ok {
		return Entry{}, false
	}
	return ix.entries[i].clone(), true
}

// LookupASN returns the matches whose descriptor ASN equals asn, in dataset order.
// A limit of 0 or less means unbounded.
func (ix *Index) LookupASN(asn string, limit int) []Match {
	refs := ix.byASN[asn]
	if limit > 0 && len(refs) > limit {
		refs = refs[:limit]
	}
	matches := make([]Match, 0, len(refs))
	for _, r := range refs {
		e := ix.entries[r.entry]
		matches = append(matches, Match{Address: e.Address, Descriptor: e.Descriptors[r.descriptor]})
	}
	return matches
}

// Len returns the number of distinct addresses.
func (ix *Index) Len() int { return len(ix.entries) }

// ASNs returns the number of distinct ASNs referenced by descriptors.
func (ix *Index) ASNs() int { return len(ix.byASN) }

// All yields every entry in dataset order.
func (ix *Index) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range ix.entries {
			if !yield(e.clone()) {
				return
			}
		}
	}
}

func (e Entry) clone() Entry {
	ds := make([]Descriptor, len(e.Descriptors))
	copy(ds, e.Descriptors)
	return Entry{Address: e.Address, Descriptors: ds}
}
