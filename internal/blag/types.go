// Package blag resolves addresses and ASNs against a BLAG blocklist snapshot.
package blag

import (
	"errors"
	"fmt"
	"math/big"
	"net/netip"
)

// Archive member positions in the published dataset layout.
const (
	BlocklistMember = 1
	MappingMember   = 2
)

// Error kinds raised while loading a dataset snapshot.
var (
	ErrArchiveFormat  = errors.New("invalid blag archive")
	ErrMalformedRow   = errors.New("malformed row")
	ErrUnresolvedCode = errors.New("unresolved mapping code")
)

// ArchiveFormatError reports an archive that is missing members or holds undecodable text.
type ArchiveFormatError struct {
	Member string
	Reason string
}

func (e *ArchiveFormatError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("%v: %s", ErrArchiveFormat, e.Reason)
	}
	return fmt.Sprintf("%v: member %q: %s", ErrArchiveFormat, e.Member, e.Reason)
}

func (e *ArchiveFormatError) Unwrap() error { return ErrArchiveFormat }

// MalformedRowError reports a record with too few fields.
type MalformedRowError struct {
	Source string // "mapping" or "entries"
	Record int    // 1-based record number
	Row    string
	Fields int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("%v: %s record %d %q has %d field(s)", ErrMalformedRow, e.Source, e.Record, e.Row, e.Fields)
}

func (e *MalformedRowError) Unwrap() error { return ErrMalformedRow }

// UnresolvedCodeError reports an entry referencing a code absent from the mapping table.
type UnresolvedCodeError struct {
	Record  int
	Address string
	Code    string
}

func (e *UnresolvedCodeError) Error() string {
	return fmt.Sprintf("%v: entries record %d (%s) references code %q", ErrUnresolvedCode, e.Record, e.Address, e.Code)
}

func (e *UnresolvedCodeError) Unwrap() error { return ErrUnresolvedCode }

// MappingTable maps a mapping code to its raw descriptor text.
type MappingTable map[string]string

// Descriptor is the owning-network context a flagged address was observed under.
type Descriptor struct {
	Raw     string `json:"raw"`
	ASN     string `json:"asn,omitempty"`
	Owner   string `json:"owner,omitempty"`
	Country string `json:"country,omitempty"`
	Range   Range  `json:"ip_range"`
}

// Entry is one flagged address with its resolved descriptors, in code order.
type Entry struct {
	Address     string       `json:"address"`
	Descriptors []Descriptor `json:"descriptors"`
}

// Match is a single ASN lookup result.
type Match struct {
	Address    string     `json:"address"`
	Descriptor Descriptor `json:"descriptor"`
}

// Range is an inclusive address range. The zero value means the descriptor carried no range.
type Range struct {
	Low  netip.Addr
	High netip.Addr
}

// IsValid reports whether r holds two same-family bounds with Low <= High.
func (r Range) IsValid() bool {
	return r.Low.IsValid() && r.High.IsValid() &&
		r.Low.BitLen() == r.High.BitLen() && !r.High.Less(r.Low)
}

// String renders the range as "low-high" in numeric form, or "" when absent.
func (r Range) String() string {
	if !r.IsValid() {
		return ""
	}
	return AddrToInt(r.Low).String() + "-" + AddrToInt(r.High).String()
}

// MarshalText renders the range the same way String does.
func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

var ipv4Limit = new(big.Int).Lsh(big.NewInt(1), 32)
var ipv6Limit = new(big.Int).Lsh(big.NewInt(1), 128)
