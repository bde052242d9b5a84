package common

import "blagbl/internal/blag"

// Output column names for each row shape.
var (
	AddressColumns = []string{"address", "ip_numeric", "ASN", "owner", "country", "ip_range"}
	ASNColumns     = []string{"ASN", "owner", "country", "ip_range"}
)

// AddressRow is one resolved descriptor of an address lookup.
type AddressRow struct {
	Address string `json:"address"`
	Numeric string `json:"ip_numeric,omitempty"`
	ASN     string `json:"asn,omitempty"`
	Owner   string `json:"owner,omitempty"`
	Country string `json:"country,omitempty"`
	IPRange string `json:"ip_range,omitempty"`
	Raw     string `json:"descriptor"`
}

// Values returns the row in AddressColumns order.
func (r AddressRow) Values() []string {
	return []string{r.Address, r.Numeric, r.ASN, r.owner(), r.Country, r.IPRange}
}

// AppendTo appends the columns after "address" to row, for annotating an existing table.
func (r AddressRow) AppendTo(row []string) []string {
	return append(row, r.Values()[1:]...)
}

// owner falls back to the raw descriptor for descriptors that carry only a list name.
func (r AddressRow) owner() string {
	if r.Owner == "" && r.ASN == "" {
		return r.Raw
	}
	return r.Owner
}

// ASNRow is one ASN lookup result without the address it came from.
type ASNRow struct {
	ASN     string `json:"asn"`
	Owner   string `json:"owner"`
	Country string `json:"country"`
	IPRange string `json:"ip_range"`
}

// Values returns the row in ASNColumns order.
func (r ASNRow) Values() []string {
	return []string{r.ASN, r.Owner, r.Country, r.IPRange}
}

// AppendTo appends the columns after "ASN" to row.
func (r ASNRow) AppendTo(row []string) []string {
	return append(row, r.Values()[1:]...)
}

// Filler returns n "-" placeholders for rows with no match.
func Filler(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "-"
	}
	return out
}

// NewAddressRow flattens one descriptor of an entry.
func NewAddressRow(address string, d blag.Descriptor) AddressRow {
	return AddressRow{
		Address: address,
		Numeric: blag.NumericAddress(address),
		ASN:     d.ASN,
		Owner:   d.Owner,
		Country: d.Country,
		IPRange: d.Range.String(),
		Raw:     d.Raw,
	}
}

// NewASNRow flattens one ASN match.
func NewASNRow(m blag.Match) ASNRow {
	return ASNRow{
		ASN:     m.Descriptor.ASN,
		Owner:   m.Descriptor.Owner,
		Country: m.Descriptor.Country,
		IPRange: m.Descriptor.Range.String(),
	}
}
