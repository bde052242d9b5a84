package render

import (
	"fmt"
	"io"

	"blagbl/internal/common"
)

// plain writes one labelled block per record.
type plain struct {
	w io.Writer
}

func (p *plain) Address(row common.AddressRow) error {
	v := row.Values()
	if _, err := fmt.Fprintf(p.w, "Address: %s\n  Numeric ip: %s\n", v[0], v[1]); err != nil {
		return err
	}
	return p.block(v[2], v[3], v[4], v[5])
}

func (p *plain) ASN(row common.ASNRow) error {
	return p.block(row.Values()...)
}

func (p *plain) block(v ...string) error {
	_, err := fmt.Fprintf(p.w, "         ASN: %s\n       Owner: %s\n     Country: %s\n    ip_range: %s\n\n",
		v[0], v[1], v[2], v[3])
	return err
}

func (p *plain) Flush() error { return nil }
