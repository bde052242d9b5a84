package render

import (
	"blagbl/internal/common"
	"blagbl/internal/fsdb"
)

type fsdbRenderer struct {
	out *fsdb.Writer
}

func (f *fsdbRenderer) Address(row common.AddressRow) error { return f.out.Write(row.Values()) }

func (f *fsdbRenderer) ASN(row common.ASNRow) error { return f.out.Write(row.Values()) }

func (f *fsdbRenderer) Flush() error { return f.out.Close() }
