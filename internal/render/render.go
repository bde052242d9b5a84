// Package render writes lookup results in the selected output style.
package render

import (
	"fmt"
	"io"

	"blagbl/internal/common"
	"blagbl/internal/config"
	"blagbl/internal/fsdb"
)

// Output formats.
const (
	FormatPlain    = "plain"
	FormatEnhanced = "enhanced"
	FormatFSDB     = "fsdb"
)

// Renderer receives result rows and writes them in one output format.
// A Renderer handles either address rows or ASN rows, not both.
type Renderer interface {
	Address(row common.AddressRow) error
	ASN(row common.ASNRow) error
	Flush() error
}

// FormatFor maps a configured style and the FSDB flag to an output format.
func FormatFor(style string, asFSDB bool) string {
	switch {
	case asFSDB:
		return FormatFSDB
	case style == config.StyleEnhanced:
		return FormatEnhanced
	default:
		return FormatPlain
	}
}

// New returns the renderer for format. byASN selects the ASN column set for tabular formats.
func New(w io.Writer, format string, byASN bool) (Renderer, error) {
	columns := common.AddressColumns
	if byASN {
		columns = common.ASNColumns
	}
	switch format {
	case FormatPlain, "":
		return &plain{w: w}, nil
	case FormatEnhanced:
		return newTable(w, columns), nil
	case FormatFSDB:
		return &fsdbRenderer{out: fsdb.NewWriter(w, columns)}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// Filter writes a pcap filter expression on its own line.
func Filter(w io.Writer, expr string) error {
	_, err := fmt.Fprintln(w, expr)
	return err
}
