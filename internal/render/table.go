package render

import (
	"io"

	"blagbl/internal/common"

	"github.com/logrusorgru/aurora"
	"github.com/olekukonko/tablewriter"
)

// table buffers rows and renders a bordered table on Flush.
type table struct {
	t    *tablewriter.Table
	au   aurora.Aurora
	rows int
}

func newTable(w io.Writer, columns []string) *table {
	t := tablewriter.NewWriter(w)
	t.SetAutoWrapText(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	t.SetAutoFormatHeaders(false)
	t.SetBorder(true)
	t.SetRowLine(true)
	t.SetHeader(columns)
	return &table{t: t, au: aurora.NewAurora(isTerminal(w))}
}

func (t *table) Address(row common.AddressRow) error {
	v := row.Values()
	v[0] = t.au.Bold(v[0]).String()
	v[2] = t.au.Cyan(v[2]).String()
	t.t.Append(v)
	t.rows++
	return nil
}

func (t *table) ASN(row common.ASNRow) error {
	v := row.Values()
	v[0] = t.au.Cyan(v[0]).String()
	t.t.Append(v)
	t.rows++
	return nil
}

func (t *table) Flush() error {
	if t.rows > 0 {
		t.t.Render()
	}
	return nil
}
