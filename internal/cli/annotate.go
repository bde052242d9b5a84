package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"blagbl/internal/blag"
	"blagbl/internal/common"
	"blagbl/internal/fsdb"
)

// annotate copies an FSDB table from r to w, appending lookup columns for the key column.
// Address mode uses the first descriptor; ASN mode uses the first match. Misses get "-".
func annotate(ix *blag.Index, r io.Reader, w io.Writer, key string, byASN bool) error {
	in, err := fsdb.NewReader(r)
	if err != nil {
		return err
	}
	col, err := in.Column(key)
	if err != nil {
		return err
	}

	extra := common.AddressColumns[1:]
	if byASN {
		extra = common.ASNColumns[1:]
	}
	columns := append(append([]string{}, in.Columns...), extra...)
	out := fsdb.NewWriter(w, columns)

	for n := 1; ; n++ {
		row, err := in.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if len(row) != len(in.Columns) {
			return fmt.Errorf("fsdb row %d has %d values, want %d", n, len(row), len(in.Columns))
		}

		value := row[col]
		switch {
		case byASN:
			if rows := common.LookupASN(ix, value, 1); len(rows) > 0 {
				row = rows[0].AppendTo(row)
			} else {
				row = append(row, common.Filler(len(extra))...)
			}
		default:
			if rows, ok := common.LookupAddress(ix, value); ok && len(rows) > 0 {
				row = rows[0].AppendTo(row)
			} else {
				row = append(row, common.Filler(len(extra))...)
			}
		}
		if err := out.Write(row); err != nil {
			return err
		}
	}

	comments := make([]string, 0, len(in.Comments)+1)
	for _, c := range in.Comments {
		comments = append(comments, strings.TrimSpace(strings.TrimPrefix(c, "#")))
	}
	comments = append(comments, "| blag -I -k "+key)
	return out.Close(comments...)
}
