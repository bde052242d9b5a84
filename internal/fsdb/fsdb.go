// Package fsdb reads and writes FSDB flat-file tables: a "#fsdb" header
// naming the columns, separator-delimited rows and "#" comment lines.
package fsdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	headerPrefix = "#fsdb"
	emptyValue   = "-"
)

var ErrNoHeader = errors.New("fsdb: missing #fsdb header")

var valueReplacer = strings.NewReplacer("\t", " ", "\n", " ")

// Reader reads rows from an FSDB stream.
type Reader struct {
	Columns  []string
	Comments []string

	sep string
	sc  *bufio.Scanner
}

// NewReader consumes the header line from r.
func NewReader(r io.Reader) (*Reader, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoHeader
	}

	sep, cols, err := parseHeader(sc.Text())
	if err != nil {
		return nil, err
	}
	return &Reader{Columns: cols, sep: sep, sc: sc}, nil
}

func parseHeader(line string) (string, []string, error) {
	f := strings.Fields(line)
	if len(f) == 0 || f[0] != headerPrefix {
		return "", nil, ErrNoHeader
	}
	sep := "\t"
	var cols []string
	for i := 1; i < len(f); i++ {
		if f[i] == "-F" && i+1 < len(f) {
			switch f[i+1] {
			case "t":
				sep = "\t"
			case "s", "S":
				sep = " "
			default:
				return "", nil, fmt.Errorf("fsdb: unsupported separator %q", f[i+1])
			}
			i++
			continue
		}
		name, _, _ := strings.Cut(f[i], ":")
		cols = append(cols, name)
	}
	return sep, cols, nil
}

// Column returns the position of the named column.
func (r *Reader) Column(name string) (int, error) {
	for i, c := range r.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("fsdb: no column %q in %v", name, r.Columns)
}

// Read returns the next data row, skipping comments. It returns io.EOF at the end.
func (r *Reader) Read() ([]string, error) {
	for r.sc.Scan() {
		line := r.sc.Text()
		if strings.HasPrefix(line, "#") {
			r.Comments = append(r.Comments, line)
			continue
		}
		if line == "" {
			continue
		}
		var row []string
		if r.sep == " " {
			row = strings.Fields(line)
		} else {
			row = strings.Split(line, r.sep)
		}
		return row, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Writer writes an FSDB table with tab separators.
type Writer struct {
	columns []string
	w       *bufio.Writer
	started bool
}

// NewWriter returns a writer for the given columns. The header is written with the first row.
func NewWriter(w io.Writer, columns []string) *Writer {
	return &Writer{columns: columns, w: bufio.NewWriter(w)}
}

func (w *Writer) header() error {
	if w.started {
		return nil
	}
	w.started = true
	_, err := fmt.Fprintf(w.w, "%s -F t %s\n", headerPrefix, strings.Join(w.columns, " "))
	return err
}

// Write appends one row. Empty values become "-"; tabs and newlines inside values become spaces.
func (w *Writer) Write(row []string) error {
	if len(row) != len(w.columns) {
		return fmt.Errorf("fsdb: row has %d values, want %d", len(row), len(w.columns))
	}
	if err := w.header(); err != nil {
		return err
	}
	vals := make([]string, len(row))
	for i, v := range row {
		if v == "" {
			v = emptyValue
		}
		vals[i] = valueReplacer.Replace(v)
	}
	_, err := w.w.WriteString(strings.Join(vals, "\t") + "\n")
	return err
}

// Close writes the header if no row was written, then the trailing comments, and flushes.
func (w *Writer) Close(comments ...string) error {
	if err := w.header(); err != nil {
		return err
	}
	for _, c := range comments {
		if _, err := fmt.Fprintf(w.w, "# %s\n", c); err != nil {
			return err
		}
	}
	return w.w.Flush()
}
