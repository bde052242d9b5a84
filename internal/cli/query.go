package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"blagbl/internal/blag"
	"blagbl/internal/common"
	"blagbl/internal/db"
	"blagbl/internal/render"

	"github.com/spf13/cobra"
)

// runQuery handles the root command: optional fetch, then lookups or annotation.
func runQuery(cmd *cobra.Command, o *options, args []string, s streams) error {
	cfg, log, err := o.setup(s.err)
	if err != nil {
		return err
	}
	if o.asnLimit < 0 {
		return fmt.Errorf("--asn-limit must not be negative, got %d", o.asnLimit)
	}
	byASN := o.byASN || o.asnLimit > 0

	manager := db.NewManager(cfg, log)
	if o.fetch {
		day, err := o.fetchDay()
		if err != nil {
			return err
		}
		path, err := manager.Fetch(cmd.Context(), day)
		if err != nil {
			return err
		}
		if len(args) == 0 && o.inputFSDB == "" {
			return nil
		}
		err = manager.Load(path)
		if err != nil {
			return err
		}
	} else if err := manager.Open(); err != nil {
		if errors.Is(err, db.ErrDatabaseNotFound) {
			log.Error("cannot find the blag database; run with --fetch to download a copy", "storage", cfg.StorageDir)
		}
		return err
	}
	ix := manager.Index()

	out, closeOut, err := openOutput(o.outputFile, s.out)
	if err != nil {
		return err
	}
	defer closeOut()

	if o.inputFSDB != "" {
		in, err := os.Open(o.inputFSDB)
		if err != nil {
			return err
		}
		defer func() { _ = in.Close() }()
		return annotate(ix, in, out, o.key, byASN)
	}

	if o.pcap {
		return writeFilter(ix, out, args, byASN, o.asnLimit, log)
	}

	r, err := render.New(out, render.FormatFor(cfg.Style, o.fsdb), byASN)
	if err != nil {
		return err
	}
	for _, arg := range args {
		if byASN {
			rows := common.LookupASN(ix, arg, o.asnLimit)
			if len(rows) == 0 {
				log.Info("no records for asn", "asn", arg)
			}
			for _, row := range rows {
				if err := r.ASN(row); err != nil {
					return err
				}
			}
			continue
		}
		rows, ok := common.LookupAddress(ix, arg)
		if !ok {
			log.Info("address not listed", "address", arg, "bogon", common.IsBogon(arg))
		}
		for _, row := range rows {
			if err := r.Address(row); err != nil {
				return err
			}
		}
	}
	return r.Flush()
}

// writeFilter prints one pcap filter covering the ranges of every result.
func writeFilter(ix *blag.Index, out io.Writer, args []string, byASN bool, limit int, log *slog.Logger) error {
	var ranges []blag.Range
	for _, arg := range args {
		if byASN {
			rs, err := blag.MatchRanges(ix.LookupASN(arg, limit))
			if err != nil {
				return err
			}
			ranges = append(ranges, rs...)
			continue
		}
		e, ok := ix.LookupAddress(arg)
		if !ok {
			log.Info("address not listed", "address", arg)
			continue
		}
		for _, d := range e.Descriptors {
			if d.Range.IsValid() {
				ranges = append(ranges, d.Range)
			}
		}
	}
	if len(ranges) == 0 {
		return errors.New("no address ranges matched; nothing to filter")
	}
	return render.Filter(out, blag.FilterExpression(blag.Summarize(ranges)))
}

// openOutput returns the -o file, or fallback when path is empty.
func openOutput(path string, fallback io.Writer) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return fallback, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
