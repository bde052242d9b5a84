package db

import (
	"fmt"
	"net"
	"net/netip"
	"os"
	"slices"

	"blagbl/internal/blag"

	"github.com/maxmind/mmdbwriter"
	"github.com/maxmind/mmdbwriter/mmdbtype"
	"github.com/oschwald/maxminddb-golang"
)

// writeCache stores ix as a MaxMind DB with one host network per address.
// The archive checksum goes into the metadata so a stale cache is detected on read.
func writeCache(path string, ix *blag.Index, sum string) error {
	tree, err := mmdbwriter.New(mmdbwriter.Options{
		DatabaseType:            cacheType,
		Description:             map[string]string{"en": "blag resolution index", "md5": sum},
		IPVersion:               6,
		RecordSize:              28,
		IncludeReservedNetworks: true,
		DisableIPv4Aliasing:     true,
	})
	if err != nil {
		return err
	}

	seen := make(map[netip.Addr]string, ix.Len())
	position := uint64(0)
	for e := range ix.All() {
		addr, err := netip.ParseAddr(e.Address)
		if err != nil || addr.Zone() != "" {
			return fmt.Errorf("%w: address %q is not an IP literal", ErrCacheUnsupported, e.Address)
		}
		key := treeKey(addr)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: addresses %q and %q share a network", ErrCacheUnsupported, prev, e.Address)
		}
		seen[key] = e.Address

		raws := make(mmdbtype.Slice, len(e.Descriptors))
		for i, d := range e.Descriptors {
			raws[i] = mmdbtype.String(d.Raw)
		}
		record := mmdbtype.Map{
			"address":     mmdbtype.String(e.Address),
			"position":    mmdbtype.Uint64(position),
			"descriptors": raws,
		}
		network := &net.IPNet{IP: addr.AsSlice(), Mask: net.CIDRMask(addr.BitLen(), addr.BitLen())}
		if err := tree.Insert(network, record); err != nil {
			return fmt.Errorf("%w: inserting %q: %v", ErrCacheUnsupported, e.Address, err)
		}
		position++
	}

	tmp := path + tmpExtension
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := tree.WriteTo(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// readCache rebuilds the index stored at path when it was written for the archive with sum.
func readCache(path, sum string) (*blag.Index, error) {
	reader, err := maxminddb.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	if reader.Metadata.DatabaseType != cacheType || reader.Metadata.Description["md5"] != sum {
		return nil, ErrCacheStale
	}

	var records []cacheRecord
	networks := reader.Networks(maxminddb.SkipAliasedNetworks)
	for networks.Next() {
		var rec cacheRecord
		if _, err := networks.Network(&rec); err != nil {
			return nil, fmt.Errorf("reading index cache: %w", err)
		}
		records = append(records, rec)
	}
	if err := networks.Err(); err != nil {
		return nil, fmt.Errorf("reading index cache: %w", err)
	}

	slices.SortFunc(records, func(a, b cacheRecord) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		}
		return 0
	})

	entries := make([]blag.Entry, len(records))
	for i, rec := range records {
		ds := make([]blag.Descriptor, len(rec.Descriptors))
		for j, raw := range rec.Descriptors {
			ds[j] = blag.ParseDescriptor(raw)
		}
		entries[i] = blag.Entry{Address: rec.Address, Descriptors: ds}
	}
	return blag.NewIndex(entries), nil
}

// treeKey returns the IPv6 tree position of addr. IPv4 hosts live under ::/96.
func treeKey(addr netip.Addr) netip.Addr {
	if !addr.Is4() {
		return addr
	}
	var b [16]byte
	v4 := addr.As4()
	copy(b[12:], v4[:])
	return netip.AddrFrom16(b)
}
