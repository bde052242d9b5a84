package db

import "errors"

// File naming for the dataset archive and its index cache.
const (
	CacheExtension = ".mmdb"
	tmpExtension   = ".tmp"
	datedLayout    = "2006/01/2006-01-02"
	cacheType      = "BLAG-Index"
)

// Error messages
var (
	ErrDatabaseNotFound = errors.New("blag database not found")
	ErrDownloadFailed   = errors.New("failed to download blag database")
	ErrCacheStale       = errors.New("index cache does not match archive")
	ErrCacheUnsupported = errors.New("index cannot be cached")
)

// cacheRecord is the value stored per host network in the index cache.
type cacheRecord struct {
	Address     string   `maxminddb:"address"`
	Position    uint64   `maxminddb:"position"`
	Descriptors []string `maxminddb:"descriptors"`
}
