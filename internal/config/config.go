package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Output and log styles.
const (
	StylePlain    = "plain"
	StyleEnhanced = "enhanced"
)

const (
	DefaultBaseURL        = "https://steel.isi.edu/projects/BLAG/data/"
	DefaultArchiveName    = "blag.zip"
	DefaultListenAddr     = ":3000"
	DefaultDNSBLZone      = "blag.local."
	DefaultUpdateInterval = 24 * time.Hour
	DefaultCacheTTL       = 10 * time.Minute
	DefaultFetchTimeout   = 2 * time.Minute
	DefaultFetchRetries   = 3
	DefaultMaxConnections = 256
)

// Config is passed explicitly to every component that needs a path, address or interval.
type Config struct {
	Database       string
	StorageDir     string
	BaseURL        string
	FetchTimeout   time.Duration
	FetchRetries   int
	LogLevel       string
	Style          string
	CacheDatabase  bool
	ListenAddr     string
	MaxConnections int
	UpdateInterval time.Duration
	CacheTTL       time.Duration
	DNSBLAddr      string
	DNSBLZone      string
}

// Default returns the built-in configuration. StorageDir is derived from home.
func Default(home string) Config {
	storage := filepath.Join(home, ".local", "share", "blag")
	return Config{
		Database:       filepath.Join(storage, DefaultArchiveName),
		StorageDir:     storage,
		BaseURL:        DefaultBaseURL,
		FetchTimeout:   DefaultFetchTimeout,
		FetchRetries:   DefaultFetchRetries,
		LogLevel:       "info",
		Style:          StylePlain,
		ListenAddr:     DefaultListenAddr,
		MaxConnections: DefaultMaxConnections,
		UpdateInterval: DefaultUpdateInterval,
		CacheTTL:       DefaultCacheTTL,
		DNSBLZone:      DefaultDNSBLZone,
	}
}

// Load reads optional env files, then BLAG_* variables, on top of the defaults.
// Missing env files are ignored; variables already set in the process win.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg := Default(home)
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	if v, ok := lookup("BLAG_STORAGE_DIR"); ok && v != "" {
		c.StorageDir = v
		c.Database = filepath.Join(v, DefaultArchiveName)
	}
	str("BLAG_DATABASE", &c.Database)
	str("BLAG_BASE_URL", &c.BaseURL)
	str("BLAG_LOG_LEVEL", &c.LogLevel)
	str("BLAG_STYLE", &c.Style)
	str("BLAG_LISTEN_ADDR", &c.ListenAddr)
	str("BLAG_DNSBL_ADDR", &c.DNSBLAddr)
	str("BLAG_DNSBL_ZONE", &c.DNSBLZone)

	if v, ok := lookup("BLAG_CACHE_DATABASE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BLAG_CACHE_DATABASE: %w", err)
		}
		c.CacheDatabase = b
	}

	return errors.Join(
		dur("BLAG_FETCH_TIMEOUT", &c.FetchTimeout),
		dur("BLAG_UPDATE_INTERVAL", &c.UpdateInterval),
		dur("BLAG_CACHE_TTL", &c.CacheTTL),
		num("BLAG_FETCH_RETRIES", &c.FetchRetries),
		num("BLAG_MAX_CONNECTIONS", &c.MaxConnections),
	)
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	var errs []error
	switch c.Style {
	case StylePlain, StyleEnhanced:
	default:
		errs = append(errs, fmt.Errorf("style must be %q or %q, got %q", StylePlain, StyleEnhanced, c.Style))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("base url must be http(s), got %q", c.BaseURL))
	}
	if c.FetchRetries < 1 {
		errs = append(errs, fmt.Errorf("fetch retries must be at least 1, got %d", c.FetchRetries))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, errors.New("fetch timeout must be positive"))
	}
	if c.UpdateInterval <= 0 {
		errs = append(errs, errors.New("update interval must be positive"))
	}
	if c.MaxConnections < 1 {
		errs = append(errs, fmt.Errorf("max connections must be at least 1, got %d", c.MaxConnections))
	}
	if c.DNSBLZone == "" {
		errs = append(errs, errors.New("dnsbl zone must not be empty"))
	}
	return errors.Join(errs...)
}
