package db

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"blagbl/internal/blag"
	"blagbl/internal/config"
	"blagbl/internal/metrics"

	"github.com/jonboulle/clockwork"
	"github.com/klauspost/compress/gzhttp"
)

// Manager owns the loaded index and replaces it wholesale on reload.
type Manager struct {
	cfg        config.Config
	log        *slog.Logger
	clock      clockwork.Clock
	httpClient *http.Client

	mu       sync.RWMutex
	index    *blag.Index
	path     string
	loadedAt time.Time
	onReload []func(*blag.Index)
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock sets the clock used for dated fetch paths and the updater.
func WithClock(c clockwork.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithHTTPClient sets the client used to download archives.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.httpClient = c }
}

// NewManager creates a manager with no index loaded.
func NewManager(cfg config.Config, log *slog.Logger, opts ...Option) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		cfg:   cfg,
		log:   log,
		clock: clockwork.NewRealClock(),
		httpClient: &http.Client{
			Timeout:   cfg.FetchTimeout,
			Transport: gzhttp.Transport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ResolvePath picks the archive to load: the configured database when it is a file,
// then blag.zip in the working directory, then blag.zip in the storage directory.
func (m *Manager) ResolvePath() (string, error) {
	candidates := []string{
		m.cfg.Database,
		config.DefaultArchiveName,
		filepath.Join(m.cfg.StorageDir, config.DefaultArchiveName),
	}
	for _, p := range candidates {
		if p != "" && isFile(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %v (use --fetch to download it)", ErrDatabaseNotFound, candidates)
}

// Open resolves the archive path and loads it.
func (m *Manager) Open() error {
	path, err := m.ResolvePath()
	if err != nil {
		return err
	}
	return m.Load(path)
}

// Load builds an index from the archive at path, preferring a matching index cache,
// and swaps it in for subsequent readers.
func (m *Manager) Load(path string) error {
	start := m.clock.Now()
	ix, err := m.build(path)
	if err != nil {
		metrics.Reloads.WithLabelValues("error").Inc()
		return fmt.Errorf("loading %s: %w", path, err)
	}

	m.mu.Lock()
	m.index = ix
	m.path = path
	m.loadedAt = m.clock.Now()
	hooks := append([]func(*blag.Index){}, m.onReload...)
	m.mu.Unlock()

	metrics.Reloads.WithLabelValues("ok").Inc()
	metrics.IndexEntries.Set(float64(ix.Len()))
	metrics.IndexASNs.Set(float64(ix.ASNs()))
	metrics.IndexLoadedAt.Set(float64(m.loadedAt.Unix()))
	m.log.Info("blag index loaded", "path", path, "entries", ix.Len(), "asns", ix.ASNs(),
		"duration", m.clock.Since(start))

	for _, fn := range hooks {
		fn(ix)
	}
	return nil
}

func (m *Manager) build(path string) (*blag.Index, error) {
	sum, err := fileMD5(path)
	if err != nil {
		return nil, err
	}

	cache := CachePath(path)
	ix, err := readCache(cache, sum)
	switch {
	case err == nil:
		m.log.Debug("using index cache", "cache", cache)
		return ix, nil
	case errors.Is(err, fs.ErrNotExist):
	default:
		m.log.Debug("ignoring index cache", "cache", cache, "err", err)
	}

	ix, err = blag.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if m.cfg.CacheDatabase {
		if err := writeCache(cache, ix, sum); err != nil {
			m.log.Warn("failed to write index cache", "cache", cache, "err", err)
		} else {
			m.log.Info("wrote index cache", "cache", cache)
		}
	}
	return ix, nil
}
