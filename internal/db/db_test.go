package db

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"blagbl/internal/blag"
	"blagbl/internal/config"

	"github.com/jonboulle/clockwork"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

const (
	testMapping = "\"ASN:111,OwnerX,US,167772160-167772161\",m1\n" +
		"\"ASN:222,OwnerZ,DE,192.168.0.0-192.168.0.255\",m2\n" +
		"alienvault,m3\n"
	testEntries = "10.0.0.5,m1\n" +
		"192.168.0.7,m2,m3\n" +
		"2001:db8::1,m1\n"
)

func testArchive(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range [][2]string{{"README", "readme"}, {"blocklist.txt", testEntries}, {"mapping.txt", testMapping}} {
		w, err := zw.Create(m[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(m[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default(t.TempDir())
	cfg.StorageDir = t.TempDir()
	cfg.Database = filepath.Join(cfg.StorageDir, "blag.zip")
	cfg.FetchTimeout = 5 * time.Second
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func entriesOf(ix *blag.Index) []blag.Entry {
	var out []blag.Entry
	for e := range ix.All() {
		out = append(out, e)
	}
	return out
}

func TestDB_ResolvePath(t *testing.T) {
	t.Parallel()

	t.Run("configured database", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t)
		cfg.Database = filepath.Join(t.TempDir(), "custom.zip")
		require.NoError(t, os.WriteFile(cfg.Database, testArchive(t), 0o644))

		path, err := NewManager(cfg, testLogger()).ResolvePath()
		require.NoError(t, err)
		require.Equal(t, cfg.Database, path)
	})

	t.Run("storage directory fallback", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t)
		cfg.Database = filepath.Join(t.TempDir(), "missing.zip")
		stored := filepath.Join(cfg.StorageDir, config.DefaultArchiveName)
		require.NoError(t, os.WriteFile(stored, testArchive(t), 0o644))

		path, err := NewManager(cfg, testLogger()).ResolvePath()
		require.NoError(t, err)
		require.Equal(t, stored, path)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		m := NewManager(testConfig(t), testLogger())
		_, err := m.ResolvePath()
		require.ErrorIs(t, err, ErrDatabaseNotFound)
		require.ErrorIs(t, m.Open(), ErrDatabaseNotFound)
		require.False(t, m.Ready())
	})
}

func TestDB_DatedURL(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "https://example.org/data/2026/03/2026-03-07.zip", DatedURL("https://example.org/data/", day))
	require.Equal(t, "https://example.org/data/2026/03/2026-03-07.zip", DatedURL("https://example.org/data", day))
}

func TestDB_FetchAndLoad(t *testing.T) {
	t.Parallel()

	archive := testArchive(t)
	var requested atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested.Store(r.URL.Path)
		if r.URL.Path != "/2026/10/2026-10-18.zip" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(archive)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(t)
	cfg.BaseURL = srv.URL + "/"
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
	m := NewManager(cfg, testLogger(), WithClock(clock))

	var reloaded atomic.Int32
	m.OnReload(func(ix *blag.Index) { reloaded.Add(1) })

	path, err := m.Fetch(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, cfg.Database, path)
	require.Equal(t, "/2026/10/2026-10-18.zip", requested.Load())
	require.NoFileExists(t, path+tmpExtension)

	require.NoError(t, m.Load(path))
	require.True(t, m.Ready())
	require.Equal(t, path, m.Path())
	require.Equal(t, clock.Now(), m.LoadedAt())
	require.Equal(t, int32(1), reloaded.Load())

	e, ok := m.Index().LookupAddress("192.168.0.7")
	require.True(t, ok)
	require.Len(t, e.Descriptors, 2)
	require.Equal(t, "ASN:222", e.Descriptors[0].ASN)
	require.Equal(t, "alienvault", e.Descriptors[1].Raw)
}

func TestDB_Fetch_ExplicitDate(t *testing.T) {
	t.Parallel()

	var requested atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested.Store(r.URL.Path)
		_, _ = w.Write([]byte("zip"))
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(t)
	cfg.BaseURL = srv.URL
	m := NewManager(cfg, testLogger())

	_, err := m.Fetch(context.Background(), time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, "/2025/01/2025-01-02.zip", requested.Load())
}

func TestDB_Fetch_UsesProvidedHTTPClient(t *testing.T) {
	t.Parallel()

	archive := testArchive(t)
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(t)
	cfg.BaseURL = srv.URL
	cfg.FetchRetries = 1

	_, err := NewManager(cfg, testLogger()).Fetch(context.Background(), time.Time{})
	require.ErrorIs(t, err, ErrDownloadFailed, "default client does not trust the test certificate")

	m := NewManager(cfg, testLogger(), WithHTTPClient(srv.Client()))
	path, err := m.Fetch(context.Background(), time.Time{})
	require.NoError(t, err)
	require.NoError(t, m.Load(path))
	require.True(t, m.Ready())
}

func TestDB_Fetch_ClientErrorIsPermanent(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(t)
	cfg.BaseURL = srv.URL
	cfg.FetchRetries = 5
	m := NewManager(cfg, testLogger())

	_, err := m.Fetch(context.Background(), time.Time{})
	require.ErrorIs(t, err, ErrDownloadFailed)
	require.Equal(t, int32(1), hits.Load())
	require.NoFileExists(t, cfg.Database)
	require.NoFileExists(t, cfg.Database+tmpExtension)
}

func TestDB_Fetch_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	archive := testArchive(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(archive)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(t)
	cfg.BaseURL = srv.URL
	cfg.FetchRetries = 3
	m := NewManager(cfg, testLogger())

	path, err := m.Fetch(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, int32(2), hits.Load())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, archive, got)
}

func TestDB_Fetch_KeepsExistingFileOnFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(t)
	cfg.BaseURL = srv.URL
	require.NoError(t, os.WriteFile(cfg.Database, []byte("previous"), 0o644))

	_, err := NewManager(cfg, testLogger()).Fetch(context.Background(), time.Time{})
	require.ErrorIs(t, err, ErrDownloadFailed)

	got, err := os.ReadFile(cfg.Database)
	require.NoError(t, err)
	require.Equal(t, "previous", string(got))
}

func TestDB_Load_InvalidArchiveKeepsPreviousIndex(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Database, testArchive(t), 0o644))
	m := NewManager(cfg, testLogger())
	require.NoError(t, m.Load(cfg.Database))
	before := m.Index()

	bad := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0o644))
	err := m.Load(bad)
	require.ErrorIs(t, err, blag.ErrArchiveFormat)
	require.Same(t, before, m.Index())
}

func TestDB_Cache_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.CacheDatabase = true
	require.NoError(t, os.WriteFile(cfg.Database, testArchive(t), 0o644))

	m := NewManager(cfg, testLogger())
	require.NoError(t, m.Load(cfg.Database))
	require.FileExists(t, CachePath(cfg.Database))

	sum, err := fileMD5(cfg.Database)
	require.NoError(t, err)
	cached, err := readCache(CachePath(cfg.Database), sum)
	require.NoError(t, err)
	require.Equal(t, entriesOf(m.Index()), entriesOf(cached))
	require.Len(t, cached.LookupASN("ASN:111", 0), 2)

	_, err = readCache(CachePath(cfg.Database), "0000")
	require.ErrorIs(t, err, ErrCacheStale)

	// A second manager picks up the cache and resolves identically.
	cfg.CacheDatabase = false
	m2 := NewManager(cfg, testLogger())
	require.NoError(t, m2.Load(cfg.Database))
	require.Equal(t, entriesOf(m.Index()), entriesOf(m2.Index()))
}

func TestDB_Cache_StaleCacheIsIgnored(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Database, testArchive(t), 0o644))

	other, err := blag.Load("203.0.113.9,x\n", "something,x\n")
	require.NoError(t, err)
	require.NoError(t, writeCache(CachePath(cfg.Database), other, "stale"))

	m := NewManager(cfg, testLogger())
	require.NoError(t, m.Load(cfg.Database))
	_, ok := m.Index().LookupAddress("203.0.113.9")
	require.False(t, ok)
	require.Equal(t, 3, m.Index().Len())
}

func TestDB_Cache_Unsupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries string
	}{
		{"not an ip literal", "example.com,m\n"},
		{"colliding addresses", "1.2.3.4,m\n::1.2.3.4,m\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ix, err := blag.Load(tt.entries, "desc,m\n")
			require.NoError(t, err)
			err = writeCache(filepath.Join(t.TempDir(), "c.mmdb"), ix, "sum")
			require.ErrorIs(t, err, ErrCacheUnsupported)
		})
	}
}

func TestDB_Updater(t *testing.T) {
	t.Parallel()

	archive := testArchive(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(archive)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(t)
	cfg.BaseURL = srv.URL
	clock := clockwork.NewFakeClock()
	m := NewManager(cfg, testLogger(), WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m.StartUpdater(ctx, time.Hour)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	require.False(t, m.Ready())
	clock.Advance(time.Hour)

	require.Eventually(t, m.Ready, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, int32(1), hits.Load())
	require.Equal(t, 3, m.Index().Len())
}
