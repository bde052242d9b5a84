package db

import (
	"crypto/md5"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// fileMD5 calculates the MD5 hash of a file.
func fileMD5(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Warn("failed to close file", "path", path, "err", err)
		}
	}()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// CachePath returns where the index cache for the archive at path lives.
func CachePath(path string) string { return path + CacheExtension }

// DatedURL returns the published archive URL for the snapshot of day.
func DatedURL(baseURL string, day time.Time) string {
	return strings.TrimRight(baseURL, "/") + "/" + day.Format(datedLayout) + ".zip"
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
