// Package fetcher resolves dataset sources (local paths, HTTP, FTP, ZIP
// archives) and parses CSV and XLSX payloads into string rows.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// Options configures the fetchers used by Localize.
type Options struct {
	HTTP HTTPOptions
	FTP  FTPOptions
}

// IsRemote reports whether src names an HTTP(S) or FTP resource.
func IsRemote(src string) bool {
	switch scheme(src) {
	case "http", "https", "ftp":
		return true
	}
	return false
}

func scheme(src string) string {
	i := strings.Index(src, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(src[:i])
}

// Localize returns a local file path for src. Local paths (optionally
// prefixed with file://) are returned as-is after an existence check; remote
// sources are downloaded into dir.
func Localize(ctx context.Context, src, dir string, opts Options) (string, error) {
	var f Fetcher
	switch scheme(src) {
	case "", "file":
		p := strings.TrimPrefix(src, "file://")
		if _, err := os.Stat(p); err != nil {
			return "", eris.Wrapf(err, "fetcher: stat %s", p)
		}
		return p, nil
	case "http", "https":
		f = NewHTTPFetcher(opts.HTTP)
	case "ftp":
		f = NewFTPFetcher(opts.FTP)
	default:
		return "", eris.Errorf("fetcher: unsupported source scheme %q", scheme(src))
	}

	name, err := remoteBaseName(src)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "fetcher: create download dir")
	}
	dest := filepath.Join(dir, name)

	n, err := f.DownloadToFile(ctx, src, dest)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: download %s", src)
	}
	zap.L().Debug("fetcher: downloaded dataset",
		zap.String("source", src),
		zap.String("path", dest),
		zap.Int64("bytes", n),
	)
	return dest, nil
}

// remoteBaseName derives a local file name from the last path segment of a URL.
func remoteBaseName(src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", eris.Wrap(err, "fetcher: parse url")
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "dataset.csv", nil
	}
	return name, nil
}

// copyToFile drains rc into a newly created file at dest.
func copyToFile(rc io.ReadCloser, dest string) (int64, error) {
	defer rc.Close() //nolint:errcheck

	file, err := os.Create(dest)
	if err != nil {
		return 0, eris.Wrap(err, "create file")
	}
	defer file.Close() //nolint:errcheck

	n, err := io.Copy(file, rc)
	if err != nil {
		return n, eris.Wrap(err, "write file")
	}
	return n, nil
}
