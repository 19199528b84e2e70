package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/a.csv"))
	assert.True(t, IsRemote("HTTP://example.com/a.csv"))
	assert.True(t, IsRemote("ftp://example.com/a.csv"))
	assert.False(t, IsRemote("world_population.csv"))
	assert.False(t, IsRemote("file:///tmp/a.csv"))
}

func TestLocalize_LocalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world_population.csv")
	require.NoError(t, writeTestFile(path, "Country\n"))

	got, err := Localize(context.Background(), path, t.TempDir(), Options{})
	require.NoError(t, err)
	assert.Equal(t, path, got)

	got, err = Localize(context.Background(), "file://"+path, t.TempDir(), Options{})
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestLocalize_MissingLocalPath(t *testing.T) {
	_, err := Localize(context.Background(), "/nonexistent/world.csv", t.TempDir(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher: stat")
}

func TestLocalize_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Country\nPeru\n")) //nolint:errcheck
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "cache")
	got, err := Localize(context.Background(), srv.URL+"/data/world_population.csv", dir, Options{
		HTTP: HTTPOptions{Timeout: 5 * time.Second, BaseBackoff: time.Millisecond},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "world_population.csv"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "Country\nPeru\n", string(data))
}

func TestLocalize_UnsupportedScheme(t *testing.T) {
	_, err := Localize(context.Background(), "s3://bucket/world.csv", t.TempDir(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported source scheme "s3"`)
}

func TestRemoteBaseName(t *testing.T) {
	name, err := remoteBaseName("https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "dataset.csv", name)

	name, err = remoteBaseName("https://example.com/files/archive.zip?dl=1")
	require.NoError(t, err)
	assert.Equal(t, "archive.zip", name)
}
