package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// datasetExts lists the archive member extensions recognised as datasets.
var datasetExts = map[string]bool{".csv": true, ".xlsx": true}

// ExtractDataset extracts the single CSV or XLSX member of a ZIP archive into
// destDir and returns its path. Directories and macOS resource forks are ignored.
func ExtractDataset(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var candidates []*zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		if datasetExts[strings.ToLower(filepath.Ext(f.Name))] {
			candidates = append(candidates, f)
		}
	}

	switch len(candidates) {
	case 0:
		return "", eris.Errorf("zip: no csv or xlsx member in %s", zipPath)
	case 1:
		return extractZIPEntry(candidates[0], destDir)
	default:
		return "", eris.Errorf("zip: %d dataset members in %s, expected exactly 1", len(candidates), zipPath)
	}
}

// extractZIPEntry extracts a single zip.File to the destination directory.
func extractZIPEntry(f *zip.File, destDir string) (string, error) {
	destPath := filepath.Join(destDir, f.Name)
	if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", eris.Errorf("zip: illegal path %q (zip slip attempt)", f.Name)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", eris.Wrap(err, "zip: create parent directory")
	}

	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrap(err, "zip: open entry")
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: create file")
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return "", eris.Wrap(err, "zip: write file")
	}

	return destPath, nil
}
