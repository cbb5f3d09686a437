// Package export packs saved generations into a zstd-compressed ZIP.
package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// MethodZstd is the ZIP compression method ID for Zstandard (APPNOTE 6.3.7).
const MethodZstd uint16 = 93

// compressionLevel is zstd level 12, the highest klauspost/compress offers.
const compressionLevel = 12

// bundleExtensions are the result files picked up from a directory.
var bundleExtensions = map[string]bool{
	".png": true, ".jpg": true, ".webp": true, ".gif": true,
	".mp4": true, ".webm": true, ".mov": true,
}

// Entry describes one file in the bundle manifest.
type Entry struct {
	Name     string    `json:"name"`
	Bytes    int64     `json:"bytes"`
	Modified time.Time `json:"modified"`
}

// Manifest is written as manifest.json inside every bundle.
type Manifest struct {
	Created time.Time `json:"created"`
	Entries []Entry   `json:"entries"`
}

// Collect lists result files in dir, sorted by name.
func Collect(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !bundleExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Write streams files into a ZIP on w, each entry compressed with zstd, and
// appends a manifest. It returns the manifest.
func Write(w io.Writer, files []string) (*Manifest, error) {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(MethodZstd, func(out io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
	})

	m := &Manifest{Created: time.Now().UTC()}
	for _, path := range files {
		entry, err := addFile(zw, path)
		if err != nil {
			zw.Close()
			return nil, err
		}
		m.Entries = append(m.Entries, entry)
	}

	mw, err := zw.CreateHeader(&zip.FileHeader{Name: "manifest.json", Method: zip.Deflate, Modified: m.Created})
	if err != nil {
		zw.Close()
		return nil, fmt.Errorf("create manifest entry: %w", err)
	}
	enc := json.NewEncoder(mw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		zw.Close()
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close ZIP writer: %w", err)
	}
	return m, nil
}

func addFile(zw *zip.Writer, path string) (Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return Entry{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Entry{}, fmt.Errorf("stat %s: %w", path, err)
	}

	name := filepath.Base(path)
	header := &zip.FileHeader{Name: name, Method: MethodZstd}
	header.SetModTime(info.ModTime())
	fw, err := zw.CreateHeader(header)
	if err != nil {
		return Entry{}, fmt.Errorf("create ZIP entry for %s: %w", name, err)
	}
	n, err := io.Copy(fw, f)
	if err != nil {
		return Entry{}, fmt.Errorf("write to ZIP for %s: %w", name, err)
	}
	return Entry{Name: name, Bytes: n, Modified: info.ModTime().UTC()}, nil
}

// Bundle packs every result file in dir into a ZIP at dest.
func Bundle(dir, dest string) (*Manifest, error) {
	files, err := Collect(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no results found in %s", dir)
	}

	out, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", dest, err)
	}
	m, err := Write(out, files)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", dest, cerr)
	}
	if err != nil {
		os.Remove(dest)
		return nil, err
	}

	log.Info().
		Str("dest", dest).
		Int("files", len(m.Entries)).
		Msg("Export bundle written")
	return m, nil
}
