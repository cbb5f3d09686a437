package export

import (
	"archive/zip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestBundleRoundTrip(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"gen-1.png": strings.Repeat("png", 100),
		"gen-2.mp4": strings.Repeat("mp4", 1000),
		"notes.txt": "ignored",
		"gen-3.JPG": "jpeg",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	dest := filepath.Join(t.TempDir(), "bundle.zip")
	m, err := Bundle(dir, dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(m.Entries))
	}

	zr, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	zr.RegisterDecompressor(MethodZstd, zstd.ZipDecompressor())

	seen := map[string]bool{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		seen[f.Name] = true

		if f.Name == "manifest.json" {
			var got Manifest
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("manifest: %v", err)
			}
			if len(got.Entries) != 3 {
				t.Errorf("manifest entries = %d", len(got.Entries))
			}
			continue
		}
		if f.Method != MethodZstd {
			t.Errorf("%s method = %d, want zstd", f.Name, f.Method)
		}
		if string(data) != files[f.Name] {
			t.Errorf("%s content mismatch", f.Name)
		}
	}
	if seen["notes.txt"] {
		t.Error("non-result file bundled")
	}
	if !seen["manifest.json"] || !seen["gen-2.mp4"] {
		t.Errorf("missing entries: %v", seen)
	}
}

func TestBundleEmptyDir(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "bundle.zip")
	if _, err := Bundle(t.TempDir(), dest); err == nil {
		t.Error("expected error for empty directory")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("no bundle should be created")
	}
}
