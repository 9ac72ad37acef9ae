// Package archivetest builds small tar.gz and zip archives for tests.
package archivetest

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

// File is one archive entry. Entries ending in "/" are written as
// directories.
type File struct {
	Name string
	Body string
}

// WriteTarGz writes files into a gzip-compressed tarball at path, in order,
// creating parent directories as needed.
func WriteTarGz(t testing.TB, path string, files ...File) string {
	t.Helper()
	f := create(t, path)
	defer closeOrFail(t, f)

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for _, file := range files {
		hdr := &tar.Header{Name: file.Name, Mode: 0o644, Size: int64(len(file.Body)), Typeflag: tar.TypeReg}
		if isDir(file.Name) {
			hdr = &tar.Header{Name: file.Name, Mode: 0o755, Typeflag: tar.TypeDir}
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("tar header %s: %v", file.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(file.Body)); err != nil {
				t.Fatalf("tar write %s: %v", file.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return path
}

// WriteZip writes files into a zip archive at path, in order.
func WriteZip(t testing.TB, path string, files ...File) string {
	t.Helper()
	f := create(t, path)
	defer closeOrFail(t, f)

	zw := zip.NewWriter(f)
	for _, file := range files {
		w, err := zw.Create(file.Name)
		if err != nil {
			t.Fatalf("zip create %s: %v", file.Name, err)
		}
		if isDir(file.Name) {
			continue
		}
		if _, err := w.Write([]byte(file.Body)); err != nil {
			t.Fatalf("zip write %s: %v", file.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return path
}

func create(t testing.TB, path string) *os.File {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	return f
}

func closeOrFail(t testing.TB, f *os.File) {
	t.Helper()
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", f.Name(), err)
	}
}

func isDir(name string) bool {
	return len(name) > 0 && name[len(name)-1] == '/'
}
