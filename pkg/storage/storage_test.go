package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveFile_CreatesParents(t *testing.T) {
	s := &Storage{}
	path := filepath.Join(t.TempDir(), "results", "nested", "out.csv")

	if err := s.SaveFile(path, []byte("City1,City2\n")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if !s.HasFile(path) {
		t.Fatal("HasFile() = false after SaveFile")
	}
	data, err := s.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "City1,City2\n" {
		t.Errorf("ReadFile() = %q", data)
	}
	stats, err := s.GetFileStats(path)
	if err != nil {
		t.Fatalf("GetFileStats() error = %v", err)
	}
	if stats.SizeBytes != int64(len(data)) {
		t.Errorf("SizeBytes = %d, want %d", stats.SizeBytes, len(data))
	}
}

func TestWriteFile_FailureKeepsPrevious(t *testing.T) {
	s := &Storage{}
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	if err := s.SaveFile(path, []byte("old")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	boom := errors.New("write failed")
	err := s.WriteFile(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WriteFile() error = %v, want %v", err, boom)
	}

	data, _ := s.ReadFile(path)
	if string(data) != "old" {
		t.Errorf("file = %q after failed write, want old contents", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %d entries", len(entries))
	}
}

func TestHasFile_Missing(t *testing.T) {
	s := &Storage{}
	if s.HasFile(filepath.Join(t.TempDir(), "missing")) {
		t.Error("HasFile() = true for missing file")
	}
}
