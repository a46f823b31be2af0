package common

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogFormatJSON, false, false)
	logger.Debug("hidden")
	logger.Info("Map phase finished", "partitions", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["msg"] != "Map phase finished" || rec["partitions"] != float64(4) {
		t.Errorf("record = %v", rec)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name           string
		format         string
		quiet, verbose bool
		wantInfo       bool
		wantDebug      bool
	}{
		{name: "json default", format: LogFormatJSON, wantInfo: true},
		{name: "json quiet", format: LogFormatJSON, quiet: true},
		{name: "json verbose", format: LogFormatJSON, verbose: true, wantInfo: true, wantDebug: true},
		{name: "text default", format: LogFormatText, wantInfo: true},
		{name: "text quiet", format: LogFormatText, quiet: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.format, tt.quiet, tt.verbose)
			logger.Info("info-record")
			logger.Debug("debug-record")
			out := buf.String()
			if got := strings.Contains(out, "info-record"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(out, "debug-record"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestFileHash(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	if err := os.WriteFile(a, []byte("北京"), 0600); err != nil {
		t.Fatal(err)
	}
	first, err := FileHash(a)
	if err != nil {
		t.Fatalf("FileHash() error = %v", err)
	}
	if err := os.WriteFile(a, []byte("上海"), 0600); err != nil {
		t.Fatal(err)
	}
	second, _ := FileHash(a)
	if first == second {
		t.Error("FileHash() unchanged after content change")
	}
	if _, err := FileHash(filepath.Join(dir, "missing")); err == nil {
		t.Error("FileHash() of missing file error = nil")
	}
	if ContentHash([]byte("x")) == ContentHash([]byte("y")) {
		t.Error("ContentHash() collides")
	}
}
