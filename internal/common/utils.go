package common

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// NewLogger builds the run logger. JSON goes to stderr as structured records;
// text uses a human-readable console handler. quiet keeps errors only and
// verbose adds debug records such as per-record skips.
func NewLogger(w io.Writer, format string, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	consoleLevel := log.InfoLevel
	switch {
	case quiet:
		level = slog.LevelError
		consoleLevel = log.ErrorLevel
	case verbose:
		level = slog.LevelDebug
		consoleLevel = log.DebugLevel
	}

	if format == LogFormatText {
		return slog.New(log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			Level:           consoleLevel,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// LoggerFromContext reads the shared logging flags.
func LoggerFromContext(c *cli.Context) *slog.Logger {
	return NewLogger(os.Stderr, c.String("log-format"), c.Bool("quiet"), c.Bool("verbose"))
}

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// FileHash hashes the contents of the named files in order.
func FileHash(paths ...string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", p, err)
		}
		fmt.Fprintf(h, "%s\x00", p)
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("failed to hash %s: %w", p, err)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// PrintJSON writes v to w as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
