package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dtnitsch/citylink/models"
	"github.com/dtnitsch/citylink/pkg/parser"
)

// maxLineBytes bounds a single record in lines format.
const maxLineBytes = 16 * 1024 * 1024

// FileSource reads documents from a list of partition files, in order.
// In lines format every line is a record; in html format every file is one
// page whose readable text is the record.
type FileSource struct {
	files    []string
	format   string
	pipeline *Pipeline
	parser   *parser.Parser

	next    int
	file    *os.File
	scanner *bufio.Scanner
	// Current is the file being read, for log context.
	Current string
}

func NewFileSource(files []string, format string, pipeline *Pipeline) *FileSource {
	return &FileSource{
		files:    files,
		format:   format,
		pipeline: pipeline,
		parser:   &parser.Parser{},
	}
}

// Next returns the next document. A file that cannot be opened or read is a
// fatal error.
func (s *FileSource) Next(ctx context.Context) (models.Document, error) {
	if err := ctx.Err(); err != nil {
		return models.Document{}, err
	}
	if s.format == models.InputFormatHTML {
		return s.nextPage()
	}
	return s.nextLine()
}

func (s *FileSource) nextLine() (models.Document, error) {
	for {
		if s.scanner == nil {
			if s.next >= len(s.files) {
				return models.Document{}, io.EOF
			}
			if err := s.open(s.files[s.next]); err != nil {
				return models.Document{}, err
			}
			s.next++
		}
		if s.scanner.Scan() {
			return s.pipeline.Document(s.scanner.Text())
		}
		err := s.scanner.Err()
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			return models.Document{}, fmt.Errorf("failed to read partition file %s: %w", s.Current, err)
		}
	}
}

func (s *FileSource) nextPage() (models.Document, error) {
	if s.next >= len(s.files) {
		return models.Document{}, io.EOF
	}
	path := s.files[s.next]
	s.next++
	s.Current = path

	html, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to read partition file %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	article, err := s.parser.Parse("file://"+filepath.ToSlash(abs), string(html))
	if err != nil {
		return models.Document{}, skip(ReasonParse, err.Error())
	}
	return s.pipeline.Page(article.Text())
}

func (s *FileSource) open(path string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to open partition file %s: %w", path, err)
	}
	s.file = f
	s.Current = path
	s.scanner = bufio.NewScanner(f)
	s.scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	return nil
}

// Close releases the file currently being read, if any.
func (s *FileSource) Close() error {
	s.scanner = nil
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
