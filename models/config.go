// Package models defines data structures for configuration and documents.
package models

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	InputFormatLines = "lines"
	InputFormatHTML  = "html"
)

// Config holds the settings of a citylink run. Values come from a YAML file
// and may be overridden by CLI flags.
type Config struct {
	// Categories are the column labels of the output, one per category, in
	// the same order as the keyword rows.
	Categories []string `yaml:"categories"`

	CitiesPath    string `yaml:"cities_path"`
	StopwordsPath string `yaml:"stopwords_path"`
	DictPath      string `yaml:"dict_path"`

	Keywords  KeywordConfig   `yaml:"keywords"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Input     InputConfig     `yaml:"input"`

	WorkerCount int    `yaml:"workers"`
	OutputPath  string `yaml:"output_path"`
	OmitZero    bool   `yaml:"omit_zero"`
	DBPath      string `yaml:"db_path"`

	ManifestPath string `yaml:"manifest_path"`
	// TopLinks is how many links per category the manifest lists.
	TopLinks int `yaml:"top_links"`
}

type KeywordConfig struct {
	SeedPath     string `yaml:"seed_path"`
	ExpandedPath string `yaml:"expanded_path"`
}

type EmbeddingConfig struct {
	Path       string        `yaml:"path"`
	Threshold  float64       `yaml:"threshold"`
	TopN       int           `yaml:"topn"`
	VocabLimit int           `yaml:"vocab_limit"`
	CacheDir   string        `yaml:"cache_dir"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

// InputConfig selects the partition files. Start, End and Step slice the
// sorted file list; End 0 means through the last file.
type InputConfig struct {
	Dir       string   `yaml:"dir"`
	Pattern   string   `yaml:"pattern"`
	Start     int      `yaml:"start"`
	End       int      `yaml:"end"`
	Step      int      `yaml:"step"`
	Format    string   `yaml:"format"`
	Languages []string `yaml:"languages"`
}

// DefaultConfig returns a Config with every optional field filled in.
func DefaultConfig() *Config {
	return &Config{
		WorkerCount:  runtime.NumCPU(),
		OutputPath:   "results/city_link_frequency.csv",
		ManifestPath: "results/manifest.yaml",
		DBPath:       "results/citylink.db",
		TopLinks:     10,
		Embedding: EmbeddingConfig{
			Threshold: 0.8,
			TopN:      10,
			CacheDir:  ".citylink-cache",
			CacheTTL:  30 * 24 * time.Hour,
		},
		Input: InputConfig{
			Pattern: "part-*",
			Step:    1,
			Format:  InputFormatLines,
		},
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings a run needs.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Categories) == 0 {
		errs = append(errs, errors.New("categories: at least one label is required"))
	}
	if c.CitiesPath == "" {
		errs = append(errs, errors.New("cities_path is required"))
	}
	if c.Keywords.ExpandedPath == "" {
		errs = append(errs, errors.New("keywords.expanded_path is required"))
	}
	if c.Input.Dir == "" {
		errs = append(errs, errors.New("input.dir is required"))
	}
	if c.WorkerCount < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.WorkerCount))
	}
	if c.Input.Step < 1 {
		errs = append(errs, fmt.Errorf("input.step must be at least 1, got %d", c.Input.Step))
	}
	if c.Input.Start < 0 || c.Input.End < 0 {
		errs = append(errs, errors.New("input.start and input.end must not be negative"))
	}
	switch c.Input.Format {
	case InputFormatLines, InputFormatHTML:
	default:
		errs = append(errs, fmt.Errorf("input.format must be %q or %q, got %q", InputFormatLines, InputFormatHTML, c.Input.Format))
	}
	return errors.Join(errs...)
}

// ValidateExpansion checks the settings the expand command needs.
func (c *Config) ValidateExpansion() error {
	var errs []error
	if len(c.Categories) == 0 {
		errs = append(errs, errors.New("categories: at least one label is required"))
	}
	if c.Keywords.SeedPath == "" {
		errs = append(errs, errors.New("keywords.seed_path is required"))
	}
	if c.Keywords.ExpandedPath == "" {
		errs = append(errs, errors.New("keywords.expanded_path is required"))
	}
	if c.Embedding.Path == "" {
		errs = append(errs, errors.New("embedding.path is required"))
	}
	if c.Embedding.Threshold <= 0 || c.Embedding.Threshold >= 1 {
		errs = append(errs, fmt.Errorf("embedding.threshold must be in (0,1), got %v", c.Embedding.Threshold))
	}
	if c.Embedding.TopN < 1 {
		errs = append(errs, fmt.Errorf("embedding.topn must be at least 1, got %d", c.Embedding.TopN))
	}
	return errors.Join(errs...)
}
