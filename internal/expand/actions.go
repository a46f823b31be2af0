package expand

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/dtnitsch/citylink/internal/common"
	"github.com/dtnitsch/citylink/models"
	"github.com/dtnitsch/citylink/pkg/caching"
	"github.com/dtnitsch/citylink/pkg/category"
	"github.com/dtnitsch/citylink/pkg/embedding"
	"github.com/dtnitsch/citylink/pkg/storage"
	"github.com/urfave/cli/v2"
)

// Result is printed to stdout when expansion finishes.
type Result struct {
	ExpandedPath string         `json:"expanded_path"`
	Cached       bool           `json:"cached"`
	Keywords     map[string]int `json:"keywords"`
	Elapsed      string         `json:"elapsed"`
}

func ExpandAction(c *cli.Context) error {
	logger := common.LoggerFromContext(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.ValidateExpansion(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	result, err := Execute(cfg, c.Bool("force"), logger)
	if err != nil {
		return err
	}
	return common.PrintJSON(os.Stdout, result)
}

// Execute expands the seed keywords with the embedding model and writes
// the expanded CSV. A cached expansion for the same seeds, model file and
// parameters is reused unless force is set.
func Execute(cfg *models.Config, force bool, logger *slog.Logger) (*Result, error) {
	start := time.Now()
	s := &storage.Storage{}

	seedData, err := s.ReadFile(cfg.Keywords.SeedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed keywords: %w", err)
	}
	seeds, err := category.LoadSeedCSV(bytes.NewReader(seedData), len(cfg.Categories))
	if err != nil {
		return nil, err
	}

	key, err := cacheKey(s, cfg, seedData)
	if err != nil {
		return nil, err
	}

	var cache *caching.Cache
	if cfg.Embedding.CacheDir != "" {
		cache, err = caching.NewCache(cfg.Embedding.CacheDir, cfg.Embedding.CacheTTL)
		if err != nil {
			logger.Warn("Expansion cache unavailable", "dir", cfg.Embedding.CacheDir, "error", err)
			cache = nil
		}
	}

	result := &Result{ExpandedPath: cfg.Keywords.ExpandedPath}
	var out []byte
	if cache != nil {
		out = cached(cache, key, force, logger)
		result.Cached = out != nil
	}

	if out == nil {
		expanded, err := expand(cfg, seeds, logger)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := category.WriteExpandedCSV(&buf, expanded); err != nil {
			return nil, err
		}
		out = buf.Bytes()
		if cache != nil {
			if err := cache.Set(key, out); err != nil {
				logger.Warn("Failed to cache expansion", "error", err)
			}
		}
	}

	if err := s.SaveFile(cfg.Keywords.ExpandedPath, out); err != nil {
		return nil, err
	}

	rows, err := category.LoadExpandedCSV(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}
	result.Keywords = make(map[string]int, len(cfg.Categories))
	for i, label := range cfg.Categories {
		if i < len(rows) {
			result.Keywords[label] = len(rows[i])
		}
		if i >= len(rows) || len(rows[i]) == 0 {
			logger.Warn("Category has no keywords after expansion", "category", label)
		}
	}
	result.Elapsed = time.Since(start).Round(time.Millisecond).String()
	logger.Info("Wrote expanded keywords", "path", cfg.Keywords.ExpandedPath, "cached", result.Cached)
	return result, nil
}

// cacheKey identifies an expansion by its seeds, the embedding file and the
// expansion parameters.
func cacheKey(s *storage.Storage, cfg *models.Config, seedData []byte) (string, error) {
	stats, err := s.GetFileStats(cfg.Embedding.Path)
	if err != nil {
		return "", fmt.Errorf("failed to stat embedding file: %w", err)
	}
	return caching.Key(
		common.ContentHash(seedData),
		cfg.Embedding.Path,
		strconv.FormatInt(stats.SizeBytes, 10),
		stats.ModTime.UTC().Format(time.RFC3339Nano),
		strconv.FormatFloat(cfg.Embedding.Threshold, 'g', -1, 64),
		strconv.Itoa(cfg.Embedding.TopN),
		strconv.Itoa(cfg.Embedding.VocabLimit),
	), nil
}

// cached returns a usable cached expansion, or nil. Forced runs and entries
// that no longer parse are evicted.
func cached(cache *caching.Cache, key string, force bool, logger *slog.Logger) []byte {
	if force {
		if err := cache.Delete(key); err != nil {
			logger.Warn("Failed to evict cached expansion", "error", err)
		}
		return nil
	}
	data, ok := cache.Get(key)
	if !ok {
		return nil
	}
	if _, err := category.LoadExpandedCSV(bytes.NewReader(data)); err != nil {
		logger.Warn("Discarding unreadable cached expansion", "key", key[:12], "error", err)
		if err := cache.Delete(key); err != nil {
			logger.Warn("Failed to evict cached expansion", "error", err)
		}
		return nil
	}
	logger.Info("Using cached expansion", "key", key[:12])
	return data
}

func expand(cfg *models.Config, seeds [][]string, logger *slog.Logger) ([][]string, error) {
	f, err := os.Open(cfg.Embedding.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding file: %w", err)
	}
	defer f.Close()

	logger.Info("Loading embeddings", "path", cfg.Embedding.Path, "vocab_limit", cfg.Embedding.VocabLimit)
	model, err := embedding.Load(f, cfg.Embedding.VocabLimit)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded embeddings", "words", model.Len(), "dim", model.Dim())

	for i, category := range seeds {
		for _, seed := range category {
			if !model.Contains(seed) {
				logger.Debug("Seed keyword not in vocabulary", "category", cfg.Categories[i], "keyword", seed)
			}
		}
	}
	return model.Expand(seeds, cfg.Embedding.Threshold, cfg.Embedding.TopN)
}
