package common

import (
	"github.com/dtnitsch/citylink/models"
	"github.com/urfave/cli/v2"
)

// LoadConfig reads --config and applies any flag the user set on top of it.
// Without --config the defaults are used, so a run can be described by flags
// and CITYLINK_* variables alone.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg := models.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("categories") {
		cfg.Categories = c.StringSlice("categories")
	}
	if c.IsSet("cities") {
		cfg.CitiesPath = c.String("cities")
	}
	if c.IsSet("stopwords") {
		cfg.StopwordsPath = c.String("stopwords")
	}
	if c.IsSet("dict") {
		cfg.DictPath = c.String("dict")
	}
	if c.IsSet("keywords") {
		cfg.Keywords.ExpandedPath = c.String("keywords")
	}
	if c.IsSet("seed-keywords") {
		cfg.Keywords.SeedPath = c.String("seed-keywords")
	}
	if c.IsSet("input-dir") {
		cfg.Input.Dir = c.String("input-dir")
	}
	if c.IsSet("pattern") {
		cfg.Input.Pattern = c.String("pattern")
	}
	if c.IsSet("start") {
		cfg.Input.Start = c.Int("start")
	}
	if c.IsSet("end") {
		cfg.Input.End = c.Int("end")
	}
	if c.IsSet("step") {
		cfg.Input.Step = c.Int("step")
	}
	if c.IsSet("format") {
		cfg.Input.Format = c.String("format")
	}
	if c.IsSet("languages") {
		cfg.Input.Languages = c.StringSlice("languages")
	}
	if c.IsSet("workers") {
		cfg.WorkerCount = c.Int("workers")
	}
	if c.IsSet("output") {
		cfg.OutputPath = c.String("output")
	}
	if c.IsSet("omit-zero") {
		cfg.OmitZero = c.Bool("omit-zero")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("manifest") {
		cfg.ManifestPath = c.String("manifest")
	}
	if c.IsSet("embedding") {
		cfg.Embedding.Path = c.String("embedding")
	}
	if c.IsSet("threshold") {
		cfg.Embedding.Threshold = c.Float64("threshold")
	}
	if c.IsSet("topn") {
		cfg.Embedding.TopN = c.Int("topn")
	}
	if c.IsSet("vocab-limit") {
		cfg.Embedding.VocabLimit = c.Int("vocab-limit")
	}
	return cfg, nil
}
