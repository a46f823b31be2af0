package manifest

// RunManifest is a lightweight overview of an aggregation run, so a reader
// can see what was counted without opening the full CSV.
type RunManifest struct {
	GeneratedAt string            `yaml:"generated_at" json:"generated_at"`
	RunID       int64             `yaml:"run_id,omitempty" json:"run_id,omitempty"`
	Workers     int               `yaml:"workers" json:"workers"`
	Files       []string          `yaml:"files" json:"files"`
	Entities    int               `yaml:"entities" json:"entities"`
	Pairs       int               `yaml:"pairs" json:"pairs"`
	Records     int               `yaml:"records" json:"records"`
	Documents   int               `yaml:"documents" json:"documents"`
	PairUpdates int               `yaml:"pair_updates" json:"pair_updates"`
	Skipped     map[string]int    `yaml:"skipped,omitempty" json:"skipped,omitempty"`
	Output      OutputSummary     `yaml:"output" json:"output"`
	Categories  []CategorySummary `yaml:"categories" json:"categories"`
	Elapsed     string            `yaml:"elapsed" json:"elapsed"`
}

// OutputSummary describes the CSV report that was written.
type OutputSummary struct {
	Path      string `yaml:"path" json:"path"`
	Rows      int    `yaml:"rows" json:"rows"`
	SizeBytes int64  `yaml:"size_bytes,omitempty" json:"size_bytes,omitempty"`
}

// CategorySummary holds per-category totals. DocumentTotal counts each
// document once; LinkTotal counts it once per pair it touched.
type CategorySummary struct {
	Label         string   `yaml:"label" json:"label"`
	DocumentTotal int64    `yaml:"document_total" json:"document_total"`
	LinkTotal     int64    `yaml:"link_total" json:"link_total"`
	TopLinks      []string `yaml:"top_links,omitempty" json:"top_links,omitempty"`
}
