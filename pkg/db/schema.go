package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- One row per aggregation run
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    config_hash TEXT,
    input_dir TEXT,
    files TEXT,                  -- JSON array of partition files
    workers INTEGER NOT NULL,
    entities INTEGER NOT NULL,
    pairs INTEGER NOT NULL,
    records INTEGER DEFAULT 0,
    documents INTEGER DEFAULT 0,
    pair_updates INTEGER DEFAULT 0,
    skipped TEXT,                -- JSON object: {"reason": count, ...}
    output_path TEXT,
    elapsed_ms INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

-- Category labels of a run, in vector order
CREATE TABLE IF NOT EXISTS run_categories (
    run_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    label TEXT NOT NULL,
    document_total INTEGER DEFAULT 0,
    PRIMARY KEY (run_id, position),
    UNIQUE (run_id, label),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

-- Non-zero link counts; city1 < city2
CREATE TABLE IF NOT EXISTS city_links (
    run_id INTEGER NOT NULL,
    city1 TEXT NOT NULL,
    city2 TEXT NOT NULL,
    position INTEGER NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (run_id, city1, city2, position),
    FOREIGN KEY (run_id, position) REFERENCES run_categories(run_id, position) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_city_links_rank ON city_links(run_id, position, count DESC);
`
