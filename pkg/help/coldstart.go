package help

const ColdstartYAML = `# citylink Quick Start

pipeline:
  1_expand: "Grow seed keywords (one column per category) into expanded_keywords.csv with word embeddings"
  2_run: "Stream partition files, count category words per document, add them to every city pair named"
  3_inspect: "Read the CSV report, the YAML manifest, or query recorded runs"

commands:
  expand: |
    citylink --config citylink.yaml expand
    citylink --config citylink.yaml expand --threshold 0.85 --force

  run_serial: |
    citylink --config citylink.yaml run --workers 1

  run_parallel: |
    citylink --config citylink.yaml run --workers 8 --output results/links.csv

  list_runs: |
    citylink runs --limit 5

  top_links: |
    citylink links
    citylink links 3 --category finance --top 10

example_config: |
  categories: [finance, tech, culture]
  cities_path: resources/cities.csv
  stopwords_path: resources/stopwords.txt
  dict_path: resources/dict.txt
  keywords:
    seed_path: resources/keywords.csv
    expanded_path: resources/expanded_keywords.csv
  embedding:
    path: embedding/vectors.txt
    threshold: 0.8
    topn: 10
    vocab_limit: 500000
  input:
    dir: data
    pattern: part-*
    start: 0
    end: 0
    step: 1
    format: lines
  workers: 8
  output_path: results/city_link_frequency.csv
  manifest_path: results/manifest.yaml
  db_path: results/citylink.db

record_rules:
  - "Blank lines and lines starting with WARC or Content are crawl headers and are skipped"
  - "ASCII letters, digits and punctuation are removed before segmentation"
  - "Stopwords are dropped; records with fewer than 2 words are skipped"
  - "City names are pulled out of the words; each city counts once per record"
  - "Records naming fewer than 2 distinct cities are skipped"

report:
  header: "City1,City2,<one column per category label>"
  rows: "One per city pair, C(n,2) rows for n cities, zero rows included unless --omit-zero"
  pair_order: "City1 sorts before City2"

invariants:
  - "Serial and parallel runs produce identical reports for any worker count"
  - "A record naming k cities adds its category vector to each of its C(k,2) pairs exactly once"
  - "A city pair outside the city list is a fatal error, not a skip"

error_behavior:
  - "Unreadable partition file: the run fails, no report is written"
  - "Skipped records: counted per reason in the manifest and the runs table"
  - "Database or manifest failures after the report is written: logged, run still succeeds"
`
