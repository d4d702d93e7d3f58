package config

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Workers:         0, // one per CPU
		HashBufferSize:  "64KB",
		Extensions:      []string{},
		ExcludePatterns: []string{}, // every file counts
		MaxFileSize:     "",
		Similarity: SimilarityConfig{
			MaxTextChars:  0, // compare full texts
			MinSimilarity: 0, // report every pair
		},
		Extraction: ExtractionConfig{
			Timeout:      "30s",
			MaxOpen:      0, // follows workers
			SniffContent: false,
		},
		Output:   "summary",
		LogLevel: "warn",
	}
}

// GetExampleConfig returns an example configuration with comments
func GetExampleConfig() string {
	return `# dupescan configuration file
# Location: ~/.config/dupescan/config.yaml
# Every value can be overridden with a DUPESCAN_* environment variable
# (see .env support) and then with command-line flags.

# Parallel hash/extract workers (0 = one per CPU)
workers: 0

# Read buffer used while hashing file content
hash_buffer_size: "64KB"

# Only scan files with these extensions (empty = every file)
extensions: []

# Glob patterns matched against base names and root-relative paths.
# Nothing is excluded by default; a file under an excluded directory is
# never hashed, so its duplicates go unreported. For example:
#   exclude_patterns: [".git", "node_modules"]
exclude_patterns: []

# Skip files larger than this (empty = no limit)
max_file_size: ""

similarity:
  # Compare at most this many characters of each text (0 = unlimited)
  max_text_chars: 0
  # Drop pairs scoring below this threshold (0 = report every pair)
  min_similarity: 0

extraction:
  # Give up on a single file after this long ("0" disables)
  timeout: "30s"
  # Documents decoded at the same time (0 = same as workers)
  max_open: 0
  # Detect PDF/Word content in files without an extension
  sniff_content: false

# Report format: summary, table, json, yaml
output: "summary"

# Log level: debug, info, warn, error
log_level: "warn"
`
}
