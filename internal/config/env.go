package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "DUPESCAN_"

// LoadEnvFiles loads variables from .env files into the environment without
// overriding variables that are already set. Missing files are ignored.
// With no arguments ".env" in the working directory is tried.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from DUPESCAN_* environment variables.
// Empty variables are ignored; malformed values are errors.
func (c *Config) ApplyEnv() error {
	if v, ok := lookup("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("WORKERS", err)
		}
		c.Workers = n
	}
	if v, ok := lookup("HASH_BUFFER_SIZE"); ok {
		c.HashBufferSize = v
	}
	if v, ok := lookup("EXTENSIONS"); ok {
		c.Extensions = splitList(v)
	}
	if v, ok := lookup("EXCLUDE_PATTERNS"); ok {
		c.ExcludePatterns = splitList(v)
	}
	if v, ok := lookup("MAX_FILE_SIZE"); ok {
		c.MaxFileSize = v
	}
	if v, ok := lookup("MAX_TEXT_CHARS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("MAX_TEXT_CHARS", err)
		}
		c.Similarity.MaxTextChars = n
	}
	if v, ok := lookup("MIN_SIMILARITY"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("MIN_SIMILARITY", err)
		}
		c.Similarity.MinSimilarity = f
	}
	if v, ok := lookup("EXTRACT_TIMEOUT"); ok {
		c.Extraction.Timeout = v
	}
	if v, ok := lookup("MAX_OPEN_EXTRACTIONS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("MAX_OPEN_EXTRACTIONS", err)
		}
		c.Extraction.MaxOpen = n
	}
	if v, ok := lookup("SNIFF_CONTENT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return envError("SNIFF_CONTENT", err)
		}
		c.Extraction.SniffContent = b
	}
	if v, ok := lookup("OUTPUT"); ok {
		c.Output = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(EnvPrefix + key))
	return v, v != ""
}

func envError(key string, err error) error {
	return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
