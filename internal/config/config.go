package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the YAML-backed configuration for an analysis run.
type Config struct {
	Scan struct {
		IncludePrefixes   []string `yaml:"include_prefixes"`
		IncludeGlobs      []string `yaml:"include_globs"`
		IncludeExtensions []string `yaml:"include_extensions"`
		ExcludeGlobs      []string `yaml:"exclude_globs"`
	} `yaml:"scan"`
	Analysis struct {
		Parallel    bool `yaml:"parallel"`
		Workers     int  `yaml:"workers"`
		MaxEdges    int  `yaml:"max_edges"`
		FilterTests bool `yaml:"filter_tests"`
	} `yaml:"analysis"`
	Cache struct {
		Path       string `yaml:"path"`
		TTLSeconds int    `yaml:"ttl_seconds"`
		CloneDir   string `yaml:"clone_dir"`
	} `yaml:"cache"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Analysis.Parallel = true
	cfg.Analysis.MaxEdges = 400
	cfg.Cache.Path = ".cache/codeatlas.db"
	cfg.Cache.TTLSeconds = 3600
	cfg.Cache.CloneDir = ".cache/repos"
	cfg.Output.Dir = "outputs"
	return cfg
}

// LoadConfig reads path if it exists, layered over defaults, then applies
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// Load .env if present
	_ = godotenv.Load()

	cfg := Default()

	if file, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// Environment overrides
	if v := os.Getenv("CODEATLAS_PARALLEL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Analysis.Parallel = b
		}
	}
	if v := os.Getenv("CODEATLAS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.Workers = n
		}
	}
	if v := os.Getenv("CODEATLAS_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("CODEATLAS_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}

	return cfg, nil
}
