package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"ghdl/internal/filter"
)

const DefaultConcurrency = 5

// Repo is one repository entry in the config document.
type Repo struct {
	Owner   string   `yaml:"owner"`
	Repo    string   `yaml:"repo"`
	Token   string   `yaml:"token"`
	Filters []string `yaml:"filters"`

	// Compiled from Filters during Load.
	Matchers *filter.Set `yaml:"-"`
}

// Name returns the owner/repo form used in logs and error reports.
func (r *Repo) Name() string {
	return r.Owner + "/" + r.Repo
}

// Config is the fully-defaulted, validated configuration. It is loaded once
// at startup and never mutated afterwards.
type Config struct {
	Overwrite    bool
	ClearMatches bool
	Dir          string
	Token        string
	Concurrency  int
	Repos        []Repo
}

// document mirrors the raw config file; pointer fields distinguish absent
// keys from explicit zero values so defaults like overwrite=true survive.
type document struct {
	Overwrite    *bool   `yaml:"overwrite"`
	ClearMatches *bool   `yaml:"clear_matches"`
	Dir          *string `yaml:"dir"`
	Token        *string `yaml:"token"`
	Concurrency  *int    `yaml:"concurrency"`
	Repos        []Repo  `yaml:"repos"`
}

// Load reads, parses, defaults, and validates a config file. The parser
// accepts YAML, and therefore the JSON documents the tool historically took.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse builds a validated Config from raw document bytes.
func Parse(data []byte) (*Config, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg := &Config{
		Overwrite:   true,
		Dir:         ".",
		Concurrency: DefaultConcurrency,
		Repos:       doc.Repos,
	}
	if doc.Overwrite != nil {
		cfg.Overwrite = *doc.Overwrite
	}
	if doc.ClearMatches != nil {
		cfg.ClearMatches = *doc.ClearMatches
	}
	if doc.Dir != nil && *doc.Dir != "" {
		cfg.Dir = *doc.Dir
	}
	if doc.Token != nil {
		cfg.Token = *doc.Token
	}
	if doc.Concurrency != nil {
		cfg.Concurrency = *doc.Concurrency
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("%q must be greater than or equal to 0, got %d", "concurrency", c.Concurrency)
	}
	if c.Repos == nil {
		return fmt.Errorf("%q is required", "repos")
	}
	for i := range c.Repos {
		repo := &c.Repos[i]
		if repo.Owner == "" {
			return fmt.Errorf("repo %d: %q is required", i, "owner")
		}
		if repo.Repo == "" {
			return fmt.Errorf("repo %d: %q is required", i, "repo")
		}
		matchers, err := filter.Compile(repo.Filters)
		if err != nil {
			return fmt.Errorf("repo %s: %w", repo.Name(), err)
		}
		repo.Matchers = matchers
	}
	return nil
}

// EffectiveToken resolves the credential used for one repository: its own
// token when non-empty, the global token otherwise.
func (c *Config) EffectiveToken(r *Repo) string {
	if r.Token != "" {
		return r.Token
	}
	return c.Token
}
