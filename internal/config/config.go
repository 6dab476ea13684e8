package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/ieee0824/wordhmm/lexicon"
	"gopkg.in/yaml.v3"
)

// Config holds the file locations and run options of the recognizer.
type Config struct {
	HMM        string         `yaml:"hmm" toml:"hmm"`
	Dictionary string         `yaml:"dictionary" toml:"dictionary"`
	Bigram     string         `yaml:"bigram" toml:"bigram"`
	Input      string         `yaml:"input" toml:"input"`
	Workers    int            `yaml:"workers" toml:"workers"`
	ShortPause string         `yaml:"short_pause" toml:"short_pause"`
	Silence    string         `yaml:"silence" toml:"silence"`
	CMN        bool           `yaml:"cmn" toml:"cmn"`
	Database   string         `yaml:"database" toml:"database"`
	ClassMap   map[string]int `yaml:"class_map" toml:"class_map"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		HMM:        "hmm.txt",
		Dictionary: "dictionary.txt",
		Bigram:     "bigram.txt",
		Input:      "tst",
		Workers:    runtime.NumCPU(),
		ShortPause: "sp",
		Silence:    "sil",
		ClassMap:   lexicon.DefaultClassMap(),
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over Default.
// Entries of class_map are merged into the default map.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, filepath.Ext(path))
	}
	return cfg, nil
}

// Classes returns the number of classes named by ClassMap.
func (c *Config) Classes() int {
	n := 0
	for _, label := range c.ClassMap {
		if label+1 > n {
			n = label + 1
		}
	}
	return n
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.HMM == "" {
		result = multierror.Append(result, errors.New("hmm path is empty"))
	}
	if c.Dictionary == "" {
		result = multierror.Append(result, errors.New("dictionary path is empty"))
	}
	if c.Workers < 1 {
		result = multierror.Append(result, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	for word, label := range c.ClassMap {
		if label < 0 {
			result = multierror.Append(result, fmt.Errorf("class_map[%q] = %d is negative", word, label))
		}
	}
	return result.ErrorOrNil()
}
