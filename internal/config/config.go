package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/Zuo-Peng/chatlens/internal/parse"
)

type Config struct {
	DBPath     string `toml:"db_path"`
	Convention string `toml:"convention"` // "12h" or "24h"
	StopWords  string `toml:"stopwords"`  // bundled list name or file path
	TopUsers   int    `toml:"top_users"`
	TopWords   int    `toml:"top_words"`
	LogLevel   string `toml:"log_level"`
	LogFormat  string `toml:"log_format"` // "text" or "json"

	// Path is the config file that was read, empty when none existed.
	Path string `toml:"-"`
}

// Load reads ~/.config/chatlens/config.toml, or the file named by
// CHATLENS_CONFIG, over the defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfgPath := os.Getenv("CHATLENS_CONFIG")
	if cfgPath == "" {
		cfgPath = filepath.Join(home, ".config", "chatlens", "config.toml")
	}
	return load(cfgPath, home)
}

// LoadFrom reads the given config file over the defaults.
func LoadFrom(cfgPath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return load(cfgPath, home)
}

func load(cfgPath, home string) (*Config, error) {
	cfg := &Config{
		DBPath:     filepath.Join(home, ".config", "chatlens", "chatlens.db"),
		Convention: parse.Clock12.Name,
		StopWords:  "hinglish",
		TopUsers:   5,
		TopWords:   20,
		LogLevel:   "warn",
		LogFormat:  "text",
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
		cfg.Path = cfgPath
	}

	// expand ~ in paths
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.StopWords = expandHome(cfg.StopWords, home)

	if _, err := parse.ParseConvention(cfg.Convention); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgPath, err)
	}
	if cfg.TopUsers <= 0 {
		cfg.TopUsers = 5
	}
	if cfg.TopWords <= 0 {
		cfg.TopWords = 20
	}

	return cfg, nil
}

// DateConvention returns the parser convention named by the config.
func (c *Config) DateConvention() parse.Convention {
	conv, err := parse.ParseConvention(c.Convention)
	if err != nil {
		return parse.Clock12
	}
	return conv
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
