package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix - prefix of every environment override
const EnvPrefix = "WIKIGEN_"

// Config holds everything a run needs.
type Config struct {
	Wiki   WikiConfig   `yaml:"wiki" envPrefix:"WIKI_"`
	Data   DataConfig   `yaml:"data" envPrefix:"DATA_"`
	Upload UploadConfig `yaml:"upload" envPrefix:"UPLOAD_"`

	DryRun  bool   `yaml:"dry_run" env:"DRY_RUN"`
	Workers int    `yaml:"workers" env:"WORKERS"` // unpack pool size
	LogFile string `yaml:"log_file" env:"LOG_FILE"`
}

// WikiConfig - MediaWiki endpoint and bot credentials
type WikiConfig struct {
	API       string `yaml:"api" env:"API"`
	User      string `yaml:"user" env:"USER"`
	Password  string `yaml:"password" env:"PASSWORD"`
	UserAgent string `yaml:"user_agent" env:"USER_AGENT"`
	Timeout   int    `yaml:"timeout" env:"TIMEOUT"` // seconds
}

// DataConfig - where exported game data and assets live
type DataConfig struct {
	Root      string `yaml:"root" env:"ROOT"`
	Region    string `yaml:"region" env:"REGION"`
	Locale    string `yaml:"locale" env:"LOCALE"`
	AssetRoot string `yaml:"asset_root" env:"ASSET_ROOT"`
	LuaSource string `yaml:"lua_source" env:"LUA_SOURCE"`
	LuaOutput string `yaml:"lua_output" env:"LUA_OUTPUT"`
}

// UploadConfig - file upload behaviour
type UploadConfig struct {
	MaxEdge    int    `yaml:"max_edge" env:"MAX_EDGE"`
	Duplicates string `yaml:"duplicates" env:"DUPLICATES"` // move, redirect, skip or fail
	Workers    int    `yaml:"workers" env:"WORKERS"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Wiki: WikiConfig{
			API:       "https://stellasora.miraheze.org/w/api.php",
			UserAgent: "wikigen",
			Timeout:   60,
		},
		Data: DataConfig{
			Root:      "StellaSoraData",
			Region:    "EN",
			Locale:    "en_US",
			AssetRoot: "assets",
			LuaSource: "lua",
			LuaOutput: "lua_json",
		},
		Upload: UploadConfig{
			Duplicates: "move",
			Workers:    4,
		},
		Workers: 20,
		LogFile: "wikigen.log",
	}
}

// Load reads the YAML file at path (defaults when it does not exist), then
// applies a .env file from the working directory if present, then the
// WIKIGEN_* environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that have a closed set of options.
func (c Config) Validate() error {
	switch strings.ToLower(c.Upload.Duplicates) {
	case "", "move", "redirect", "skip", "fail":
	default:
		return fmt.Errorf("upload.duplicates: unknown policy %q", c.Upload.Duplicates)
	}
	if c.Data.Root == "" {
		return errors.New("data.root is empty")
	}
	return nil
}
