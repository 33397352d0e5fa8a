package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type APIConfig struct {
	BaseURL           string `yaml:"base_url"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

const (
	_baseURLDefault           = "https://dummy-api-topaz.vercel.app"
	_requestsPerMinuteDefault = 100
)

func (c *APIConfig) Setup() error {
	if c.BaseURL == "" {
		c.BaseURL = _baseURLDefault
	}
	if v := os.Getenv("BROKER_API_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return err
	}

	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = _requestsPerMinuteDefault
	}

	return nil
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

const _storagePathDefault = "./broker.db"

func (c *StorageConfig) Setup() {
	if c.Path == "" {
		c.Path = _storagePathDefault
	}
}

type SearchConfig struct {
	DebounceInterval time.Duration `yaml:"debounce_interval"`
	CacheTTL         time.Duration `yaml:"cache_ttl"`
}

// UnmarshalYAML accepts durations in time.ParseDuration notation ("300ms").
func (c *SearchConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		DebounceInterval string `yaml:"debounce_interval"`
		CacheTTL         string `yaml:"cache_ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.DebounceInterval != "" {
		d, err := time.ParseDuration(raw.DebounceInterval)
		if err != nil {
			return fmt.Errorf("%w: invalid debounce_interval", err)
		}
		c.DebounceInterval = d
	}
	if raw.CacheTTL != "" {
		d, err := time.ParseDuration(raw.CacheTTL)
		if err != nil {
			return fmt.Errorf("%w: invalid cache_ttl", err)
		}
		c.CacheTTL = d
	}

	return nil
}

const (
	_debounceIntervalDefault = 300 * time.Millisecond
	_cacheTTLDefault         = 30 * time.Second
)

func (c *SearchConfig) Setup() {
	if c.DebounceInterval <= 0 {
		c.DebounceInterval = _debounceIntervalDefault
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = _cacheTTLDefault
	}
}

type Config struct {
	API      APIConfig     `yaml:"api"`
	Storage  StorageConfig `yaml:"storage"`
	Search   SearchConfig  `yaml:"search"`
	LogLevel string        `yaml:"log_level"`
}

func (c *Config) ValidateAndSetup() error {
	if err := c.API.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup api", err)
	}
	c.Storage.Setup()
	c.Search.Setup()
	return nil
}

// LoadConfig reads the yaml config at filename. A missing file is not an
// error: the engine runs on defaults.
func LoadConfig(filename string) (Config, error) {
	var cfg Config

	input, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.ValidateAndSetup()
		}
		return cfg, fmt.Errorf("%w: can't read file", err)
	}

	if err := yaml.Unmarshal(input, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: can't unmarshal config", err)
	}

	if err := cfg.ValidateAndSetup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}
