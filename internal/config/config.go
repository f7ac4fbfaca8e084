package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	URLTemplate string  `yaml:"url_template"`
	StartPage   int     `yaml:"start_page"`
	EndPage     int     `yaml:"end_page"`
	OutDir      string  `yaml:"out_dir"`
	Manifest    string  `yaml:"manifest"`
	DelaySec    float64 `yaml:"delay_sec"`
	TimeoutSec  float64 `yaml:"timeout_sec"`
	UserAgent   string  `yaml:"user_agent"`
	Archive     string  `yaml:"archive"`
	Debug       bool    `yaml:"debug"`
}

type Options struct {
	IgnoreConfig bool
	Debug        bool
	URLTemplate  string
	StartPage    int
	EndPage      int
	OutDir       string
	Manifest     string
	UserAgent    string
	Archive      string
}

func DefaultConfig() *Config {
	return &Config{
		StartPage:  1,
		EndPage:    100,
		OutDir:     "dump",
		Manifest:   "index.txt",
		DelaySec:   0.8,
		TimeoutSec: 20.0,
		UserAgent:  "Mozilla/5.0 (compatible; pagedump/1.0)",
	}
}

// Delay converts the configured inter-request pause to a Duration.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.DelaySec * float64(time.Second))
}

// Timeout converts the configured per-request timeout to a Duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec * float64(time.Second))
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

// LoadMerged loads the active profile (if any) and layers the CLI options
// on top. Flags win over the file; the file wins over built-in defaults.
func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	activePath, err := ActiveConfigPath()
	if err == ErrNoConfig || activePath == "" {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `pagedump config init` to create an actual config\n", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	if o.URLTemplate != "" {
		c.URLTemplate = o.URLTemplate
	}
	if o.StartPage != 0 {
		c.StartPage = o.StartPage
	}
	if o.EndPage != 0 {
		c.EndPage = o.EndPage
	}
	if o.OutDir != "" {
		c.OutDir = o.OutDir
	}
	if o.Manifest != "" {
		c.Manifest = o.Manifest
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Archive != "" {
		c.Archive = o.Archive
	}
	if o.Debug {
		c.Debug = true
	}
}

func normalizeDefaults(c *Config) {
	if c.StartPage == 0 && c.EndPage == 0 {
		c.StartPage = 1
		c.EndPage = 100
	}
	if c.OutDir == "" {
		c.OutDir = "dump"
	}
	if c.Manifest == "" {
		c.Manifest = "index.txt"
	}
	if c.TimeoutSec <= 0 {
		c.TimeoutSec = 20.0
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (compatible; pagedump/1.0)"
	}
}

func (c *Config) Print() {
	if c.URLTemplate != "" {
		fmt.Printf(" -url_template: %s\n", c.URLTemplate)
	}
	fmt.Printf(" -pages: %d..%d\n", c.StartPage, c.EndPage)
	fmt.Printf(" -out_dir: %s\n", c.OutDir)
	fmt.Printf(" -manifest: %s\n", c.Manifest)
	fmt.Printf(" -delay_sec: %g\n", c.DelaySec)
	fmt.Printf(" -timeout_sec: %g\n", c.TimeoutSec)
	fmt.Printf(" -user_agent: %s\n", c.UserAgent)
	if c.Archive != "" {
		fmt.Printf(" -archive: %s\n", c.Archive)
	}
	if c.Debug {
		fmt.Printf(" -debug: %t\n", c.Debug)
	}
}
