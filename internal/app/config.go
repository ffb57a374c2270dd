package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

const (
	ModeHybrid   = "hybrid"
	ModeSemantic = "semantic"
	ModeBM25     = "bm25"
)

// RetrievalModes lists the modes the backend accepts, in cycle order.
var RetrievalModes = []string{ModeHybrid, ModeSemantic, ModeBM25}

type Config struct {
	BaseURL         string  `yaml:"base_url"`
	APIKey          string  `yaml:"api_key"`
	RetrievalMode   string  `yaml:"retrieval_mode"`
	Alpha           float64 `yaml:"alpha"`
	TopK            int     `yaml:"top_k"`
	IntroChunks     int     `yaml:"intro_chunks"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:         "http://localhost:8000",
		RetrievalMode:   ModeHybrid,
		Alpha:           0.7,
		TopK:            5,
		IntroChunks:     3,
		MaxOutputTokens: 350,
	}
}

func DefaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "secrag")
	}
	return filepath.Join(os.TempDir(), "secrag")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	applyEnv(&cfg)

	if cfg.RetrievalMode == "" {
		cfg.RetrievalMode = ModeHybrid
	}
	if cfg.Alpha == 0 {
		cfg.Alpha = 0.7
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.IntroChunks <= 0 {
		cfg.IntroChunks = 3
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 350
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// applyEnv lets the environment override whatever the file said. The base
// URL loses any trailing slash so request paths join cleanly.
func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SECRAG_API_BASE")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SECRAG_API_KEY")); v != "" {
		cfg.APIKey = v
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(checkHTTPURL)),
		validation.Field(&c.RetrievalMode, validation.Required, validation.In(ModeHybrid, ModeSemantic, ModeBM25)),
		validation.Field(&c.Alpha, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.TopK, validation.Required, validation.Min(1), validation.Max(50)),
		validation.Field(&c.IntroChunks, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxOutputTokens, validation.Required, validation.Min(1)),
	)
}

func checkHTTPURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must be an http(s) url")
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
