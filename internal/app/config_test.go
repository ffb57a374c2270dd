package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8000" {
		t.Fatalf("BaseURL = %q, want default", cfg.BaseURL)
	}
	if cfg.RetrievalMode != ModeHybrid || cfg.TopK != 5 || cfg.IntroChunks != 3 || cfg.MaxOutputTokens != 350 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Alpha != 0.7 {
		t.Fatalf("Alpha = %v, want 0.7", cfg.Alpha)
	}
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "base_url: http://files:9000/\nretrieval_mode: bm25\ntop_k: 8\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SECRAG_API_BASE", "https://env:8443/")
	t.Setenv("SECRAG_API_KEY", "sekret")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "https://env:8443" {
		t.Fatalf("env should win and lose its trailing slash, got %q", cfg.BaseURL)
	}
	if cfg.APIKey != "sekret" {
		t.Fatalf("APIKey = %q, want env value", cfg.APIKey)
	}
	if cfg.RetrievalMode != ModeBM25 || cfg.TopK != 8 {
		t.Fatalf("file values lost: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "missing base url", mutate: func(c *Config) { c.BaseURL = "" }, wantErr: true},
		{name: "non-http scheme", mutate: func(c *Config) { c.BaseURL = "ftp://x" }, wantErr: true},
		{name: "unknown mode", mutate: func(c *Config) { c.RetrievalMode = "psychic" }, wantErr: true},
		{name: "alpha above one", mutate: func(c *Config) { c.Alpha = 1.5 }, wantErr: true},
		{name: "zero top_k", mutate: func(c *Config) { c.TopK = 0 }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error for %+v", cfg)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.APIKey = "abc"
	cfg.RetrievalMode = ModeSemantic
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.APIKey != "abc" || got.RetrievalMode != ModeSemantic {
		t.Fatalf("round trip lost fields: %+v", got)
	}
}
