package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rapport.yaml")
	body := "data_dir: " + dir + "\nlog_level: debug\nmin_hits: 2\n"
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvLogFormat, "console")
	t.Setenv(EnvMinHits, "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DataDir != dir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, dir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("LogFormat = %q, want console (env)", cfg.LogFormat)
	}
	if cfg.MinHits != 3 {
		t.Errorf("MinHits = %d, want 3 (env beats file)", cfg.MinHits)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want default", cfg.HTTPAddr)
	}
	if cfg.Store().DataDir != dir {
		t.Errorf("Store().DataDir = %q", cfg.Store().DataDir)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("log_level: [unterminated"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		env  map[string]string
		want string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml"), nil, "reading config"},
		{"bad yaml", bad, nil, "parsing config"},
		{"bad min hits", "", map[string]string{EnvMinHits: "many"}, EnvMinHits},
		{"zero min hits", "", map[string]string{EnvMinHits: "0"}, "min_hits"},
		{"bad level", "", map[string]string{EnvLogLevel: "loud"}, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	err := Config{}.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"data_dir", "log_level", "log_format", "http_addr", "min_hits"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}
