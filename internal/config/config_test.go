package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefaultPaths_Env(t *testing.T) {
	t.Setenv(EnvConfigDir, "/tmp/ebctl-config")
	t.Setenv(EnvStateDir, "/tmp/ebctl-state")

	paths := DefaultPaths()

	if paths.ConfigDir != "/tmp/ebctl-config" {
		t.Errorf("ConfigDir = %q, want /tmp/ebctl-config", paths.ConfigDir)
	}
	if paths.StateDir != "/tmp/ebctl-state" {
		t.Errorf("StateDir = %q, want /tmp/ebctl-state", paths.StateDir)
	}
	if paths.AuditDir != filepath.Join("/tmp/ebctl-state", "audit") {
		t.Errorf("AuditDir = %q", paths.AuditDir)
	}
	if paths.ConfigFile() != filepath.Join("/tmp/ebctl-config", ConfigFileName) {
		t.Errorf("ConfigFile() = %q", paths.ConfigFile())
	}
}

func TestDefaultPaths_XDGState(t *testing.T) {
	t.Setenv(EnvStateDir, "")
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")

	paths := DefaultPaths()
	if paths.StateDir != filepath.Join("/tmp/xdg-state", AppName) {
		t.Errorf("StateDir = %q, want %q", paths.StateDir, filepath.Join("/tmp/xdg-state", AppName))
	}
}

func TestValidateCloudName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"prod", false},
		{"eb-1", false},
		{"eb_staging", false},
		{"", true},
		{"Prod", true},
		{"-prod", true},
		{"../etc", true},
		{strings.Repeat("a", 64), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCloudName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCloudName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestCloud_Validate(t *testing.T) {
	valid := Cloud{Name: "prod", Endpoint: "https://eb.example.com", Token: "tok"}

	tests := []struct {
		name    string
		modify  func(c *Cloud)
		wantErr string
	}{
		{"valid", func(c *Cloud) {}, ""},
		{"token file", func(c *Cloud) { c.Token = ""; c.TokenFile = "prod.token" }, ""},
		{"bad name", func(c *Cloud) { c.Name = "Bad Name" }, "invalid cloud name"},
		{"relative endpoint", func(c *Cloud) { c.Endpoint = "eb.example.com" }, "endpoint"},
		{"ftp endpoint", func(c *Cloud) { c.Endpoint = "ftp://eb.example.com" }, "endpoint"},
		{"no token", func(c *Cloud) { c.Token = "" }, "one of token or token_file"},
		{"both tokens", func(c *Cloud) { c.TokenFile = "prod.token" }, "mutually exclusive"},
		{"bad timeout", func(c *Cloud) { c.Timeout = "soon" }, "invalid timeout"},
		{"negative timeout", func(c *Cloud) { c.Timeout = "-1s" }, "positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCloud_DisplayName(t *testing.T) {
	if got := (Cloud{Name: "prod", Description: "Production"}).DisplayName(); got != "Production" {
		t.Errorf("DisplayName() = %q, want Production", got)
	}
	if got := (Cloud{Name: "prod", Description: "  "}).DisplayName(); got != "prod" {
		t.Errorf("DisplayName() = %q, want prod", got)
	}
}

func TestCloud_RequestTimeout(t *testing.T) {
	if got := (Cloud{}).RequestTimeout(); got != DefaultTimeout {
		t.Errorf("RequestTimeout() = %v, want %v", got, DefaultTimeout)
	}
	if got := (Cloud{Timeout: "5s"}).RequestTimeout(); got != 5*time.Second {
		t.Errorf("RequestTimeout() = %v, want 5s", got)
	}
}

func TestCloud_ResolveToken(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "prod.token"), []byte("secret\n"), 0600); err != nil {
		t.Fatal(err)
	}

	inline := Cloud{Name: "prod", Token: "inline"}
	if got, err := inline.ResolveToken(dir); err != nil || got != "inline" {
		t.Errorf("ResolveToken() = %q, %v; want inline", got, err)
	}

	fromFile := Cloud{Name: "prod", TokenFile: "prod.token"}
	if got, err := fromFile.ResolveToken(dir); err != nil || got != "secret" {
		t.Errorf("ResolveToken() = %q, %v; want secret", got, err)
	}

	missing := Cloud{Name: "prod", TokenFile: "missing.token"}
	if _, err := missing.ResolveToken(dir); err == nil {
		t.Error("expected error for missing token file")
	}
}

func TestCloud_ResolveTokenStaysInConfigDir(t *testing.T) {
	root := t.TempDir()
	configDir := filepath.Join(root, "config")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	// A token outside the config dir must not be reachable through "..".
	if err := os.WriteFile(filepath.Join(root, "outside.token"), []byte("leaked"), 0600); err != nil {
		t.Fatal(err)
	}

	c := Cloud{Name: "prod", TokenFile: "../outside.token"}
	got, err := c.ResolveToken(configDir)
	if err == nil && got == "leaked" {
		t.Error("token_file escaped the config directory")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
default_cloud = "prod"

[[cloud]]
name = "prod"
description = "ElasticBox Production"
endpoint = "https://eb.example.com"
token = "tok"

[[cloud]]
name = "staging"
endpoint = "http://localhost:8080"
token_file = "staging.token"
timeout = "5s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultCloud != "prod" {
		t.Errorf("DefaultCloud = %q, want prod", cfg.DefaultCloud)
	}
	if len(cfg.Clouds) != 2 {
		t.Fatalf("len(Clouds) = %d, want 2", len(cfg.Clouds))
	}
	if cfg.Clouds[1].TokenFile != "staging.token" || cfg.Clouds[1].Timeout != "5s" {
		t.Errorf("staging cloud = %+v", cfg.Clouds[1])
	}
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ConfigFileName))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Clouds) != 0 {
		t.Errorf("expected no clouds, got %d", len(cfg.Clouds))
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "[[cloud]\nname =", "failed to parse"},
		{"unknown key", "[[cloud]]\nname = \"prod\"\nendpoint = \"https://x\"\ntoken = \"t\"\ncolour = \"red\"\n", "unknown key"},
		{"duplicate", "[[cloud]]\nname = \"a\"\nendpoint = \"https://x\"\ntoken = \"t\"\n[[cloud]]\nname = \"a\"\nendpoint = \"https://y\"\ntoken = \"t\"\n", "duplicate cloud"},
		{"bad default", "default_cloud = \"nope\"\n[[cloud]]\nname = \"a\"\nendpoint = \"https://x\"\ntoken = \"t\"\n", "default_cloud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Find(t *testing.T) {
	cfg := &Config{
		DefaultCloud: "b",
		Clouds: []Cloud{
			{Name: "a", Endpoint: "https://a", Token: "t"},
			{Name: "b", Endpoint: "https://b", Token: "t"},
		},
	}

	if c, ok := cfg.Find("a"); !ok || c.Name != "a" {
		t.Errorf("Find(a) = %v, %v", c, ok)
	}
	if c, ok := cfg.Find(""); !ok || c.Name != "b" {
		t.Errorf("Find(\"\") = %v, %v; want default b", c, ok)
	}
	if _, ok := cfg.Find("c"); ok {
		t.Error("Find(c) should fail")
	}

	single := &Config{Clouds: []Cloud{{Name: "only"}}}
	if c, ok := single.Find(""); !ok || c.Name != "only" {
		t.Errorf("Find(\"\") on single cloud = %v, %v", c, ok)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)
	want := &Config{
		DefaultCloud: "prod",
		Clouds: []Cloud{
			{Name: "prod", Description: "Production", Endpoint: "https://eb.example.com", TokenFile: "prod.token", Timeout: "10s"},
		},
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.DefaultCloud != want.DefaultCloud || len(got.Clouds) != 1 || got.Clouds[0] != want.Clouds[0] {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}
