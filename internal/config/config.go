package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	securejoin "github.com/cyphar/filepath-securejoin"
)

// cloudNameRegex validates cloud names.
// Names must start with a lowercase letter or digit, followed by lowercase letters, digits, underscores, or hyphens.
// Maximum length is 63 characters, so names stay usable as file names.
var cloudNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// ValidateCloudName checks if a cloud name is valid.
// Valid names:
//   - Start with a lowercase letter or digit
//   - Contain only lowercase letters, digits, underscores, or hyphens
//   - Are between 1 and 63 characters long
func ValidateCloudName(name string) error {
	if name == "" {
		return fmt.Errorf("cloud name cannot be empty")
	}

	if !cloudNameRegex.MatchString(name) {
		return fmt.Errorf("invalid cloud name %q: must start with a lowercase letter or digit, contain only lowercase letters, digits, underscores, or hyphens, and be at most 63 characters", name)
	}

	return nil
}

const (
	AppName        = "ebctl"
	ConfigFileName = "config.toml"
	DefaultTimeout = 30 * time.Second

	EnvConfigDir = "EBCTL_CONFIG_DIR"
	EnvStateDir  = "EBCTL_STATE_DIR"
)

// Cloud is one configured ElasticBox endpoint.
type Cloud struct {
	Name        string `toml:"name" json:"name" yaml:"name"`
	Description string `toml:"description,omitempty" json:"description,omitempty" yaml:"description,omitempty"`
	Endpoint    string `toml:"endpoint" json:"endpoint" yaml:"endpoint"`
	Token       string `toml:"token,omitempty" json:"-" yaml:"-"`
	TokenFile   string `toml:"token_file,omitempty" json:"-" yaml:"-"`
	Timeout     string `toml:"timeout,omitempty" json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DisplayName returns the description, or the name when there is none.
func (c Cloud) DisplayName() string {
	if strings.TrimSpace(c.Description) != "" {
		return c.Description
	}
	return c.Name
}

// RequestTimeout returns the parsed timeout, or DefaultTimeout when unset.
func (c Cloud) RequestTimeout() time.Duration {
	if c.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// Validate checks that the Cloud is valid.
func (c *Cloud) Validate() error {
	if err := ValidateCloudName(c.Name); err != nil {
		return err
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("cloud %s: endpoint must be an absolute http(s) URL, got %q", c.Name, c.Endpoint)
	}

	switch {
	case c.Token == "" && c.TokenFile == "":
		return fmt.Errorf("cloud %s: one of token or token_file is required", c.Name)
	case c.Token != "" && c.TokenFile != "":
		return fmt.Errorf("cloud %s: token and token_file are mutually exclusive", c.Name)
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("cloud %s: invalid timeout %q: %w", c.Name, c.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("cloud %s: timeout must be positive", c.Name)
		}
	}

	return nil
}

// ResolveToken returns the API token, reading token_file relative to
// configDir. The file path cannot escape configDir.
func (c *Cloud) ResolveToken(configDir string) (string, error) {
	if c.Token != "" {
		return c.Token, nil
	}

	path, err := securejoin.SecureJoin(configDir, c.TokenFile)
	if err != nil {
		return "", fmt.Errorf("invalid token_file for cloud %s: %w", c.Name, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read token for cloud %s: %w", c.Name, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file for cloud %s is empty", c.Name)
	}
	return token, nil
}

// Config is the contents of config.toml.
type Config struct {
	DefaultCloud string  `toml:"default_cloud,omitempty"`
	Clouds       []Cloud `toml:"cloud"`
}

// Validate checks every cloud and the default cloud reference.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Clouds))
	for i := range c.Clouds {
		if err := c.Clouds[i].Validate(); err != nil {
			return err
		}
		if seen[c.Clouds[i].Name] {
			return fmt.Errorf("duplicate cloud %s", c.Clouds[i].Name)
		}
		seen[c.Clouds[i].Name] = true
	}

	if c.DefaultCloud != "" && !seen[c.DefaultCloud] {
		return fmt.Errorf("default_cloud %q is not a configured cloud", c.DefaultCloud)
	}
	return nil
}

// Find returns the named cloud. An empty name selects the default cloud, or
// the only cloud when exactly one is configured.
func (c *Config) Find(name string) (*Cloud, bool) {
	if name == "" {
		name = c.DefaultCloud
	}
	if name == "" && len(c.Clouds) == 1 {
		return &c.Clouds[0], true
	}
	for i := range c.Clouds {
		if c.Clouds[i].Name == name {
			return &c.Clouds[i], true
		}
	}
	return nil, false
}

// Paths holds the directories ebctl reads and writes.
type Paths struct {
	ConfigDir string
	StateDir  string
	AuditDir  string
}

// ConfigFile returns the path of config.toml.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, ConfigFileName)
}

// NewPaths derives the paths below the given directories.
func NewPaths(configDir, stateDir string) *Paths {
	return &Paths{
		ConfigDir: configDir,
		StateDir:  stateDir,
		AuditDir:  filepath.Join(stateDir, "audit"),
	}
}

// DefaultPaths returns the default paths, honoring EBCTL_CONFIG_DIR and
// EBCTL_STATE_DIR.
func DefaultPaths() *Paths {
	return NewPaths(defaultConfigDir(), defaultStateDir())
}

func defaultConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	return filepath.Join(".", "."+AppName)
}

func defaultStateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return dir
	}
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", AppName)
	}
	return filepath.Join(".", "."+AppName, "state")
}

// Load reads and validates config.toml. A missing file gives an empty
// configuration.
func Load(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in config %s", undecoded[0].String(), path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the configuration as TOML.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
