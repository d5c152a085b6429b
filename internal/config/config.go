package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dshills/ccw/internal/cache"
	"github.com/dshills/ccw/internal/providers"
	"github.com/dshills/ccw/internal/review"
)

// Config represents the ccw configuration.
type Config struct {
	Host           string        `json:"host,omitempty"`
	Model          string        `json:"model"`
	TimeoutSeconds int           `json:"timeoutSeconds"`
	MaxAttempts    int           `json:"maxAttempts"`
	KeepAlive      int           `json:"keepAlive"`
	SkipLarger     int           `json:"skipLarger,omitempty"`
	Format         string        `json:"format"`
	ModesFile      string        `json:"modesFile,omitempty"`
	Cache          CacheConfig   `json:"cache"`
	History        HistoryConfig `json:"history"`
	Privacy        PrivacyConfig `json:"privacy"`
	Server         ServerConfig  `json:"server"`
}

// CacheConfig controls reply caching.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// PrivacyConfig controls redaction of request bodies.
type PrivacyConfig struct {
	RedactSecrets bool     `json:"redactSecrets"`
	RedactPaths   []string `json:"redactPaths,omitempty"`
}

// ServerConfig controls `ccw serve`.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// Formats accepted by the output layer.
var Formats = []string{"text", "json", "markdown"}

// Default returns a Config with all defaults applied. Host has no default.
func Default() Config {
	return Config{
		Model:          review.DefaultModel,
		TimeoutSeconds: 300,
		MaxAttempts:    3,
		KeepAlive:      0,
		Format:         "text",
		Cache: CacheConfig{
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactPaths: []string{"**/.env", "**/*secrets*"},
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8088",
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for ccw.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ccw"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "ccw"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "ccw"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "ccw"), nil
	default:
		return filepath.Join(home, ".config", "ccw"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads the config file. A missing file yields a zero Config and no error.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Load builds the effective config by merging, lowest first: defaults, the
// config file, the .env file, the environment and CLI overrides. Variables
// already present in the environment win over the .env file. The overrides
// map comes from CLI flags; only flags the user set should be present.
// The "envFile" override names the .env file (default ".env").
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)

	envFile := ".env"
	if v, ok := overrides["envFile"]; ok && v != "" {
		envFile = v
	}
	dotenv, err := readDotEnv(envFile)
	if err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg, envLookup(dotenv)); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readDotEnv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return vars, nil
}

// envLookup resolves a variable from the process environment, falling back
// to the .env values.
func envLookup(dotenv map[string]string) func(string) string {
	return func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}
}

func mergeFile(dst *Config, src Config) {
	if src.Host != "" {
		dst.Host = src.Host
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.TimeoutSeconds > 0 {
		dst.TimeoutSeconds = src.TimeoutSeconds
	}
	if src.MaxAttempts > 0 {
		dst.MaxAttempts = src.MaxAttempts
	}
	if src.KeepAlive != 0 {
		dst.KeepAlive = src.KeepAlive
	}
	if src.SkipLarger > 0 {
		dst.SkipLarger = src.SkipLarger
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.ModesFile != "" {
		dst.ModesFile = src.ModesFile
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	if src.History.Path != "" {
		dst.History.Path = src.History.Path
	}
	if len(src.Privacy.RedactPaths) > 0 {
		dst.Privacy.RedactPaths = src.Privacy.RedactPaths
	}
	if src.Server.Addr != "" {
		dst.Server.Addr = src.Server.Addr
	}
	// Switches default to off, so a true in the file turns them on.
	dst.Cache.Enabled = src.Cache.Enabled || dst.Cache.Enabled
	dst.History.Enabled = src.History.Enabled || dst.History.Enabled
	dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets || dst.Privacy.RedactSecrets
}

// envKeys maps environment variables to config keys understood by SetField.
var envKeys = []struct{ env, key string }{
	{"OLLAMA_HOST", "host"},
	{"CCW_MODEL", "model"},
	{"CCW_TIMEOUT", "timeoutSeconds"},
	{"CCW_MAX_ATTEMPTS", "maxAttempts"},
	{"CCW_KEEP_ALIVE", "keepAlive"},
	{"CCW_SKIP_LARGER", "skipLarger"},
	{"CCW_FORMAT", "format"},
	{"CCW_MODES_FILE", "modesFile"},
	{"CCW_CACHE", "cache.enabled"},
	{"CCW_HISTORY", "history.enabled"},
	{"CCW_REDACT", "privacy.redactSecrets"},
}

func mergeEnv(cfg *Config, getenv func(string) string) error {
	for _, ek := range envKeys {
		v := getenv(ek.env)
		if v == "" {
			continue
		}
		if err := SetField(cfg, ek.key, v); err != nil {
			return fmt.Errorf("%s: %w", ek.env, err)
		}
	}
	return nil
}

// overrideKeys maps CLI override names to config keys.
var overrideKeys = map[string]string{
	"host":        "host",
	"model":       "model",
	"timeout":     "timeoutSeconds",
	"maxAttempts": "maxAttempts",
	"keepAlive":   "keepAlive",
	"skipLarger":  "skipLarger",
	"format":      "format",
	"modesFile":   "modesFile",
	"cache":       "cache.enabled",
	"history":     "history.enabled",
	"redact":      "privacy.redactSecrets",
	"addr":        "server.addr",
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for name, v := range overrides {
		key, ok := overrideKeys[name]
		if !ok || v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns an error for
// unknown keys and malformed values.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "host":
		cfg.Host = value
	case "model":
		cfg.Model = value
	case "format":
		cfg.Format = strings.ToLower(value)
	case "modesFile":
		cfg.ModesFile = value
	case "cache.dir":
		cfg.Cache.Dir = value
	case "history.path":
		cfg.History.Path = value
	case "server.addr":
		cfg.Server.Addr = value
	case "privacy.redactPaths":
		cfg.Privacy.RedactPaths = splitList(value)
	case "timeoutSeconds", "maxAttempts", "keepAlive", "skipLarger", "cache.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		*intField(cfg, key) = n
	case "cache.enabled", "history.enabled", "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		*boolField(cfg, key) = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func intField(cfg *Config, key string) *int {
	switch key {
	case "timeoutSeconds":
		return &cfg.TimeoutSeconds
	case "maxAttempts":
		return &cfg.MaxAttempts
	case "keepAlive":
		return &cfg.KeepAlive
	case "skipLarger":
		return &cfg.SkipLarger
	default:
		return &cfg.Cache.TTLSeconds
	}
}

func boolField(cfg *Config, key string) *bool {
	switch key {
	case "cache.enabled":
		return &cfg.Cache.Enabled
	case "history.enabled":
		return &cfg.History.Enabled
	default:
		return &cfg.Privacy.RedactSecrets
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the merged config. A missing host is reported as
// providers.ErrHostMissing.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return providers.ErrHostMissing
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeoutSeconds must not be negative")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("maxAttempts must not be negative")
	}
	if c.SkipLarger < 0 {
		return fmt.Errorf("skipLarger must not be negative")
	}
	for _, f := range Formats {
		if c.Format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (want one of %s)", c.Format, strings.Join(Formats, ", "))
}

// Timeout returns the per-attempt timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Options derives the engine options.
func (c Config) Options() review.Options {
	return review.Options{
		Model:         c.Model,
		KeepAlive:     c.KeepAlive,
		SkipLarger:    c.SkipLarger,
		RedactSecrets: c.Privacy.RedactSecrets,
		RedactPaths:   c.Privacy.RedactPaths,
	}
}

// ProviderOptions derives the inference client options.
func (c Config) ProviderOptions() providers.Options {
	return providers.Options{
		Host:        c.Host,
		Timeout:     c.Timeout(),
		MaxAttempts: c.MaxAttempts,
	}
}

// CacheOptions derives the reply cache options.
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Enabled: c.Cache.Enabled,
		Dir:     c.Cache.Dir,
		TTL:     time.Duration(c.Cache.TTLSeconds) * time.Second,
	}
}
