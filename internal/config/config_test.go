package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/ccw/internal/providers"
)

// isolate points config lookups at an empty temp dir and clears the
// variables Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, ek := range envKeys {
		t.Setenv(ek.env, "")
		os.Unsetenv(ek.env)
	}
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Model != "qwen3-coder:30b" {
		t.Errorf("Default model = %q", cfg.Model)
	}
	if cfg.TimeoutSeconds != 300 || cfg.MaxAttempts != 3 || cfg.KeepAlive != 0 {
		t.Errorf("Default timeout/attempts/keepAlive = %d/%d/%d", cfg.TimeoutSeconds, cfg.MaxAttempts, cfg.KeepAlive)
	}
	if cfg.SkipLarger != 0 {
		t.Errorf("Default skipLarger = %d, want 0", cfg.SkipLarger)
	}
	if cfg.Format != "text" {
		t.Errorf("Default format = %q", cfg.Format)
	}
	if cfg.Host != "" {
		t.Errorf("Default host = %q, want empty", cfg.Host)
	}
	if cfg.Cache.Enabled || cfg.History.Enabled || cfg.Privacy.RedactSecrets {
		t.Error("optional features should default to off")
	}
}

func TestMergeEnv(t *testing.T) {
	env := map[string]string{
		"OLLAMA_HOST":      "http://gpu:11434",
		"CCW_MODEL":        "llama3.2:3b",
		"CCW_TIMEOUT":      "60",
		"CCW_MAX_ATTEMPTS": "5",
		"CCW_KEEP_ALIVE":   "-1",
		"CCW_SKIP_LARGER":  "32768",
		"CCW_FORMAT":       "JSON",
		"CCW_CACHE":        "true",
		"CCW_REDACT":       "1",
	}
	cfg := Default()
	if err := mergeEnv(&cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatalf("mergeEnv error: %v", err)
	}

	if cfg.Host != "http://gpu:11434" || cfg.Model != "llama3.2:3b" {
		t.Errorf("host/model = %q/%q", cfg.Host, cfg.Model)
	}
	if cfg.TimeoutSeconds != 60 || cfg.MaxAttempts != 5 || cfg.KeepAlive != -1 || cfg.SkipLarger != 32768 {
		t.Errorf("numbers = %+v", cfg)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if !cfg.Cache.Enabled || !cfg.Privacy.RedactSecrets || cfg.History.Enabled {
		t.Errorf("switches = %+v %+v %+v", cfg.Cache, cfg.Privacy, cfg.History)
	}
}

func TestMergeEnv_Invalid(t *testing.T) {
	cfg := Default()
	err := mergeEnv(&cfg, func(k string) string {
		if k == "CCW_MAX_ATTEMPTS" {
			return "three"
		}
		return ""
	})
	if err == nil {
		t.Error("expected error for non-integer CCW_MAX_ATTEMPTS")
	}
}

func TestMergeOverrides(t *testing.T) {
	cfg := Default()
	err := mergeOverrides(&cfg, map[string]string{
		"model":       "qwen2.5-coder:7b",
		"maxAttempts": "0",
		"skipLarger":  "9000",
		"timeout":     "10",
		"history":     "true",
		"format":      "markdown",
		"unrelated":   "ignored",
	})
	if err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}
	if cfg.Model != "qwen2.5-coder:7b" || cfg.MaxAttempts != 0 || cfg.SkipLarger != 9000 || cfg.TimeoutSeconds != 10 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.History.Enabled || cfg.Format != "markdown" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestMergeOverrides_Nil(t *testing.T) {
	cfg := Default()
	if err := mergeOverrides(&cfg, nil); err != nil {
		t.Fatal(err)
	}
	if cfg.Model != Default().Model {
		t.Error("Model changed with nil overrides")
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()
	tests := []struct {
		key   string
		value string
	}{
		{"host", "localhost:11434"},
		{"model", "codellama"},
		{"timeoutSeconds", "90"},
		{"maxAttempts", "1"},
		{"keepAlive", "300"},
		{"skipLarger", "20000"},
		{"format", "json"},
		{"modesFile", "modes.yaml"},
		{"cache.enabled", "true"},
		{"cache.dir", "/tmp/ccw-cache"},
		{"cache.ttlSeconds", "60"},
		{"history.enabled", "true"},
		{"history.path", "/tmp/ccw.db"},
		{"privacy.redactSecrets", "true"},
		{"privacy.redactPaths", "**/.env, *.pem"},
		{"server.addr", ":9000"},
	}
	for _, tt := range tests {
		if err := SetField(&cfg, tt.key, tt.value); err != nil {
			t.Errorf("SetField(%q, %q) error: %v", tt.key, tt.value, err)
		}
	}

	if cfg.Host != "localhost:11434" || cfg.KeepAlive != 300 || cfg.Cache.TTLSeconds != 60 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Cache.Enabled || !cfg.History.Enabled || !cfg.Privacy.RedactSecrets {
		t.Errorf("switches not set: %+v", cfg)
	}
	if len(cfg.Privacy.RedactPaths) != 2 || cfg.Privacy.RedactPaths[1] != "*.pem" {
		t.Errorf("RedactPaths = %q", cfg.Privacy.RedactPaths)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestSetField_Errors(t *testing.T) {
	cfg := Default()
	tests := []struct{ key, value string }{
		{"nonexistent", "value"},
		{"maxAttempts", "notanumber"},
		{"cache.enabled", "maybe"},
	}
	for _, tt := range tests {
		if err := SetField(&cfg, tt.key, tt.value); err == nil {
			t.Errorf("SetField(%q, %q) expected error", tt.key, tt.value)
		}
	}
}

func TestMergeFile(t *testing.T) {
	dst := Default()
	src := Config{
		Host:           "http://box:11434",
		Model:          "deepseek-coder",
		TimeoutSeconds: 30,
		MaxAttempts:    7,
		SkipLarger:     12000,
		Format:         "json",
		Cache:          CacheConfig{Enabled: true, Dir: "/tmp/c", TTLSeconds: 5},
		History:        HistoryConfig{Path: "/tmp/h.db"},
	}
	mergeFile(&dst, src)

	if dst.Host != "http://box:11434" || dst.Model != "deepseek-coder" || dst.TimeoutSeconds != 30 || dst.MaxAttempts != 7 {
		t.Errorf("dst = %+v", dst)
	}
	if dst.SkipLarger != 12000 || dst.Format != "json" {
		t.Errorf("dst = %+v", dst)
	}
	if !dst.Cache.Enabled || dst.Cache.Dir != "/tmp/c" || dst.Cache.TTLSeconds != 5 {
		t.Errorf("Cache = %+v", dst.Cache)
	}
	if dst.History.Enabled || dst.History.Path != "/tmp/h.db" {
		t.Errorf("History = %+v", dst.History)
	}
}

func TestMergeFile_Empty(t *testing.T) {
	dst := Default()
	mergeFile(&dst, Config{})
	if dst.MaxAttempts != 3 || dst.TimeoutSeconds != 300 || dst.Server.Addr == "" {
		t.Errorf("defaults lost: %+v", dst)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)

	cfgDir := filepath.Join(dir, "ccw")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	file := `{"host":"http://from-file:11434","model":"file-model","maxAttempts":4,"keepAlive":10}`
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}

	envFile := filepath.Join(t.TempDir(), ".env")
	dotenv := "OLLAMA_HOST=http://from-dotenv:11434\nCCW_MODEL=dotenv-model\nCCW_KEEP_ALIVE=20\n"
	if err := os.WriteFile(envFile, []byte(dotenv), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CCW_MODEL", "env-model")

	cfg, err := Load(map[string]string{"envFile": envFile, "maxAttempts": "2"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Host != "http://from-dotenv:11434" {
		t.Errorf("Host = %q, want .env value", cfg.Host)
	}
	if cfg.Model != "env-model" {
		t.Errorf("Model = %q, want environment value", cfg.Model)
	}
	if cfg.KeepAlive != 20 {
		t.Errorf("KeepAlive = %d, want .env value", cfg.KeepAlive)
	}
	if cfg.MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d, want flag value", cfg.MaxAttempts)
	}
	if _, set := os.LookupEnv("OLLAMA_HOST"); set {
		t.Error(".env values leaked into the process environment")
	}
}

func TestLoad_MissingFiles(t *testing.T) {
	isolate(t)
	cfg, err := Load(map[string]string{"envFile": filepath.Join(t.TempDir(), "absent.env")})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Model != Default().Model {
		t.Errorf("Model = %q", cfg.Model)
	}
}

func TestLoad_BadFile(t *testing.T) {
	dir := isolate(t)
	os.MkdirAll(filepath.Join(dir, "ccw"), 0o755)
	os.WriteFile(filepath.Join(dir, "ccw", "config.json"), []byte("{not json"), 0o644)
	if _, err := Load(nil); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Host = "http://saved:11434"
	cfg.SkipLarger = 5000
	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if got.Host != cfg.Host || got.SkipLarger != 5000 {
		t.Errorf("LoadFile = %+v", got)
	}
}

func TestValidate(t *testing.T) {
	ok := Default()
	ok.Host = "localhost:11434"
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate error: %v", err)
	}

	noHost := Default()
	if err := noHost.Validate(); !errors.Is(err, providers.ErrHostMissing) {
		t.Errorf("Validate error = %v, want ErrHostMissing", err)
	}

	tests := []func(*Config){
		func(c *Config) { c.Format = "sarif" },
		func(c *Config) { c.MaxAttempts = -1 },
		func(c *Config) { c.TimeoutSeconds = -5 },
		func(c *Config) { c.SkipLarger = -1 },
	}
	for i, mutate := range tests {
		c := ok
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestDerivedOptions(t *testing.T) {
	cfg := Default()
	cfg.Host = "h:1"
	cfg.TimeoutSeconds = 45
	cfg.SkipLarger = 100
	cfg.Cache.Enabled = true
	cfg.Cache.TTLSeconds = 60

	if o := cfg.ProviderOptions(); o.Timeout != 45*time.Second || o.MaxAttempts != 3 || o.Host != "h:1" {
		t.Errorf("ProviderOptions = %+v", o)
	}
	if o := cfg.Options(); o.SkipLarger != 100 || o.Model != cfg.Model {
		t.Errorf("Options = %+v", o)
	}
	if o := cfg.CacheOptions(); !o.Enabled || o.TTL != time.Minute {
		t.Errorf("CacheOptions = %+v", o)
	}
}
