package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Log       LogConfig
	Container ContainerConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

type LogConfig struct {
	Level  string // debug | info | warn | error | fatal
	Format string // text | json | logfmt
	Prefix string
}

type ContainerConfig struct {
	// Trace logs every resolution step at debug level.
	Trace bool
	// Manifest is the path of a bindings manifest applied at boot.
	Manifest string
}

// defaults holds every known key with its fallback value.
var defaults = map[string]any{
	"app_name":           "chefling",
	"app_env":            "local",
	"app_debug":          false,
	"log_level":          "info",
	"log_format":         "text",
	"log_prefix":         "chefling",
	"container_trace":    false,
	"container_manifest": "",
}

// Load reads .env files (if present) and populates a Config.
//
// Precedence, highest first: process environment, .env files, defaults.
// Later files override earlier ones. Files are read without touching the
// process environment; a missing file is not an error.
//
//	cfg := config.Load()                      // ./.env
//	cfg := config.Load("testdata/app.env")
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	// Non-fatal: .env may not exist in production
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			continue
		}
		// a file that can not be merged is skipped like a missing one
		if err := v.MergeConfigMap(lowerKeys(values)); err != nil {
			continue
		}
	}

	v.AutomaticEnv()

	return &Config{
		App: AppConfig{
			Name:  v.GetString("app_name"),
			Env:   v.GetString("app_env"),
			Debug: v.GetBool("app_debug"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
			Prefix: v.GetString("log_prefix"),
		},
		Container: ContainerConfig{
			Trace:    v.GetBool("container_trace"),
			Manifest: v.GetString("container_manifest"),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return defaultVal
	}
	return b
}

// ── helpers ─────────────────────────────────────────────────────────────────

func lowerKeys(values map[string]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[strings.ToLower(k)] = v
	}
	return out
}
