// Package config provides configuration loading and validation for the form
// server and the test harness.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults.
const (
	DefaultBaseURL         = "http://localhost:3000"
	DefaultBrowser         = "chromium"
	DefaultSettleMS        = 500
	DefaultActionTimeoutMS = 10000
	DefaultCaseTimeoutMS   = 60000
	DefaultParallelism     = 1
	DefaultRetries         = 1
	DefaultMockLatencyMS   = 100
	DefaultPort            = 3000
)

// Config is the resolved configuration. It is built once in main and passed
// down explicitly; library code never reads the environment.
type Config struct {
	// Harness
	BaseURL         string `json:"base_url,omitempty" validate:"required,url"`
	Browser         string `json:"browser,omitempty" validate:"required,oneof=chromium firefox webkit"`
	Headless        *bool  `json:"headless,omitempty"`
	SettleMS        int    `json:"settle_ms,omitempty" validate:"gte=0"`
	ActionTimeoutMS int    `json:"action_timeout_ms,omitempty" validate:"gt=0"`
	CaseTimeoutMS   int    `json:"case_timeout_ms,omitempty" validate:"gt=0"`
	Parallelism     int    `json:"parallelism,omitempty" validate:"gte=1,lte=32"`
	Retries         int    `json:"retries,omitempty" validate:"gte=0,lte=10"`
	ChromePath      string `json:"chrome_path,omitempty"`

	// Server
	BackendURL    string `json:"backend_url,omitempty" validate:"omitempty,url"` // Empty uses the in-process mock
	MockLatencyMS int    `json:"mock_latency_ms,omitempty" validate:"gte=0"`
	Port          int    `json:"port,omitempty" validate:"gte=1,lte=65535"`

	Verbose bool `json:"verbose,omitempty"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	headless := true
	return Config{
		BaseURL:         DefaultBaseURL,
		Browser:         DefaultBrowser,
		Headless:        &headless,
		SettleMS:        DefaultSettleMS,
		ActionTimeoutMS: DefaultActionTimeoutMS,
		CaseTimeoutMS:   DefaultCaseTimeoutMS,
		Parallelism:     DefaultParallelism,
		Retries:         DefaultRetries,
		MockLatencyMS:   DefaultMockLatencyMS,
		Port:            DefaultPort,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv overlays environment variables on base.
func FromEnv(base Config) Config {
	cfg := base
	cfg.BaseURL = getEnvString("BASE_URL", cfg.BaseURL)
	cfg.Browser = strings.ToLower(getEnvString("BROWSER", cfg.Browser))
	if v, ok := lookupBool("HEADLESS"); ok {
		cfg.Headless = &v
	}
	cfg.SettleMS = getEnvInt("SETTLE_MS", cfg.SettleMS)
	cfg.ActionTimeoutMS = getEnvInt("ACTION_TIMEOUT_MS", cfg.ActionTimeoutMS)
	cfg.CaseTimeoutMS = getEnvInt("CASE_TIMEOUT_MS", cfg.CaseTimeoutMS)
	cfg.Parallelism = getEnvInt("PARALLELISM", cfg.Parallelism)
	cfg.Retries = getEnvInt("RETRIES", cfg.Retries)
	cfg.ChromePath = getEnvString("CHROME_PATH", cfg.ChromePath)
	cfg.BackendURL = getEnvString("BACKEND_URL", cfg.BackendURL)
	cfg.MockLatencyMS = getEnvInt("MOCK_LATENCY_MS", cfg.MockLatencyMS)
	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.Verbose = getEnvBool("VERBOSE", cfg.Verbose)
	return cfg
}

// Load resolves the configuration: defaults, then the optional JSON file,
// then the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	cfg = FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config error: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("'%s' failed '%s' (got %v)", fe.Field(), fe.ActualTag(), fe.Value()))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
// Zero numbers in a file cannot be told apart from unset ones; use the
// environment to force a zero settle or latency.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.Browser == "" {
		result.Browser = defaults.Browser
	}
	if result.Headless == nil {
		result.Headless = defaults.Headless
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.BackendURL == "" {
		result.BackendURL = defaults.BackendURL
	}

	if result.SettleMS == 0 {
		result.SettleMS = defaults.SettleMS
	}
	if result.ActionTimeoutMS == 0 {
		result.ActionTimeoutMS = defaults.ActionTimeoutMS
	}
	if result.CaseTimeoutMS == 0 {
		result.CaseTimeoutMS = defaults.CaseTimeoutMS
	}
	if result.Parallelism == 0 {
		result.Parallelism = defaults.Parallelism
	}
	if result.Retries == 0 {
		result.Retries = defaults.Retries
	}
	if result.MockLatencyMS == 0 {
		result.MockLatencyMS = defaults.MockLatencyMS
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	return result
}

// IsHeadless reports the headless setting; unset means headless.
func (c Config) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}

// Settle returns the settle interval.
func (c Config) Settle() time.Duration {
	return time.Duration(c.SettleMS) * time.Millisecond
}

// ActionTimeout returns the per-action ceiling.
func (c Config) ActionTimeout() time.Duration {
	return time.Duration(c.ActionTimeoutMS) * time.Millisecond
}

// CaseTimeout returns the per-case ceiling.
func (c Config) CaseTimeout() time.Duration {
	return time.Duration(c.CaseTimeoutMS) * time.Millisecond
}

// MockLatency returns the simulated backend latency.
func (c Config) MockLatency() time.Duration {
	return time.Duration(c.MockLatencyMS) * time.Millisecond
}

// Addr returns the listen address for the form server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// getEnvString gets an environment variable with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if v, ok := lookupBool(key); ok {
		return v
	}
	return defaultValue
}

func lookupBool(key string) (bool, bool) {
	value := os.Getenv(key)
	if value == "" {
		return false, false
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, false
	}
	return b, true
}
