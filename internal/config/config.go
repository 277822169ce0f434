/*
Package config builds the process-wide configuration once at startup.
Values come from the environment, optionally seeded from a .env file, and the
resulting Config is passed by pointer into every constructor that needs it.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/bytes"

	"MediBot/internal/utility"
)

const (
	NutritionProviderOpenRouter = "openrouter"
	NutritionProviderGemini     = "gemini"

	TriageMatchSubstring = "substring"
	TriageMatchWord      = "word"
)

// Config holds everything the server and its providers read at startup.
type Config struct {
	Port int

	Chat      ChatConfig
	Nutrition NutritionConfig

	// ProviderTimeout bounds every outbound model call.
	ProviderTimeout time.Duration

	TriageMatchMode string

	Log LogConfig

	RateLimitRPS   float64
	RateLimitBurst int

	ScanCacheSize int
	ScanCacheTTL  time.Duration

	// TrustedProxies lists the reverse proxies (IPs or CIDRs) whose
	// X-Forwarded-For entries are believed. Empty means the socket address
	// is the client.
	TrustedProxies []string

	CORSAllowOrigins []string
	BodyLimit        string
	WebDir           string
}

// ChatConfig describes the OpenAI-compatible chat completion provider.
type ChatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Enabled reports whether a token was provided for the chat provider.
func (c ChatConfig) Enabled() bool {
	return c.APIKey != ""
}

// NutritionConfig describes the vision provider used for label extraction.
type NutritionConfig struct {
	Provider string

	APIKey  string
	BaseURL string
	Model   string

	GeminiAPIKey string
	GeminiModel  string
}

// Enabled reports whether the selected vision provider has a token.
func (n NutritionConfig) Enabled() bool {
	if n.Provider == NutritionProviderGemini {
		return n.GeminiAPIKey != ""
	}
	return n.APIKey != ""
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		Port: 5000,
		Chat: ChatConfig{
			BaseURL: "https://router.huggingface.co/v1",
			Model:   "AndresR2909/Llama-3.1-8B-Instruct-suicide-related-text-classification:featherless-ai",
		},
		Nutrition: NutritionConfig{
			Provider:    NutritionProviderOpenRouter,
			BaseURL:     "https://openrouter.ai/api/v1",
			Model:       "openai/gpt-4o-mini",
			GeminiModel: "gemini-2.5-flash",
		},
		ProviderTimeout:  8 * time.Second,
		TriageMatchMode:  TriageMatchSubstring,
		Log:              LogConfig{Level: "info", Format: "json"},
		RateLimitRPS:     5,
		RateLimitBurst:   10,
		ScanCacheSize:    0,
		ScanCacheTTL:     10 * time.Minute,
		CORSAllowOrigins: []string{"*"},
		BodyLimit:        "10M",
		WebDir:           "web",
	}
}

// Load reads the given .env files (".env" when none are named) and then the
// environment. A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment on top of Default.
func FromEnv() (*Config, error) {
	cfg := Default()
	var errs []error

	if v := env("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			errs = append(errs, fmt.Errorf("invalid PORT %q", v))
		} else {
			cfg.Port = port
		}
	}

	cfg.Chat.APIKey = env("HF_TOKEN")
	setString(&cfg.Chat.BaseURL, "CHAT_BASE_URL")
	setString(&cfg.Chat.Model, "CHAT_MODEL")

	if v := env("NUTRITION_PROVIDER"); v != "" {
		switch p := strings.ToLower(v); p {
		case NutritionProviderOpenRouter, NutritionProviderGemini:
			cfg.Nutrition.Provider = p
		default:
			errs = append(errs, fmt.Errorf("invalid NUTRITION_PROVIDER %q (want %s or %s)", v, NutritionProviderOpenRouter, NutritionProviderGemini))
		}
	}
	cfg.Nutrition.APIKey = env("OPENROUTER_API_KEY")
	setString(&cfg.Nutrition.BaseURL, "NUTRITION_BASE_URL")
	setString(&cfg.Nutrition.Model, "NUTRITION_MODEL")
	cfg.Nutrition.GeminiAPIKey = env("GEMINI_API_KEY")
	setString(&cfg.Nutrition.GeminiModel, "GEMINI_MODEL")

	if err := setDuration(&cfg.ProviderTimeout, "PROVIDER_TIMEOUT"); err != nil {
		errs = append(errs, err)
	}

	if v := env("TRIAGE_MATCH_MODE"); v != "" {
		switch m := strings.ToLower(v); m {
		case TriageMatchSubstring, TriageMatchWord:
			cfg.TriageMatchMode = m
		default:
			errs = append(errs, fmt.Errorf("invalid TRIAGE_MATCH_MODE %q", v))
		}
	}

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	cfg.Log.File = env("LOG_FILE")

	if v := env("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 {
			errs = append(errs, fmt.Errorf("invalid RATE_LIMIT_RPS %q", v))
		} else {
			cfg.RateLimitRPS = rps
		}
	}
	if err := setNonNegativeInt(&cfg.RateLimitBurst, "RATE_LIMIT_BURST"); err != nil {
		errs = append(errs, err)
	}
	if err := setNonNegativeInt(&cfg.ScanCacheSize, "SCAN_CACHE_SIZE"); err != nil {
		errs = append(errs, err)
	}
	if err := setDuration(&cfg.ScanCacheTTL, "SCAN_CACHE_TTL"); err != nil {
		errs = append(errs, err)
	}

	if v := env("TRUSTED_PROXIES"); v != "" {
		proxies := splitList(v)
		if _, err := utility.ParseTrustedProxies(proxies); err != nil {
			errs = append(errs, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err))
		} else {
			cfg.TrustedProxies = proxies
		}
	}

	if v := env("CORS_ALLOW_ORIGINS"); v != "" {
		cfg.CORSAllowOrigins = splitList(v)
	}

	if v := env("BODY_LIMIT"); v != "" {
		if _, err := bytes.Parse(v); err != nil {
			errs = append(errs, fmt.Errorf("invalid BODY_LIMIT %q: %w", v, err))
		} else {
			cfg.BodyLimit = v
		}
	}
	setString(&cfg.WebDir, "WEB_DIR")

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func setString(dst *string, key string) {
	if v := env(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := env(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fmt.Errorf("invalid %s %q", key, v)
	}
	*dst = d
	return nil
}

func setNonNegativeInt(dst *int, key string) error {
	v := env(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid %s %q", key, v)
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
