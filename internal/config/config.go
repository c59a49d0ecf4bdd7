// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.mahindrabot/config.yaml or ./config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - AI: provider, model, temperature, max tokens, embedder
//   - Data: car/bike catalog directories, FAQ corpus, EV charger dataset
//   - Booking: OTP time-to-live, operator override OTP, booking log path
//   - Server: listen address, proxy trust
//   - Observability: OTLP trace exporter
//
// Security: the operator override OTP is masked in MarshalJSON and String.
// Validation lives in validation.go and runs on Load (fail-fast).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidBatchSize indicates the embedding batch size is out of range.
	ErrInvalidBatchSize = errors.New("invalid embedding batch size")

	// ErrInvalidDataPath indicates a required data path is empty.
	ErrInvalidDataPath = errors.New("invalid data path")

	// ErrInvalidOTPTTL indicates the OTP time-to-live is out of range.
	ErrInvalidOTPTTL = errors.New("invalid OTP TTL")

	// ErrInvalidFuzzyThreshold indicates the fuzzy match threshold is out of range.
	ErrInvalidFuzzyThreshold = errors.New("invalid fuzzy threshold")
)

const (
	// DefaultEmbedderModel is the default Gemini embedder model.
	DefaultEmbedderModel = "gemini-embedding-001"

	// DefaultEmbedBatchSize is the number of texts sent per embedding request.
	DefaultEmbedBatchSize = 50

	// DefaultOTPTTLMinutes is how long a booking OTP stays valid.
	DefaultOTPTTLMinutes = 10

	// DefaultFuzzyThreshold is the minimum fuzzy match rank for catalog search
	// fallback, on a 0-100 scale.
	DefaultFuzzyThreshold = 70
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini   = "gemini"
	ProviderGoogleAI = "googleai"
)

// TraceConfig configures the OTLP trace exporter.
type TraceConfig struct {
	Enabled     bool   `mapstructure:"enabled" json:"enabled"`
	Endpoint    string `mapstructure:"endpoint" json:"endpoint"` // host:port of the OTLP HTTP collector
	ServiceName string `mapstructure:"service_name" json:"service_name"`
	Environment string `mapstructure:"environment" json:"environment"`
}

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
type Config struct {
	// AI provider and model configuration
	Provider    string  `mapstructure:"provider" json:"provider"`
	ModelName   string  `mapstructure:"model_name" json:"model_name"`
	Temperature float32 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`
	MaxTurns    int     `mapstructure:"max_turns" json:"max_turns"`

	// Embedding configuration
	EmbedderModel  string `mapstructure:"embedder_model" json:"embedder_model"`
	EmbedBatchSize int    `mapstructure:"embed_batch_size" json:"embed_batch_size"`

	// Data paths
	CarDataDir    string `mapstructure:"car_data_dir" json:"car_data_dir"`
	BikeDataDir   string `mapstructure:"bike_data_dir" json:"bike_data_dir"`
	FAQPath       string `mapstructure:"faq_path" json:"faq_path"`
	EVChargerPath string `mapstructure:"ev_charger_path" json:"ev_charger_path"`
	PincodePath   string `mapstructure:"pincode_path" json:"pincode_path"`
	CacheDir      string `mapstructure:"cache_dir" json:"cache_dir"`

	// Catalog search
	FuzzyThreshold int `mapstructure:"fuzzy_threshold" json:"fuzzy_threshold"`

	// Booking
	OTPTTLMinutes  int    `mapstructure:"otp_ttl_minutes" json:"otp_ttl_minutes"`
	OverrideOTP    string `mapstructure:"override_otp" json:"override_otp"` // SENSITIVE: masked in MarshalJSON
	BookingLogPath string `mapstructure:"booking_log_path" json:"booking_log_path"`

	// HTTP server (serve mode only)
	Addr       string `mapstructure:"addr" json:"addr"`
	TrustProxy bool   `mapstructure:"trust_proxy" json:"trust_proxy"`

	// Observability
	Trace TraceConfig `mapstructure:"trace" json:"trace"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".mahindrabot")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// AI defaults
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("temperature", 0.7)
	viper.SetDefault("max_tokens", 2048)
	viper.SetDefault("max_turns", 5)

	// Embedding defaults
	viper.SetDefault("embedder_model", DefaultEmbedderModel)
	viper.SetDefault("embed_batch_size", DefaultEmbedBatchSize)

	// Data defaults
	viper.SetDefault("car_data_dir", "data/new_car_details")
	viper.SetDefault("bike_data_dir", "data/new_bike_details")
	viper.SetDefault("faq_path", "data/consolidated_faqs.json")
	viper.SetDefault("ev_charger_path", "data/ev_chargers.json")
	viper.SetDefault("pincode_path", "data/pincodes_in.json")
	viper.SetDefault("cache_dir", ".temp")

	// Catalog defaults
	viper.SetDefault("fuzzy_threshold", DefaultFuzzyThreshold)

	// Booking defaults
	viper.SetDefault("otp_ttl_minutes", DefaultOTPTTLMinutes)
	viper.SetDefault("booking_log_path", "bookings.db")

	// Server defaults
	viper.SetDefault("addr", "127.0.0.1:3400")
	viper.SetDefault("trust_proxy", false)

	// Trace defaults
	viper.SetDefault("trace.enabled", false)
	viper.SetDefault("trace.endpoint", "localhost:4318")
	viper.SetDefault("trace.service_name", "mahindrabot")
	viper.SetDefault("trace.environment", "dev")
}

// bindEnvVariables binds environment variables explicitly.
// GEMINI_API_KEY is read directly by Genkit (not via viper); its presence is
// checked in Validate().
func bindEnvVariables() {
	// A bind of hardcoded strings can't fail; a panic here means a bug.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "MAHINDRABOT_PROVIDER")
	mustBind("model_name", "MAHINDRABOT_MODEL_NAME")
	mustBind("addr", "MAHINDRABOT_ADDR")
	mustBind("trust_proxy", "MAHINDRABOT_TRUST_PROXY")
	mustBind("override_otp", "INTERNAL_SECRET_OTP")
	mustBind("trace.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging. Short secrets are fully
// masked to prevent substring matching; longer ones show the first and last
// two characters.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.OverrideOTP = maskSecret(a.OverrideOTP)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// FullModelName returns the provider-qualified model name for Genkit.
// Example: "googleai/gemini-2.5-flash". A name already containing "/" is
// returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	return ProviderGoogleAI + "/" + c.ModelName
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
