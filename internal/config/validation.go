package config

import (
	"fmt"
	"os"
)

// Validate checks configuration values and fails fast with sentinel errors.
// Callers can branch with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model name is empty", ErrInvalidModelName)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: %.2f (must be 0.0-2.0)", ErrInvalidTemperature, c.Temperature)
	}

	if c.MaxTokens <= 0 || c.MaxTokens > 1_000_000 {
		return fmt.Errorf("%w: %d (must be 1-1000000)", ErrInvalidMaxTokens, c.MaxTokens)
	}

	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder model is empty", ErrInvalidEmbedderModel)
	}

	if c.EmbedBatchSize <= 0 || c.EmbedBatchSize > 250 {
		return fmt.Errorf("%w: %d (must be 1-250)", ErrInvalidBatchSize, c.EmbedBatchSize)
	}

	if c.FAQPath == "" {
		return fmt.Errorf("%w: faq_path is empty", ErrInvalidDataPath)
	}
	if c.CarDataDir == "" {
		return fmt.Errorf("%w: car_data_dir is empty", ErrInvalidDataPath)
	}
	if c.CacheDir == "" {
		return fmt.Errorf("%w: cache_dir is empty", ErrInvalidDataPath)
	}

	if c.OTPTTLMinutes <= 0 || c.OTPTTLMinutes > 60 {
		return fmt.Errorf("%w: %d (must be 1-60 minutes)", ErrInvalidOTPTTL, c.OTPTTLMinutes)
	}

	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 100 {
		return fmt.Errorf("%w: %d (must be 0-100)", ErrInvalidFuzzyThreshold, c.FuzzyThreshold)
	}

	return nil
}

// CheckAPIKey verifies the provider's API key is present in the environment.
// Kept separate from Validate so offline commands (version, help) don't
// require credentials.
func (c *Config) CheckAPIKey() error {
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrMissingAPIKey)
	}
	return nil
}
