package config

import (
	"fmt"

	"github.com/aivoc/vocbuilder/internal/domain"
)

// Providers that can be selected via PROVIDER.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Backend.Provider {
	case ProviderOpenAI:
		if c.Backend.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when provider is %q", ProviderOpenAI)
		}
	case ProviderGemini:
		if c.Backend.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when provider is %q", ProviderGemini)
		}
	case ProviderAnthropic:
		if c.Backend.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when provider is %q", ProviderAnthropic)
		}
	default:
		return fmt.Errorf("unknown provider %q (want %s, %s, or %s)",
			c.Backend.Provider, ProviderOpenAI, ProviderGemini, ProviderAnthropic)
	}

	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be > 0 (got %v)", c.Backend.Timeout)
	}
	if c.Backend.RPS <= 0 {
		return fmt.Errorf("backend.rps must be > 0 (got %v)", c.Backend.RPS)
	}
	if c.Backend.Burst <= 0 {
		return fmt.Errorf("backend.burst must be > 0 (got %d)", c.Backend.Burst)
	}

	if _, err := domain.ParseLanguage(c.Storage.DefaultTargetLanguage); err != nil {
		return fmt.Errorf("default_target_language: %w", err)
	}

	if c.Review.QuizDistractors <= 0 {
		return fmt.Errorf("review.quiz_distractors must be > 0 (got %d)", c.Review.QuizDistractors)
	}
	if c.Review.QuizParallelism <= 0 {
		return fmt.Errorf("review.quiz_parallelism must be > 0 (got %d)", c.Review.QuizParallelism)
	}

	return nil
}
