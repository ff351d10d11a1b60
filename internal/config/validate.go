package config

import (
	"fmt"
	"slices"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	providers := c.LLM.AvailableProviders()
	if len(providers) == 0 {
		return fmt.Errorf("at least one LLM provider must be configured (ANTHROPIC_API_KEY or DEEPSEEK_API_KEY)")
	}
	if !slices.Contains(providers, c.LLM.DefaultProvider) {
		return fmt.Errorf("llm.default_provider %q has no credentials configured", c.LLM.DefaultProvider)
	}

	if c.LLM.MaxAttempts < 1 {
		return fmt.Errorf("llm.max_attempts must be >= 1 (got %d)", c.LLM.MaxAttempts)
	}
	if c.LLM.RetryMultiplier < 1.0 {
		return fmt.Errorf("llm.retry_multiplier must be >= 1.0 (got %v)", c.LLM.RetryMultiplier)
	}

	if err := c.Enrichment.validate(); err != nil {
		return fmt.Errorf("enrichment: %w", err)
	}

	return nil
}

func (e *EnrichmentConfig) validate() error {
	if e.MaxChainsPerSense < 1 {
		return fmt.Errorf("max_chains_per_sense must be >= 1 (got %d)", e.MaxChainsPerSense)
	}
	for name, t := range map[string]float64{
		"core_temperature":  e.CoreTemperature,
		"sense_temperature": e.SenseTemperature,
		"chain_temperature": e.ChainTemperature,
	} {
		if t < 0 || t > 2 {
			return fmt.Errorf("%s must be in [0, 2] (got %v)", name, t)
		}
	}
	return nil
}
