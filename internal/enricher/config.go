package enricher

// Config holds tuning knobs for the enrichment pipeline.
type Config struct {
	// MaxChainsPerSense caps link chain variations per (sense, target
	// language). Non-forced runs only request the shortfall up to this cap.
	MaxChainsPerSense int

	// Sampling temperatures per call kind. Chains run hot on purpose:
	// mnemonic stories benefit from variety.
	CoreTemperature  float64
	SenseTemperature float64
	ChainTemperature float64
}

// DefaultConfig returns the standard pipeline settings.
func DefaultConfig() Config {
	return Config{
		MaxChainsPerSense: 2,
		CoreTemperature:   0.3,
		SenseTemperature:  0.4,
		ChainTemperature:  0.7,
	}
}

func (c Config) normalized() Config {
	if c.MaxChainsPerSense <= 0 {
		c.MaxChainsPerSense = 2
	}
	if c.CoreTemperature <= 0 {
		c.CoreTemperature = 0.3
	}
	if c.SenseTemperature <= 0 {
		c.SenseTemperature = 0.4
	}
	if c.ChainTemperature <= 0 {
		c.ChainTemperature = 0.7
	}
	return c
}
