package config

// applyTierDefaults applies global AI defaults to a tier configuration
func (c *Config) applyTierDefaults(tierCfg *TierAIConfig) {
	if tierCfg.APIKey == "" {
		tierCfg.APIKey = c.AI.APIKey
	}
	if tierCfg.Timeout == nil {
		tierCfg.Timeout = &c.AI.Timeout
	}
}

// GetFastConfig returns the AI configuration for the fast tier with fallback to global config.
// The fast tier serves extraction, fit analysis, quiz generation and quiz evaluation.
func (c *Config) GetFastConfig() TierAIConfig {
	config := c.AI.Fast
	c.applyTierDefaults(&config)
	return config
}

// GetStrongConfig returns the AI configuration for the strong tier with fallback to global config.
// The strong tier serves CV and cover letter generation and refinement.
func (c *Config) GetStrongConfig() TierAIConfig {
	config := c.AI.Strong
	c.applyTierDefaults(&config)
	return config
}
