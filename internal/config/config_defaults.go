package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.timeout", 60*time.Second)

	// Fast tier: extraction, scoring and quiz work
	v.SetDefault("ai.fast.model", "gemini-2.0-flash-lite")
	v.SetDefault("ai.fast.apiKey", "")
	v.SetDefault("ai.fast.timeout", 45*time.Second)
	v.SetDefault("ai.fast.temperature", 0.3)

	// Strong tier: document generation
	v.SetDefault("ai.strong.model", "gemini-2.5-pro")
	v.SetDefault("ai.strong.apiKey", "")
	v.SetDefault("ai.strong.timeout", 90*time.Second) // Longer timeout for long-form output
	v.SetDefault("ai.strong.temperature", 0.6)

	// Circuit breaker defaults per tier
	for _, tier := range []string{"fast", "strong"} {
		v.SetDefault("ai."+tier+".circuitBreaker.enabled", true)
		v.SetDefault("ai."+tier+".circuitBreaker.maxRequests", 3)
		v.SetDefault("ai."+tier+".circuitBreaker.interval", 60*time.Second)
		v.SetDefault("ai."+tier+".circuitBreaker.timeout", 60*time.Second)
		v.SetDefault("ai."+tier+".circuitBreaker.minRequests", 3)
		v.SetDefault("ai."+tier+".circuitBreaker.failureThreshold", 0.6)
	}

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 120*time.Second) // Generation calls can be slow
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.apiKeys", []string{})

	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.documentFormat", "structured")
	v.SetDefault("app.maxRequestSize", 1024*1024) // 1MB
	v.SetDefault("app.persistedTextLimit", 10000)

	// Database Configuration
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "careerforge")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "careerforge")
	v.SetDefault("database.sslMode", "disable")

	// Prompt store
	v.SetDefault("prompts.file", "")
	v.SetDefault("prompts.watch", false)

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")

	// Observability
	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.serviceName", "careerforge")
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 30*time.Second)
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", false)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.healthCheck.timeout", 10*time.Second)
	v.SetDefault("observability.healthCheck.aiModelCheckTimeout", 10*time.Second)
}
