package constants

const (
	// Providers
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderLocal      = "local"

	// Default Settings Values
	DefaultProvider = ProviderOpenRouter
	DefaultModel    = "anthropic/claude-3-haiku"
	DefaultTimezone = "Local"

	DefaultOpenRouterURL = "https://openrouter.ai/api/v1"
	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultReferer       = "https://localhost:3000"

	// Environment variables
	EnvAPIKey        = "COMPANION_API_KEY"
	EnvDefaultAPIKey = "COMPANION_DEFAULT_API_KEY"
	EnvConfig        = "COMPANION_CONFIG"
)
