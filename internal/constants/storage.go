package constants

const (
	// KeyPrefix namespaces every persisted key.
	KeyPrefix = "daily-companion-"

	KeyMessages       = KeyPrefix + "messages"
	KeyUserStats      = KeyPrefix + "stats"
	KeyDailyChallenge = KeyPrefix + "challenge"
	KeyAPIKey         = KeyPrefix + "api-key"
	KeyAPIKeyPrompted = KeyPrefix + "api-key-prompted"
	KeySettings       = KeyPrefix + "settings"

	// MemoryStorePath selects the in-memory provider.
	MemoryStorePath = ":memory:"
)
