package models

// DailyChallenge is the prompt-of-the-day. Completed only ever goes from false to true.
type DailyChallenge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	XPReward    int    `json:"xpReward"`
	Completed   bool   `json:"completed"`
	Date        string `json:"date"` // YYYY-MM-DD format
}
