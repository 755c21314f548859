package models

import "github.com/julianstephens/companion/internal/constants"

type Settings struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Timezone string `json:"timezone"`
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{
		Provider: constants.DefaultProvider,
		Model:    constants.DefaultModel,
		Timezone: constants.DefaultTimezone,
	}
}

// WithDefaults fills empty fields from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.Provider == "" {
		s.Provider = d.Provider
	}
	if s.Model == "" {
		s.Model = d.Model
	}
	if s.Timezone == "" {
		s.Timezone = d.Timezone
	}
	return s
}
