package identitytoolkit

import "time"

const DefaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Config represents the configuration for the Identity Toolkit client
type Config struct {
	// APIKey is the web API key of the Firebase project
	APIKey string

	// BaseURL is the REST endpoint, overridable for the auth emulator and tests
	BaseURL string

	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrInvalidConfig
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	return nil
}
