package types

// AppConfig holds all application settings
type AppConfig struct {
	Sources         []Source `json:"sources"`          // Configured share endpoints
	ScreenScraperID string   `json:"screenscraper_id"` // Optional end-user account login
	ScreenScraperPW string   `json:"screenscraper_pw"` // Optional end-user account password
	Language        string   `json:"language"`         // Preferred language for scraped text ("en", "fr", ...)
	StagingPath     string   `json:"staging_path"`     // Where transfers stage files locally
}
