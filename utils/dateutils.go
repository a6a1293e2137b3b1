package utils

import (
	"fmt"
	"time"
)

// ParseScrapeDate attempts to parse a release date string as returned by
// metadata providers, which use anything from a full date down to a bare
// year depending on what their database holds.
func ParseScrapeDate(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"2006-01",
		"2006",
		"02/01/2006",
		time.RFC3339,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("failed to parse release date %q with any supported format", s)
}

// FormatReleaseDate renders a time in the gamelist releasedate form
// consumed by EmulationStation-style front-ends.
func FormatReleaseDate(t time.Time) string {
	return t.Format("20060102") + "T000000"
}
