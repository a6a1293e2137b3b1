package types

// Source describes a remote share endpoint holding a game library.
// Sources are value types: two sources are the same endpoint when all
// fields match. They are configured ahead of time and never mutated.
type Source struct {
	Name     string `json:"name"`     // Display label ("NAS", "Recalbox", ...)
	Host     string `json:"host"`     // IP address or hostname of the share server
	Share    string `json:"share"`    // Share name on the server ("roms")
	Login    string `json:"login"`    // Account used to authenticate
	Password string `json:"password"` // Password for the account
}

// Equals reports whether s and other describe the same endpoint with the
// same credentials.
func (s Source) Equals(other Source) bool {
	return s == other
}
