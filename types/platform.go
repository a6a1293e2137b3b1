package types

// Platform is one gaming system's library as read from a remote share.
// Two platforms are the same library when their gamelist paths match; the
// rest of the fields are display data. Platforms are exchanged by value:
// callers mutate a copy and hand it back to the store, which re-reads the
// authoritative version after every save.
type Platform struct {
	Name         string   `json:"name"`          // Display name, usually the provider System
	System       string   `json:"system"`        // System identifier ("megadrive", "snes", ...)
	GamelistPath string   `json:"gamelist_path"` // Remote path of gamelist.xml, backslash form
	Extensions   []string `json:"extensions"`    // Recognized ROM file extensions, lowercase with dot
	Games        []Game   `json:"games"`
	BackupGames  []Game   `json:"backup_games,omitempty"` // From gamelist.backup.xml, read-only reference
}

// SamePlatform reports whether p and other refer to the same remote library.
func (p Platform) SamePlatform(other Platform) bool {
	return p.GamelistPath == other.GamelistPath
}

// HasExtension reports whether name ends with one of the platform's
// recognized extensions. The comparison is case-insensitive on the caller's
// side: extensions are stored lowercase.
func (p Platform) HasExtension(ext string) bool {
	for _, e := range p.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
