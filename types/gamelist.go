package types

// ProviderInfo describes where a gamelist's metadata came from. It mirrors
// the <provider> block of gamelist.xml.
type ProviderInfo struct {
	System     string `json:"system"`
	Software   string `json:"software,omitempty"`
	Database   string `json:"database,omitempty"`
	Web        string `json:"web,omitempty"`
	Extensions string `json:"extensions,omitempty"` // space-separated list, as written by scrapers
}

// GameList is the wire-format envelope exchanged with the gamelist codec:
// one provider record plus the ordered list of games.
type GameList struct {
	Provider *ProviderInfo `json:"provider,omitempty"`
	Games    []Game        `json:"games"`
}
