package types

// Game is one entry of a platform's gamelist. Path is the only field that
// is always present; every descriptive field is optional and nil means the
// metadata is simply absent, which is not the same thing as an empty string.
// Favorite, KidGame and Hidden are owned by the user: the scraper never
// writes them.
type Game struct {
	ID     *string `json:"id,omitempty"`
	Source *string `json:"source,omitempty"` // provenance of the metadata, e.g. "ScreenScraper.fr"

	Path string `json:"path"` // relative, remote-separator form

	Name        *string `json:"name,omitempty"`
	Description *string `json:"desc,omitempty"`
	Rating      *string `json:"rating,omitempty"`
	ReleaseDate *string `json:"releasedate,omitempty"`
	Developer   *string `json:"developer,omitempty"`
	Publisher   *string `json:"publisher,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Players     *string `json:"players,omitempty"`
	Image       *string `json:"image,omitempty"`
	Marquee     *string `json:"marquee,omitempty"`
	Video       *string `json:"video,omitempty"`
	GenreID     *string `json:"genreid,omitempty"`

	Favorite *bool `json:"favorite,omitempty"`
	KidGame  *bool `json:"kidgame,omitempty"`
	Hidden   *bool `json:"hidden,omitempty"`
}

// SameGame reports whether two entries identify the same game: by ID when
// both carry one, by path otherwise.
func (g Game) SameGame(other Game) bool {
	if g.ID != nil && other.ID != nil {
		return *g.ID == *other.ID
	}
	return g.Path == other.Path
}

// DisplayName returns the name when set and the raw path otherwise.
func (g Game) DisplayName() string {
	if g.Name != nil && *g.Name != "" {
		return *g.Name
	}
	return g.Path
}
