// Package gamelist maps the domain GameList model to and from the
// gamelist.xml format consumed by EmulationStation-style front-ends.
//
// The format is picky about placement: game id, game source and the
// provider System must serialize as attributes, because that is what the
// third-party front-ends write and expect back. Decoding is lenient and
// accepts every field in either attribute or element position; any missing
// optional field decodes as absent, never as an error.
package gamelist

import (
	"encoding/xml"
	"errors"
	"fmt"

	"go-gamelist-sync/types"
)

// ErrParse reports a document that could not be decoded at all: empty
// input, non-XML input, or a foreign root element.
var ErrParse = errors.New("gamelist: malformed document")

type xmlProvider struct {
	SystemAttr     string `xml:"System,attr,omitempty"`
	System         string `xml:"System,omitempty"`
	SoftwareAttr   string `xml:"software,attr,omitempty"`
	Software       string `xml:"software,omitempty"`
	DatabaseAttr   string `xml:"database,attr,omitempty"`
	Database       string `xml:"database,omitempty"`
	WebAttr        string `xml:"web,attr,omitempty"`
	Web            string `xml:"web,omitempty"`
	ExtensionsAttr string `xml:"extensions,attr,omitempty"`
	Extensions     string `xml:"extensions,omitempty"`
}

type xmlGame struct {
	IDAttr     string  `xml:"id,attr,omitempty"`
	IDElem     *string `xml:"id,omitempty"`
	SourceAttr string  `xml:"source,attr,omitempty"`
	SourceElem *string `xml:"source,omitempty"`

	Path        string  `xml:"path"`
	Name        *string `xml:"name,omitempty"`
	Description *string `xml:"desc,omitempty"`
	Rating      *string `xml:"rating,omitempty"`
	ReleaseDate *string `xml:"releasedate,omitempty"`
	Developer   *string `xml:"developer,omitempty"`
	Publisher   *string `xml:"publisher,omitempty"`
	Genre       *string `xml:"genre,omitempty"`
	Players     *string `xml:"players,omitempty"`
	Image       *string `xml:"image,omitempty"`
	Marquee     *string `xml:"marquee,omitempty"`
	Video       *string `xml:"video,omitempty"`
	GenreID     *string `xml:"genreid,omitempty"`
	Favorite    *bool   `xml:"favorite,omitempty"`
	KidGame     *bool   `xml:"kidgame,omitempty"`
	Hidden      *bool   `xml:"hidden,omitempty"`
}

type xmlGameList struct {
	XMLName  xml.Name     `xml:"gameList"`
	Provider *xmlProvider `xml:"provider,omitempty"`
	Games    []xmlGame    `xml:"game"`
}

// Decode parses gamelist.xml bytes into the domain envelope.
func Decode(data []byte) (*types.GameList, error) {
	var doc xmlGameList
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	out := &types.GameList{}
	if doc.Provider != nil {
		out.Provider = &types.ProviderInfo{
			System:     coalesce(doc.Provider.SystemAttr, doc.Provider.System),
			Software:   coalesce(doc.Provider.SoftwareAttr, doc.Provider.Software),
			Database:   coalesce(doc.Provider.DatabaseAttr, doc.Provider.Database),
			Web:        coalesce(doc.Provider.WebAttr, doc.Provider.Web),
			Extensions: coalesce(doc.Provider.ExtensionsAttr, doc.Provider.Extensions),
		}
	}

	out.Games = make([]types.Game, 0, len(doc.Games))
	for _, g := range doc.Games {
		out.Games = append(out.Games, types.Game{
			ID:          coalescePtr(g.IDAttr, g.IDElem),
			Source:      coalescePtr(g.SourceAttr, g.SourceElem),
			Path:        g.Path,
			Name:        g.Name,
			Description: g.Description,
			Rating:      g.Rating,
			ReleaseDate: g.ReleaseDate,
			Developer:   g.Developer,
			Publisher:   g.Publisher,
			Genre:       g.Genre,
			Players:     g.Players,
			Image:       g.Image,
			Marquee:     g.Marquee,
			Video:       g.Video,
			GenreID:     g.GenreID,
			Favorite:    g.Favorite,
			KidGame:     g.KidGame,
			Hidden:      g.Hidden,
		})
	}
	return out, nil
}

// Encode renders the envelope as gamelist.xml bytes, forcing id, source and
// System into attribute position.
func Encode(list *types.GameList) ([]byte, error) {
	doc := xmlGameList{}
	if list.Provider != nil {
		doc.Provider = &xmlProvider{
			SystemAttr: list.Provider.System,
			Software:   list.Provider.Software,
			Database:   list.Provider.Database,
			Web:        list.Provider.Web,
			Extensions: list.Provider.Extensions,
		}
	}

	doc.Games = make([]xmlGame, 0, len(list.Games))
	for _, g := range list.Games {
		wire := xmlGame{
			Path:        g.Path,
			Name:        g.Name,
			Description: g.Description,
			Rating:      g.Rating,
			ReleaseDate: g.ReleaseDate,
			Developer:   g.Developer,
			Publisher:   g.Publisher,
			Genre:       g.Genre,
			Players:     g.Players,
			Image:       g.Image,
			Marquee:     g.Marquee,
			Video:       g.Video,
			GenreID:     g.GenreID,
			Favorite:    g.Favorite,
			KidGame:     g.KidGame,
			Hidden:      g.Hidden,
		}
		if g.ID != nil {
			wire.IDAttr = *g.ID
		}
		if g.Source != nil {
			wire.SourceAttr = *g.Source
		}
		doc.Games = append(doc.Games, wire)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("gamelist: encode failed: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

func coalesce(attr, elem string) string {
	if attr != "" {
		return attr
	}
	return elem
}

func coalescePtr(attr string, elem *string) *string {
	if attr != "" {
		return &attr
	}
	return elem
}
