package scraper

import (
	"bytes"
	"strings"
)

// The provider's JSON is loose about types: booleans arrive as true,
// "true" or "1" depending on the endpoint. flexBool accepts all of them.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.ToLower(string(bytes.Trim(data, `"`)))
	*b = flexBool(s == "true" || s == "1")
	return nil
}

// System is one entry of the provider's system registry.
type System struct {
	ID    int         `json:"id"`
	Names SystemNames `json:"noms"`
}

// SystemNames carries the regional names plus a comma-separated list of
// common aliases.
type SystemNames struct {
	EU     string `json:"nom_eu"`
	US     string `json:"nom_us"`
	Common string `json:"noms_commun"`
}

// Aliases returns every name the provider knows the system under,
// lowercased.
func (s System) Aliases() []string {
	var out []string
	for _, name := range []string{s.Names.EU, s.Names.US} {
		if name != "" {
			out = append(out, strings.ToLower(name))
		}
	}
	for _, alias := range strings.Split(s.Names.Common, ",") {
		alias = strings.TrimSpace(strings.ToLower(alias))
		if alias != "" {
			out = append(out, alias)
		}
	}
	return out
}

// RegionalText is one region-tagged variant of a text field.
type RegionalText struct {
	Region string `json:"region"`
	Text   string `json:"text"`
}

// LanguageText is one language-tagged variant of a text field.
type LanguageText struct {
	Language string `json:"langue"`
	Text     string `json:"text"`
}

// IDText is the provider's {id, text} pair.
type IDText struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Text wraps a bare {text} object.
type Text struct {
	Text string `json:"text"`
}

// Genre is one genre entry with its localized names.
type Genre struct {
	ID    string         `json:"id"`
	Names []LanguageText `json:"noms"`
}

// Media is one media entry (box art, screenshot, video, ...).
type Media struct {
	Type   string `json:"type"`
	Region string `json:"region"`
	URL    string `json:"url"`
	Format string `json:"format"`
}

// RomInfo is one entry of the rom registry attached to a game: the known
// dumps of it, keyed by checksum, with their regions.
type RomInfo struct {
	Filename string `json:"romfilename"`
	CRC      string `json:"romcrc"`
	Regions  string `json:"romregions"` // comma-separated, most relevant first
}

// GameInfo is the provider's record for one game.
type GameInfo struct {
	ID        string         `json:"id"`
	NotGame   flexBool       `json:"notgame"`
	Names     []RegionalText `json:"noms"`
	Synopsis  []LanguageText `json:"synopsis"`
	Dates     []RegionalText `json:"dates"`
	Developer IDText         `json:"developpeur"`
	Publisher IDText         `json:"editeur"`
	Genres    []Genre        `json:"genres"`
	Players   Text           `json:"joueurs"`
	Rating    Text           `json:"note"`
	Medias    []Media        `json:"medias"`
	Roms      []RomInfo      `json:"roms"`
}

type systemsResponse struct {
	Response struct {
		Systems []System `json:"systemes"`
	} `json:"response"`
}

type gameInfoResponse struct {
	Response struct {
		Game GameInfo `json:"jeu"`
	} `json:"response"`
}
