// Package systems carries the static registry of known gaming systems:
// the ROM file extensions each one uses, and the aliases under which the
// metadata provider knows it. Used when a platform's manifest does not
// declare its own extension list.
package systems

import "strings"

// Def describes one known system.
type Def struct {
	Name       string   // Display name
	Extensions []string // Recognized ROM extensions, lowercase with dot
	Aliases    []string // Alternative identifiers seen in the wild
}

var table = map[string]Def{
	// Nintendo
	"nes":        {Name: "NES", Extensions: []string{".nes", ".fds", ".zip"}, Aliases: []string{"famicom", "nintendo"}},
	"snes":       {Name: "SNES", Extensions: []string{".sfc", ".smc", ".zip"}, Aliases: []string{"superfamicom", "supernintendo"}},
	"n64":        {Name: "Nintendo 64", Extensions: []string{".z64", ".n64", ".v64", ".zip"}, Aliases: []string{"nintendo64"}},
	"gb":         {Name: "Game Boy", Extensions: []string{".gb", ".zip"}, Aliases: []string{"gameboy"}},
	"gbc":        {Name: "Game Boy Color", Extensions: []string{".gbc", ".zip"}, Aliases: []string{"gameboycolor"}},
	"gba":        {Name: "Game Boy Advance", Extensions: []string{".gba", ".zip"}, Aliases: []string{"gameboyadvance"}},
	"nds":        {Name: "Nintendo DS", Extensions: []string{".nds", ".zip"}, Aliases: []string{"nintendods"}},
	"virtualboy": {Name: "Virtual Boy", Extensions: []string{".vb", ".zip"}},

	// Sega
	"megadrive":    {Name: "Megadrive", Extensions: []string{".md", ".smd", ".gen", ".bin", ".zip"}, Aliases: []string{"genesis"}},
	"mastersystem": {Name: "Master System", Extensions: []string{".sms", ".zip"}},
	"gamegear":     {Name: "Game Gear", Extensions: []string{".gg", ".zip"}},
	"sega32x":      {Name: "Sega 32X", Extensions: []string{".32x", ".zip"}, Aliases: []string{"32x"}},
	"segacd":       {Name: "Sega CD", Extensions: []string{".cue", ".iso", ".chd"}, Aliases: []string{"megacd"}},
	"saturn":       {Name: "Saturn", Extensions: []string{".cue", ".iso", ".chd"}},
	"dreamcast":    {Name: "Dreamcast", Extensions: []string{".gdi", ".cdi", ".chd"}},

	// Sony
	"psx": {Name: "PlayStation", Extensions: []string{".cue", ".bin", ".iso", ".chd", ".pbp"}, Aliases: []string{"playstation", "ps1"}},
	"psp": {Name: "PSP", Extensions: []string{".iso", ".cso"}},

	// Atari
	"atari2600": {Name: "Atari 2600", Extensions: []string{".a26", ".bin", ".zip"}},
	"atari5200": {Name: "Atari 5200", Extensions: []string{".a52", ".zip"}},
	"atari7800": {Name: "Atari 7800", Extensions: []string{".a78", ".zip"}},
	"lynx":      {Name: "Lynx", Extensions: []string{".lnx", ".zip"}},
	"jaguar":    {Name: "Jaguar", Extensions: []string{".jag", ".j64", ".zip"}},

	// NEC / SNK
	"pcengine": {Name: "PC Engine", Extensions: []string{".pce", ".zip"}, Aliases: []string{"turbografx16"}},
	"neogeo":   {Name: "Neo Geo", Extensions: []string{".zip", ".7z"}},
	"ngp":      {Name: "Neo Geo Pocket", Extensions: []string{".ngp", ".ngc", ".zip"}},

	// Arcade & computers
	"mame":     {Name: "MAME", Extensions: []string{".zip", ".7z"}, Aliases: []string{"arcade", "fba"}},
	"c64":      {Name: "Commodore 64", Extensions: []string{".d64", ".prg", ".t64", ".zip"}},
	"amiga":    {Name: "Amiga", Extensions: []string{".adf", ".ipf", ".zip"}},
	"atarist":  {Name: "Atari ST", Extensions: []string{".st", ".msa", ".zip"}},
	"zxspectrum": {Name: "ZX Spectrum", Extensions: []string{".z80", ".tap", ".tzx", ".zip"}},
	"msx":      {Name: "MSX", Extensions: []string{".rom", ".mx1", ".mx2", ".zip"}},
	"dos":      {Name: "DOS", Extensions: []string{".zip", ".dosz"}},
}

// Lookup resolves a system identifier or alias, case-insensitively.
func Lookup(system string) (Def, bool) {
	key := strings.ToLower(strings.TrimSpace(system))
	if def, ok := table[key]; ok {
		return def, true
	}
	for _, def := range table {
		for _, alias := range def.Aliases {
			if alias == key {
				return def, true
			}
		}
	}
	return Def{}, false
}

// Extensions returns the recognized extensions for a system, or nil when
// the system is unknown.
func Extensions(system string) []string {
	def, ok := Lookup(system)
	if !ok {
		return nil
	}
	out := make([]string, len(def.Extensions))
	copy(out, def.Extensions)
	return out
}
