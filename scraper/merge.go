package scraper

import (
	"fmt"
	"strconv"
	"strings"

	"go-gamelist-sync/constants"
	"go-gamelist-sync/types"
	"go-gamelist-sync/utils"
)

// mergeGame folds a provider record into an existing game. Every
// descriptive field takes the scraped value when present and keeps the
// local one otherwise; a present local field is never replaced by an
// absent scraped one. Favorite, KidGame and Hidden belong to the user and
// pass through untouched.
func mergeGame(existing types.Game, info *GameInfo, romName string, crc uint32, language string) types.Game {
	regions := resolveRegions(info, crc, romName)

	out := existing
	out.ID = takeString(info.ID, out.ID)
	out.Source = takeString(constants.ScreenScraperSource, out.Source)

	if name := pickRegionText(info.Names, regions); name != nil {
		out.Name = name
	}
	if desc := pickLanguageText(info.Synopsis, language); desc != nil {
		out.Description = desc
	}
	if date := pickRegionText(info.Dates, regions); date != nil {
		if t, err := utils.ParseScrapeDate(*date); err == nil {
			formatted := utils.FormatReleaseDate(t)
			out.ReleaseDate = &formatted
		}
	}
	out.Developer = takeString(info.Developer.Text, out.Developer)
	out.Publisher = takeString(info.Publisher.Text, out.Publisher)
	out.Players = takeString(info.Players.Text, out.Players)
	out.Rating = takeString(normalizeRating(info.Rating.Text), out.Rating)

	if len(info.Genres) > 0 {
		first := info.Genres[0]
		out.GenreID = takeString(first.ID, out.GenreID)
		if genre := pickLanguageText(first.Names, language); genre != nil {
			out.Genre = genre
		}
	}

	if image := pickBoxArt(info.Medias, regions); image != nil {
		out.Image = image
	}

	return out
}

// takeString prefers a non-empty scraped value over the local one.
func takeString(scraped string, local *string) *string {
	if scraped != "" {
		return &scraped
	}
	return local
}

// resolveRegions returns the region list of the rom-registry entry
// matching this file: by CRC first, by bare filename second. No entry
// means no region-tagged field can be resolved.
func resolveRegions(info *GameInfo, crc uint32, romName string) []string {
	hexCRC := fmt.Sprintf("%08X", crc)
	var byName *RomInfo
	for i := range info.Roms {
		rom := &info.Roms[i]
		if strings.EqualFold(rom.CRC, hexCRC) {
			return splitRegions(rom.Regions)
		}
		if byName == nil && strings.EqualFold(rom.Filename, romName) {
			byName = rom
		}
	}
	if byName != nil {
		return splitRegions(byName.Regions)
	}
	return nil
}

func splitRegions(s string) []string {
	var out []string
	for _, region := range strings.Split(s, ",") {
		region = strings.TrimSpace(strings.ToLower(region))
		if region != "" {
			out = append(out, region)
		}
	}
	return out
}

// pickRegionText selects among region-tagged variants: first the one
// matching the primary region, then the first whose region appears
// anywhere in the list, else none.
func pickRegionText(list []RegionalText, regions []string) *string {
	if len(list) == 0 || len(regions) == 0 {
		return nil
	}

	for _, entry := range list {
		if strings.EqualFold(entry.Region, regions[0]) && entry.Text != "" {
			text := entry.Text
			return &text
		}
	}

	member := make(map[string]bool, len(regions))
	for _, r := range regions {
		member[r] = true
	}
	for _, entry := range list {
		if member[strings.ToLower(entry.Region)] && entry.Text != "" {
			text := entry.Text
			return &text
		}
	}
	return nil
}

// pickLanguageText selects among language-tagged variants: the user's
// language, then the default language, then the first available.
func pickLanguageText(list []LanguageText, language string) *string {
	if len(list) == 0 {
		return nil
	}

	for _, lang := range []string{language, constants.DefaultLanguage} {
		if lang == "" {
			continue
		}
		for _, entry := range list {
			if strings.EqualFold(entry.Language, lang) && entry.Text != "" {
				text := entry.Text
				return &text
			}
		}
	}

	if list[0].Text != "" {
		text := list[0].Text
		return &text
	}
	return nil
}

// pickBoxArt selects the 2D box art: a sole candidate wins outright,
// multiple candidates disambiguate by the region rule.
func pickBoxArt(medias []Media, regions []string) *string {
	var candidates []RegionalText
	for _, media := range medias {
		if media.Type == constants.MediaBox2D && media.URL != "" {
			candidates = append(candidates, RegionalText{Region: media.Region, Text: media.URL})
		}
	}

	switch len(candidates) {
	case 0:
		return nil
	case 1:
		url := candidates[0].Text
		return &url
	default:
		return pickRegionText(candidates, regions)
	}
}

// normalizeRating converts the provider's 0-20 scale to the manifest's
// 0-1 scale, two decimals. Empty or unparseable input yields empty.
func normalizeRating(raw string) string {
	if raw == "" {
		return ""
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return ""
	}
	normalized := score / 20
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}
	return fmt.Sprintf("%.2f", normalized)
}
