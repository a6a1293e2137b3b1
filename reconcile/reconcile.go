// Package reconcile diffs a platform's manifest against the files actually
// present in its remote directory. It is pure: the caller supplies the
// directory listing, so the logic is testable without any I/O.
package reconcile

import (
	"go-gamelist-sync/types"
	"go-gamelist-sync/utils"
)

// Clean returns a copy of the platform whose game list matches the actual
// files: manifest entries whose file is gone are dropped, files with no
// entry get a minimal synthesized one appended. Surviving entries keep
// their order and every field value; synthesized entries are appended in
// listing order with path "./<filename>" and nothing else set.
func Clean(p types.Platform, actualFileNames []string) types.Platform {
	present := make(map[string]bool, len(actualFileNames))
	for _, name := range actualFileNames {
		present[name] = true
	}

	matched := make(map[string]bool, len(p.Games))
	kept := make([]types.Game, 0, len(actualFileNames))
	for _, game := range p.Games {
		base := utils.RemoteBase(game.Path)
		if present[base] {
			kept = append(kept, game)
			matched[base] = true
		}
	}

	for _, name := range actualFileNames {
		if !matched[name] {
			kept = append(kept, types.Game{Path: "./" + name})
		}
	}

	out := p
	out.Games = kept
	return out
}
