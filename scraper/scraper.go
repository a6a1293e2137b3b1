// Package scraper looks up authoritative game metadata from the online
// provider and merges it into existing gamelist entries without destroying
// user edits.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"go-gamelist-sync/rompack"
	"go-gamelist-sync/share"
	"go-gamelist-sync/types"
	"go-gamelist-sync/utils"
)

// ErrUnknownSystem means the provider's registry has no system matching
// the platform's identifier; nothing on that platform can be scraped.
var ErrUnknownSystem = errors.New("scraper: system not known to provider")

// LookupProvider defines the provider API interactions needed for scraping.
type LookupProvider interface {
	GetSystems(ctx context.Context) ([]System, error)
	GetGameInfo(ctx context.Context, crc uint32, systemID int, romName string, romSize int64) (*GameInfo, error)
}

// StoreProvider defines the remote library interactions needed for scraping.
type StoreProvider interface {
	FileSize(path string) (int64, error)
	FileCRC(path string) (uint32, error)
	OpenRead(path string) (share.File, error)
}

// Scraper scrapes games of one source through its store.
type Scraper struct {
	client   LookupProvider
	store    StoreProvider
	language string
	log      zerolog.Logger

	mu      sync.Mutex
	systems []System
}

// New creates a scraper. language is the user's preferred language for
// localized text; blank falls back to the default.
func New(client LookupProvider, store StoreProvider, language string, log zerolog.Logger) *Scraper {
	return &Scraper{
		client:   client,
		store:    store,
		language: language,
		log:      log.With().Str("component", "scraper").Logger(),
	}
}

// SetLanguage changes the preferred language for localized text.
func (s *Scraper) SetLanguage(language string) {
	s.language = language
}

// ScrapGame looks up one game and merges the result. The returned error is
// non-nil only for platform-level failures (unresolvable system); per-game
// lookup outcomes are always expressed through the result status.
func (s *Scraper) ScrapGame(ctx context.Context, game types.Game, platform types.Platform) (types.ScrapResult, error) {
	systemID, err := s.systemID(ctx, platform.System)
	if err != nil {
		return types.ScrapResult{}, err
	}

	romName := utils.RemoteBase(game.Path)
	remotePath := utils.RemoteJoin(utils.RemoteDir(platform.GamelistPath), game.Path)

	size, err := s.store.FileSize(remotePath)
	if err != nil {
		s.log.Warn().Str("game", romName).Err(err).Msg("cannot size remote file, skipping lookup")
		return s.transportFailure(game, romName), nil
	}

	crc, err := s.romCRC(remotePath, romName, size)
	if err != nil {
		s.log.Warn().Str("game", romName).Err(err).Msg("cannot checksum remote file, skipping lookup")
		return s.transportFailure(game, romName), nil
	}

	info, err := s.client.GetGameInfo(ctx, crc, systemID, romName, size)
	switch {
	case errors.Is(err, ErrRateLimited):
		return types.ScrapResult{Game: game, Status: types.ScrapTooManyRequests}, nil
	case errors.Is(err, ErrBadCRC):
		return types.ScrapResult{Game: game, Status: types.ScrapBadCRC}, nil
	case errors.Is(err, ErrUnknownGame):
		return types.ScrapResult{Game: minimalGame(game), Status: types.ScrapUnknownGame}, nil
	case err != nil:
		s.log.Warn().Str("game", romName).Err(err).Msg("lookup transport failure")
		return s.transportFailure(game, romName), nil
	}

	merged := mergeGame(game, info, romName, crc, s.language)
	return types.ScrapResult{Game: merged, Status: types.ScrapSuccess}, nil
}

// ScrapPlatform scrapes every game of the platform, never aborting on a
// per-game failure. It returns the updated platform plus the list of
// non-success outcomes for the user-facing summary.
func (s *Scraper) ScrapPlatform(ctx context.Context, platform types.Platform) (types.Platform, []types.ScrapFailure, error) {
	out := platform
	out.Games = make([]types.Game, len(platform.Games))
	copy(out.Games, platform.Games)

	var failures []types.ScrapFailure
	for i, game := range out.Games {
		result, err := s.ScrapGame(ctx, game, platform)
		if err != nil {
			return platform, nil, err
		}
		out.Games[i] = result.Game
		if result.Status != types.ScrapSuccess {
			failures = append(failures, types.ScrapFailure{
				GameName: game.DisplayName(),
				Status:   result.Status,
			})
		}
	}
	return out, failures, nil
}

// transportFailure implements the fail-soft rule: when the lookup itself
// could not run, guess UnknownGame only if the local name looks
// auto-generated (equals or contains the raw filename), otherwise keep the
// curated entry unchanged.
func (s *Scraper) transportFailure(game types.Game, romName string) types.ScrapResult {
	if nameLooksAutoGenerated(game, romName) {
		return types.ScrapResult{Game: minimalGame(game), Status: types.ScrapUnknownGame}
	}
	return types.ScrapResult{Game: game, Status: types.ScrapSuccess}
}

// romCRC prefers the inner-ROM checksum for archive-packaged games, since
// that is what the provider indexes; plain files stream through CRC-32.
func (s *Scraper) romCRC(remotePath, romName string, size int64) (uint32, error) {
	if rompack.IsArchive(romName) {
		f, err := s.store.OpenRead(remotePath)
		if err == nil {
			crc, innerErr := rompack.InnerCRC32(f, size, romName)
			_ = f.Close()
			if innerErr == nil {
				return crc, nil
			}
			s.log.Debug().Str("game", romName).Err(innerErr).Msg("archive inspection failed, falling back to file checksum")
		}
	}
	return s.store.FileCRC(remotePath)
}

// systemID resolves the platform's system identifier against the provider
// registry: first system whose alias list contains it.
func (s *Scraper) systemID(ctx context.Context, system string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.systems == nil {
		systems, err := s.client.GetSystems(ctx)
		if err != nil {
			return 0, fmt.Errorf("scraper: fetching system registry: %w", err)
		}
		s.systems = systems
	}

	needle := strings.ToLower(strings.TrimSpace(system))
	for _, sys := range s.systems {
		for _, alias := range sys.Aliases() {
			if alias == needle {
				return sys.ID, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSystem, system)
}

// minimalGame strips a game back to its path. The user-owned flags ride
// along so no scrape path can ever drop them.
func minimalGame(g types.Game) types.Game {
	return types.Game{
		Path:     g.Path,
		Favorite: g.Favorite,
		KidGame:  g.KidGame,
		Hidden:   g.Hidden,
	}
}

func nameLooksAutoGenerated(g types.Game, romName string) bool {
	if g.Name == nil || *g.Name == "" {
		return true
	}
	return *g.Name == romName || strings.Contains(*g.Name, romName)
}
