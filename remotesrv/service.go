// Package remotesrv is the service layer the UI binds: it drives the
// remote library store, the reconciliation engine, the scraper and the
// transfer engine against the active source.
package remotesrv

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"go-gamelist-sync/constants"
	"go-gamelist-sync/imagecache"
	"go-gamelist-sync/reconcile"
	"go-gamelist-sync/share"
	"go-gamelist-sync/transfer"
	"go-gamelist-sync/types"
	"go-gamelist-sync/utils"
	"go-gamelist-sync/utils/fileio"
)

// ErrPlatformGone is returned when a just-saved platform cannot be found
// on re-read, which means the share changed underneath the operation.
var ErrPlatformGone = errors.New("remotesrv: platform disappeared after save")

// LibraryStore defines the remote library interactions the service drives.
// One store equals one share session; the service serializes access to it.
type LibraryStore interface {
	Open(src types.Source) error
	Close() error
	Source() *types.Source
	GetPlatforms() ([]types.Platform, error)
	SavePlatform(p types.Platform) error
	GameNames(p types.Platform) ([]string, error)
	FileSize(path string) (int64, error)
	FileCRC(path string) (uint32, error)
	OpenRead(path string) (share.File, error)
	OpenWrite(path string) (share.File, error)
}

// Scraper defines the metadata lookup interactions needed by the service.
type Scraper interface {
	ScrapGame(ctx context.Context, game types.Game, platform types.Platform) (types.ScrapResult, error)
	ScrapPlatform(ctx context.Context, platform types.Platform) (types.Platform, []types.ScrapFailure, error)
}

// CopyEngine defines the cross-source transfer interaction.
type CopyEngine interface {
	CopyGame(game types.Game, srcPlatform types.Platform, src, dest transfer.Store) error
}

// UIProvider defines event emission toward the UI.
type UIProvider interface {
	EventsEmit(eventName string, args ...interface{})
}

// Covers is the image cache slice used for box art.
type Covers interface {
	Get(key string, fetch func() ([]byte, error)) (string, error)
}

// Service handles all remote library operations for the active source.
type Service struct {
	store    LibraryStore
	newStore func() LibraryStore // fresh stores for transfer destinations
	scraper  Scraper
	engine   CopyEngine
	covers   Covers
	ui       UIProvider
	log      zerolog.Logger
}

// New creates the remote library service.
func New(store LibraryStore, newStore func() LibraryStore, scraper Scraper, engine CopyEngine, covers Covers, ui UIProvider, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		newStore: newStore,
		scraper:  scraper,
		engine:   engine,
		covers:   covers,
		ui:       ui,
		log:      log.With().Str("component", "remotesrv").Logger(),
	}
}

// SelectSource activates a source, replacing any previously active one.
func (s *Service) SelectSource(src types.Source) error {
	if err := s.store.Open(src); err != nil {
		return err
	}
	if s.ui != nil {
		s.ui.EventsEmit(constants.EventSourceChanged, src.Name)
	}
	return nil
}

// CloseSource releases the active share session.
func (s *Service) CloseSource() error {
	return s.store.Close()
}

// ActiveSource returns the source currently in use, or nil.
func (s *Service) ActiveSource() *types.Source {
	return s.store.Source()
}

// GetPlatforms lists the platforms of the active source.
func (s *Service) GetPlatforms() ([]types.Platform, error) {
	if err := s.requireSource(); err != nil {
		return nil, err
	}
	return s.store.GetPlatforms()
}

// SetFavorite flips the favorite flag of one game and persists the
// platform. The returned platform is the authoritative re-read.
func (s *Service) SetFavorite(platform types.Platform, game types.Game, value bool) (types.Platform, error) {
	return s.setFlag(platform, game, func(g *types.Game) { g.Favorite = &value })
}

// SetKidGame flips the kidgame flag of one game and persists the platform.
func (s *Service) SetKidGame(platform types.Platform, game types.Game, value bool) (types.Platform, error) {
	return s.setFlag(platform, game, func(g *types.Game) { g.KidGame = &value })
}

// SetHidden flips the hidden flag of one game and persists the platform.
func (s *Service) SetHidden(platform types.Platform, game types.Game, value bool) (types.Platform, error) {
	return s.setFlag(platform, game, func(g *types.Game) { g.Hidden = &value })
}

func (s *Service) setFlag(platform types.Platform, game types.Game, mutate func(*types.Game)) (types.Platform, error) {
	if err := s.requireSource(); err != nil {
		return types.Platform{}, err
	}

	updated := platform
	updated.Games = make([]types.Game, len(platform.Games))
	copy(updated.Games, platform.Games)

	found := false
	for i := range updated.Games {
		if updated.Games[i].SameGame(game) {
			mutate(&updated.Games[i])
			found = true
			break
		}
	}
	if !found {
		return types.Platform{}, fmt.Errorf("remotesrv: game %s not in platform %s", game.DisplayName(), platform.Name)
	}

	return s.persistAndReload(updated)
}

// CleanPlatform reconciles the platform's manifest against the files
// actually present in its directory, persists the result and returns the
// authoritative re-read.
func (s *Service) CleanPlatform(platform types.Platform) (types.Platform, error) {
	if err := s.requireSource(); err != nil {
		return types.Platform{}, err
	}

	names, err := s.store.GameNames(platform)
	if err != nil {
		return types.Platform{}, err
	}

	cleaned := reconcile.Clean(platform, names)
	return s.persistAndReload(cleaned)
}

// ScrapPlatform scrapes every game of the platform, persists the merged
// manifest and returns the authoritative re-read plus the per-game
// failures for the summary dialog.
func (s *Service) ScrapPlatform(ctx context.Context, platform types.Platform) (types.Platform, []types.ScrapFailure, error) {
	if err := s.requireSource(); err != nil {
		return types.Platform{}, nil, err
	}

	scraped, failures, err := s.scraper.ScrapPlatform(ctx, platform)
	if err != nil {
		return types.Platform{}, nil, err
	}

	saved, err := s.persistAndReload(scraped)
	if err != nil {
		return types.Platform{}, nil, err
	}
	return saved, failures, nil
}

// ScrapGame scrapes a single game, folds the result into the platform and
// persists it. The scrape status rides along for the UI.
func (s *Service) ScrapGame(ctx context.Context, game types.Game, platform types.Platform) (types.Platform, types.ScrapResult, error) {
	if err := s.requireSource(); err != nil {
		return types.Platform{}, types.ScrapResult{}, err
	}

	result, err := s.scraper.ScrapGame(ctx, game, platform)
	if err != nil {
		return types.Platform{}, types.ScrapResult{}, err
	}

	updated := platform
	updated.Games = make([]types.Game, len(platform.Games))
	copy(updated.Games, platform.Games)
	for i := range updated.Games {
		if updated.Games[i].SameGame(game) {
			updated.Games[i] = result.Game
			break
		}
	}

	saved, err := s.persistAndReload(updated)
	if err != nil {
		return types.Platform{}, types.ScrapResult{}, err
	}
	return saved, result, nil
}

// CopyGame copies a game from the active source to another configured
// source, which must already hold the same platform. The destination store
// is opened for the duration of the copy only.
func (s *Service) CopyGame(game types.Game, srcPlatform types.Platform, destSource types.Source) error {
	if err := s.requireSource(); err != nil {
		return err
	}

	dest := s.newStore()
	if err := dest.Open(destSource); err != nil {
		return fmt.Errorf("remotesrv: opening destination source: %w", err)
	}
	defer fileio.Close(closerFunc(dest.Close), s.logf, "closing destination store")

	return s.engine.CopyGame(game, srcPlatform, s.store, dest)
}

// GetCover returns the base64 box art for a game, through the cache. A
// game without an image reference yields an empty string, not an error.
func (s *Service) GetCover(platform types.Platform, game types.Game) (string, error) {
	if err := s.requireSource(); err != nil {
		return "", err
	}
	if game.Image == nil || *game.Image == "" {
		return "", nil
	}

	src := s.store.Source()
	key := imagecache.Key(*src, platform, game.Path)
	return s.covers.Get(key, func() ([]byte, error) {
		remotePath := utils.RemoteJoin(utils.RemoteDir(platform.GamelistPath), *game.Image)
		f, err := s.store.OpenRead(remotePath)
		if err != nil {
			return nil, err
		}
		defer fileio.Close(f, s.logf, "closing remote image")
		return io.ReadAll(f)
	})
}

// persistAndReload saves the platform and re-reads the share so callers
// always hold the authoritative version, never their own mutated copy.
func (s *Service) persistAndReload(p types.Platform) (types.Platform, error) {
	if err := s.store.SavePlatform(p); err != nil {
		return types.Platform{}, err
	}

	platforms, err := s.store.GetPlatforms()
	if err != nil {
		return types.Platform{}, fmt.Errorf("remotesrv: re-reading platforms after save: %w", err)
	}
	for _, candidate := range platforms {
		if candidate.SamePlatform(p) {
			return candidate, nil
		}
	}
	return types.Platform{}, fmt.Errorf("%w: %s", ErrPlatformGone, p.GamelistPath)
}

func (s *Service) requireSource() error {
	if s.store.Source() == nil {
		return share.ErrNotConnected
	}
	return nil
}

func (s *Service) logf(format string, args ...interface{}) {
	s.log.Warn().Msgf(format, args...)
}

// closerFunc adapts a plain close function to io.Closer.
type closerFunc func() error

func (f closerFunc) Close() error { return f() }
