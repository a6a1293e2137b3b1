package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"go-gamelist-sync/config"
	"go-gamelist-sync/configsrv"
	"go-gamelist-sync/constants"
	"go-gamelist-sync/imagecache"
	"go-gamelist-sync/remotesrv"
	"go-gamelist-sync/scraper"
	"go-gamelist-sync/share"
	"go-gamelist-sync/store"
	"go-gamelist-sync/transfer"
	"go-gamelist-sync/types"
)

// App struct
type App struct {
	ctx           context.Context
	configManager *config.Manager
	scraperClient *scraper.Client
	scraper       *scraper.Scraper
	configSrv     *configsrv.Service
	remoteSrv     *remotesrv.Service
	log           zerolog.Logger
}

// ScrapPlatformResult bundles the saved platform with the per-game failure
// summary for the frontend.
type ScrapPlatformResult struct {
	Platform types.Platform       `json:"platform"`
	Failures []types.ScrapFailure `json:"failures"`
}

// ScrapGameResult bundles the saved platform with the single-game outcome.
type ScrapGameResult struct {
	Platform types.Platform    `json:"platform"`
	Result   types.ScrapResult `json:"result"`
}

// NewApp wires the services around the loaded configuration.
func NewApp(cm *config.Manager) *App {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg := cm.GetConfig()

	a := &App{
		configManager: cm,
		log:           log,
	}

	dialer := share.NewSMBDialer()
	mainStore := store.New(dialer, log)

	a.scraperClient = scraper.NewClient(constants.ScreenScraperBaseURL, cfg.ScreenScraperID, cfg.ScreenScraperPW)
	a.scraper = scraper.New(a.scraperClient, mainStore, cfg.Language, log)

	fs := afero.NewOsFs()
	staging := cfg.StagingPath
	if staging == "" {
		if p, err := config.DefaultStagingPath(); err == nil {
			staging = p
		} else {
			staging = filepath.Join(os.TempDir(), constants.AppDir, constants.StagingDir)
		}
	}
	engine := transfer.New(fs, staging, a, log)

	coversDir, err := config.DefaultCoversCachePath()
	if err != nil {
		coversDir = filepath.Join(os.TempDir(), constants.AppDir, constants.CoversDir)
	}
	covers, err := imagecache.New(fs, coversDir, 256, log)
	if err != nil {
		log.Warn().Err(err).Msg("disk cover cache unavailable, falling back to memory only")
		covers, _ = imagecache.New(afero.NewMemMapFs(), coversDir, 256, log)
	}

	newStore := func() remotesrv.LibraryStore { return store.New(dialer, log) }
	a.remoteSrv = remotesrv.New(mainStore, newStore, a.scraper, engine, covers, a, log)
	a.configSrv = configsrv.New(&configAdapter{cm: cm}, a)

	return a
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// EventsEmit forwards an event to the frontend.
func (a *App) EventsEmit(eventName string, args ...interface{}) {
	if a.ctx == nil {
		return
	}
	wailsruntime.EventsEmit(a.ctx, eventName, args...)
}

// OpenDirectoryDialog opens a native directory picker.
func (a *App) OpenDirectoryDialog(title string) (string, error) {
	if a.ctx == nil {
		return "", nil
	}
	return wailsruntime.OpenDirectoryDialog(a.ctx, wailsruntime.OpenDialogOptions{Title: title})
}

// GetConfig returns the current configuration
func (a *App) GetConfig() types.AppConfig {
	return a.configSrv.GetConfig()
}

// SaveConfig merge-saves the configuration and refreshes the scraper
// account and language when they changed.
func (a *App) SaveConfig(cfg types.AppConfig) string {
	msg, accountChanged := a.configSrv.SaveConfig(cfg)

	current := a.configManager.GetConfig()
	if accountChanged {
		a.scraperClient.SetUserCredentials(current.ScreenScraperID, current.ScreenScraperPW)
	}
	a.scraper.SetLanguage(current.Language)

	return msg
}

// GetSources returns the configured share endpoints.
func (a *App) GetSources() []types.Source {
	return a.configManager.GetConfig().Sources
}

// AddSource registers a share endpoint.
func (a *App) AddSource(src types.Source) error {
	return a.configSrv.AddSource(src)
}

// RemoveSource drops a share endpoint by name.
func (a *App) RemoveSource(name string) error {
	return a.configSrv.RemoveSource(name)
}

// SelectStagingPath lets the user pick the staging directory.
func (a *App) SelectStagingPath() (string, error) {
	return a.configSrv.SelectStagingPath()
}

// SelectSource activates a source for all remote operations.
func (a *App) SelectSource(src types.Source) error {
	return a.remoteSrv.SelectSource(src)
}

// CloseSource releases the active share session.
func (a *App) CloseSource() error {
	return a.remoteSrv.CloseSource()
}

// ActiveSource returns the source currently in use, or nil.
func (a *App) ActiveSource() *types.Source {
	return a.remoteSrv.ActiveSource()
}

// GetPlatforms lists the platforms of the active source.
func (a *App) GetPlatforms() ([]types.Platform, error) {
	return a.remoteSrv.GetPlatforms()
}

// SetFavorite flips a game's favorite flag and persists the platform.
func (a *App) SetFavorite(platform types.Platform, game types.Game, value bool) (types.Platform, error) {
	return a.remoteSrv.SetFavorite(platform, game, value)
}

// SetKidGame flips a game's kidgame flag and persists the platform.
func (a *App) SetKidGame(platform types.Platform, game types.Game, value bool) (types.Platform, error) {
	return a.remoteSrv.SetKidGame(platform, game, value)
}

// SetHidden flips a game's hidden flag and persists the platform.
func (a *App) SetHidden(platform types.Platform, game types.Game, value bool) (types.Platform, error) {
	return a.remoteSrv.SetHidden(platform, game, value)
}

// CleanPlatform reconciles the platform manifest against its directory.
func (a *App) CleanPlatform(platform types.Platform) (types.Platform, error) {
	return a.remoteSrv.CleanPlatform(platform)
}

// ScrapPlatform scrapes every game of a platform.
func (a *App) ScrapPlatform(platform types.Platform) (ScrapPlatformResult, error) {
	updated, failures, err := a.remoteSrv.ScrapPlatform(a.opCtx(), platform)
	if err != nil {
		return ScrapPlatformResult{}, err
	}
	return ScrapPlatformResult{Platform: updated, Failures: failures}, nil
}

// ScrapGame scrapes a single game.
func (a *App) ScrapGame(game types.Game, platform types.Platform) (ScrapGameResult, error) {
	updated, result, err := a.remoteSrv.ScrapGame(a.opCtx(), game, platform)
	if err != nil {
		return ScrapGameResult{}, err
	}
	return ScrapGameResult{Platform: updated, Result: result}, nil
}

// CopyGame copies a game from the active source to another source.
func (a *App) CopyGame(game types.Game, srcPlatform types.Platform, destSource types.Source) error {
	return a.remoteSrv.CopyGame(game, srcPlatform, destSource)
}

// GetCover returns the base64 box art for a game.
func (a *App) GetCover(platform types.Platform, game types.Game) (string, error) {
	return a.remoteSrv.GetCover(platform, game)
}

func (a *App) opCtx() context.Context {
	if a.ctx != nil {
		return a.ctx
	}
	return context.Background()
}

// configAdapter exposes the manager under the configsrv provider names.
type configAdapter struct {
	cm *config.Manager
}

func (c *configAdapter) ConfigGetConfig() types.AppConfig {
	return c.cm.GetConfig()
}

func (c *configAdapter) ConfigSave(cfg types.AppConfig) error {
	return c.cm.Save(cfg)
}
