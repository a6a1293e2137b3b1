// Package transfer copies a game between two sources: download to a local
// staging area through the source store, upload through the destination
// store, then record the game in the destination manifest.
package transfer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"go-gamelist-sync/constants"
	"go-gamelist-sync/share"
	"go-gamelist-sync/types"
	"go-gamelist-sync/utils"
	"go-gamelist-sync/utils/fileio"
)

// ErrPlatformMissing is returned when the destination source has no
// platform matching the one being copied from. The engine never creates
// platforms on its own.
var ErrPlatformMissing = errors.New("transfer: destination has no matching platform")

// Store defines the slice of a remote library store the engine needs on
// either end of a copy.
type Store interface {
	GetPlatforms() ([]types.Platform, error)
	SavePlatform(p types.Platform) error
	FileSize(path string) (int64, error)
	OpenRead(path string) (share.File, error)
	OpenWrite(path string) (share.File, error)
}

// Emitter defines event emission toward the UI.
type Emitter interface {
	EventsEmit(eventName string, args ...interface{})
}

// ProgressWriter reports transfer progress as bytes flow through it.
type ProgressWriter struct {
	Total       int64
	Transferred int64
	GamePath    string
	Emitter     Emitter
}

func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.Transferred += int64(n)
	if pw.Total > 0 && pw.Emitter != nil {
		percentage := float64(pw.Transferred) / float64(pw.Total) * 100
		pw.Emitter.EventsEmit(constants.EventDownloadProgress, map[string]interface{}{
			"game_path":  pw.GamePath,
			"percentage": percentage,
		})
	}
	return n, nil
}

// Engine copies games between sources through a local staging directory.
type Engine struct {
	fs      afero.Fs
	staging string
	emitter Emitter
	log     zerolog.Logger
}

// New creates a transfer engine staging files under stagingPath on fs.
func New(fs afero.Fs, stagingPath string, emitter Emitter, log zerolog.Logger) *Engine {
	return &Engine{
		fs:      fs,
		staging: stagingPath,
		emitter: emitter,
		log:     log.With().Str("component", "transfer").Logger(),
	}
}

// CopyGame copies one game, and its box art when it has one, from the
// source store to the destination store. The destination must already hold
// a platform with the same gamelist path. The manifest is only touched
// after the game file has fully uploaded; the image is best-effort. Staged
// files are removed on every path out.
func (e *Engine) CopyGame(game types.Game, srcPlatform types.Platform, src, dest Store) error {
	destPlatform, err := e.findDestPlatform(dest, srcPlatform)
	if err != nil {
		return err
	}

	srcDir := utils.RemoteDir(srcPlatform.GamelistPath)
	destDir := utils.RemoteDir(destPlatform.GamelistPath)

	stagedGame, err := e.download(src, utils.RemoteJoin(srcDir, game.Path), game.Path)
	if err != nil {
		return fmt.Errorf("transfer: downloading %s: %w", game.Path, err)
	}
	defer fileio.Remove(e.fs, stagedGame, e.logf)

	stagedImage := ""
	if game.Image != nil && *game.Image != "" {
		stagedImage, err = e.download(src, utils.RemoteJoin(srcDir, *game.Image), game.Path)
		if err != nil {
			e.log.Warn().Str("game", game.DisplayName()).Err(err).Msg("image download failed, copying game without it")
			stagedImage = ""
		} else {
			defer fileio.Remove(e.fs, stagedImage, e.logf)
		}
	}

	if err := e.upload(dest, stagedGame, utils.RemoteJoin(destDir, game.Path)); err != nil {
		return fmt.Errorf("transfer: uploading %s: %w", game.Path, err)
	}

	if stagedImage != "" {
		if err := e.upload(dest, stagedImage, utils.RemoteJoin(destDir, *game.Image)); err != nil {
			e.log.Warn().Str("game", game.DisplayName()).Err(err).Msg("image upload failed, game entry recorded anyway")
		}
	}

	destPlatform.Games = appendOrReplace(destPlatform.Games, game)
	if err := dest.SavePlatform(destPlatform); err != nil {
		return fmt.Errorf("transfer: saving destination manifest: %w", err)
	}
	return nil
}

// findDestPlatform resolves the destination platform by gamelist-path
// identity. Missing platforms are an error, never auto-created.
func (e *Engine) findDestPlatform(dest Store, srcPlatform types.Platform) (types.Platform, error) {
	platforms, err := dest.GetPlatforms()
	if err != nil {
		return types.Platform{}, fmt.Errorf("transfer: listing destination platforms: %w", err)
	}
	for _, p := range platforms {
		if p.SamePlatform(srcPlatform) {
			return p, nil
		}
	}
	return types.Platform{}, fmt.Errorf("%w: %s", ErrPlatformMissing, srcPlatform.GamelistPath)
}

// download streams one remote file into a uuid-named staging file and
// returns its local path. Progress events carry gamePath so the UI can
// attribute them.
func (e *Engine) download(src Store, remotePath, gamePath string) (string, error) {
	size, err := src.FileSize(remotePath)
	if err != nil {
		// Progress reporting degrades to none; the copy still runs.
		size = 0
	}

	r, err := src.OpenRead(remotePath)
	if err != nil {
		return "", err
	}
	defer fileio.Close(r, e.logf, "closing remote file")

	if err := e.fs.MkdirAll(e.staging, 0o755); err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}

	staged := filepath.Join(e.staging, uuid.NewString()+filepath.Ext(remotePath))
	out, err := e.fs.Create(staged)
	if err != nil {
		return "", fmt.Errorf("creating staging file: %w", err)
	}

	pw := &ProgressWriter{Total: size, GamePath: gamePath, Emitter: e.emitter}
	if _, err := io.Copy(io.MultiWriter(out, pw), r); err != nil {
		_ = out.Close()
		fileio.Remove(e.fs, staged, e.logf)
		return "", fmt.Errorf("staging %s: %w", remotePath, err)
	}
	if err := out.Close(); err != nil {
		fileio.Remove(e.fs, staged, e.logf)
		return "", fmt.Errorf("closing staging file: %w", err)
	}
	return staged, nil
}

// upload streams a staged file to the destination share.
func (e *Engine) upload(dest Store, staged, remotePath string) error {
	in, err := e.fs.Open(staged)
	if err != nil {
		return fmt.Errorf("opening staged file: %w", err)
	}
	defer fileio.Close(in, e.logf, "closing staged file")

	w, err := dest.OpenWrite(remotePath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, in); err != nil {
		_ = w.Close()
		return fmt.Errorf("writing %s: %w", remotePath, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", remotePath, err)
	}
	return nil
}

// appendOrReplace records the game in the list, replacing an existing
// entry for the same game instead of duplicating it.
func appendOrReplace(games []types.Game, game types.Game) []types.Game {
	out := make([]types.Game, len(games))
	copy(out, games)
	for i, existing := range out {
		if existing.SameGame(game) {
			out[i] = game
			return out
		}
	}
	return append(out, game)
}

func (e *Engine) logf(format string, args ...interface{}) {
	e.log.Warn().Msgf(format, args...)
}
