// Package store reads and writes a source's game library over its share
// connection. One Store owns one connection; callers serialize access to a
// given instance, but independent stores (a transfer's two ends) may run
// concurrently since they own independent sessions.
package store

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"go-gamelist-sync/constants"
	"go-gamelist-sync/gamelist"
	"go-gamelist-sync/share"
	"go-gamelist-sync/systems"
	"go-gamelist-sync/types"
	"go-gamelist-sync/utils"
)

// ErrMissingExtensions is returned when a platform declares no recognized
// extensions, which would make a directory listing filter everything out.
var ErrMissingExtensions = errors.New("store: platform declares no extensions")

// Store is the remote library store for one source.
type Store struct {
	conn *share.Connection
	log  zerolog.Logger
}

// New returns a store dialing through d. The store starts disconnected;
// call Open with a source before any remote operation.
func New(d share.Dialer, log zerolog.Logger) *Store {
	return &Store{
		conn: share.NewConnection(d),
		log:  log.With().Str("component", "store").Logger(),
	}
}

// Open binds the store to a source, releasing any previous session.
func (s *Store) Open(src types.Source) error {
	return s.conn.Open(src)
}

// Close releases the share session.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Source returns the active source, or nil when none is open.
func (s *Store) Source() *types.Source {
	return s.conn.Source()
}

// GetPlatforms discovers the platforms on the share: one per top-level
// directory holding a readable gamelist. Directories without a manifest are
// skipped silently; unreadable manifests are logged and skipped, never
// fatal to the listing. The result is sorted by display name.
func (s *Store) GetPlatforms() ([]types.Platform, error) {
	sh, err := s.conn.Ensure()
	if err != nil {
		return nil, err
	}

	entries, err := sh.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("store: listing share root: %w", err)
	}

	platforms := make([]types.Platform, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || name == "." || name == ".." {
			continue
		}

		manifestPath := utils.RemoteJoin(name, constants.GamelistFile)
		data, err := readAll(sh, manifestPath)
		if err != nil {
			if !isNotExist(err) {
				s.log.Warn().Str("platform", name).Err(err).Msg("skipping platform: unreadable gamelist")
			}
			continue
		}

		list, err := gamelist.Decode(data)
		if err != nil {
			s.log.Warn().Str("platform", name).Err(err).Msg("skipping platform: gamelist does not parse")
			continue
		}

		platform := platformFrom(name, manifestPath, list)

		if backup, err := readAll(sh, utils.RemoteJoin(name, constants.GamelistBackupFile)); err == nil {
			if backupList, err := gamelist.Decode(backup); err == nil {
				platform.BackupGames = backupList.Games
			} else {
				s.log.Warn().Str("platform", name).Err(err).Msg("ignoring unreadable backup gamelist")
			}
		}

		platforms = append(platforms, platform)
	}

	sort.Slice(platforms, func(i, j int) bool {
		return platforms[i].Name < platforms[j].Name
	})
	return platforms, nil
}

// SavePlatform encodes the platform's games and overwrites its manifest,
// creating parent directories as needed.
func (s *Store) SavePlatform(p types.Platform) error {
	sh, err := s.conn.Ensure()
	if err != nil {
		return err
	}

	data, err := gamelist.Encode(&types.GameList{
		Provider: &types.ProviderInfo{
			System:     p.Name,
			Software:   "go-gamelist-sync",
			Database:   constants.ScreenScraperSource,
			Web:        "http://www.screenscraper.fr",
			Extensions: strings.Join(p.Extensions, " "),
		},
		Games: p.Games,
	})
	if err != nil {
		return err
	}

	path := utils.NormalizeRemote(p.GamelistPath)
	if err := mkdirAll(sh, utils.RemoteDir(path)); err != nil {
		return fmt.Errorf("store: creating platform directory: %w", err)
	}

	f, err := sh.Create(path)
	if err != nil {
		return fmt.Errorf("store: creating %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("store: writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("store: closing %s: %w", path, err)
	}
	return nil
}

// CreatePlatform creates the platform directory and an empty manifest,
// then saves the given platform into it.
func (s *Store) CreatePlatform(p types.Platform) error {
	sh, err := s.conn.Ensure()
	if err != nil {
		return err
	}

	path := utils.NormalizeRemote(p.GamelistPath)
	if err := mkdirAll(sh, utils.RemoteDir(path)); err != nil {
		return fmt.Errorf("store: creating platform directory: %w", err)
	}

	f, err := sh.Create(path)
	if err != nil {
		return fmt.Errorf("store: creating %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("store: closing %s: %w", path, err)
	}

	return s.SavePlatform(p)
}

// FileSize returns the byte size of a remote file.
func (s *Store) FileSize(path string) (int64, error) {
	sh, err := s.conn.Ensure()
	if err != nil {
		return 0, err
	}
	info, err := sh.Stat(utils.NormalizeRemote(path))
	if err != nil {
		return 0, fmt.Errorf("store: stat %s: %w", path, err)
	}
	return info.Size(), nil
}

// FileCRC streams a remote file through a CRC-32 hash without buffering it.
func (s *Store) FileCRC(path string) (uint32, error) {
	sh, err := s.conn.Ensure()
	if err != nil {
		return 0, err
	}

	f, err := sh.Open(utils.NormalizeRemote(path))
	if err != nil {
		return 0, fmt.Errorf("store: opening %s: %w", path, err)
	}
	defer f.Close()

	h := crc32.NewIEEE()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("store: reading %s: %w", path, err)
	}
	return h.Sum32(), nil
}

// GameNames lists the file names in the platform's directory that carry one
// of its recognized extensions. ErrMissingExtensions when the platform
// declares none.
func (s *Store) GameNames(p types.Platform) ([]string, error) {
	if len(p.Extensions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingExtensions, p.Name)
	}

	sh, err := s.conn.Ensure()
	if err != nil {
		return nil, err
	}

	dir := utils.RemoteDir(p.GamelistPath)
	entries, err := sh.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("store: listing %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == "." || name == ".." {
			continue
		}
		if p.HasExtension(strings.ToLower(extension(name))) {
			names = append(names, name)
		}
	}
	return names, nil
}

// OpenRead returns a streaming handle on a remote file.
func (s *Store) OpenRead(path string) (share.File, error) {
	sh, err := s.conn.Ensure()
	if err != nil {
		return nil, err
	}
	f, err := sh.Open(utils.NormalizeRemote(path))
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	return f, nil
}

// OpenWrite returns a writable handle on a remote file, creating missing
// parent directories first.
func (s *Store) OpenWrite(path string) (share.File, error) {
	sh, err := s.conn.Ensure()
	if err != nil {
		return nil, err
	}

	normalized := utils.NormalizeRemote(path)
	if err := mkdirAll(sh, utils.RemoteDir(normalized)); err != nil {
		return nil, fmt.Errorf("store: creating parent directories for %s: %w", path, err)
	}

	f, err := sh.Create(normalized)
	if err != nil {
		return nil, fmt.Errorf("store: creating %s: %w", path, err)
	}
	return f, nil
}

// platformFrom builds the domain platform for one discovered directory.
// The directory name doubles as the system identifier; the provider System
// is the display name when present.
func platformFrom(dir, manifestPath string, list *types.GameList) types.Platform {
	p := types.Platform{
		Name:         dir,
		System:       strings.ToLower(dir),
		GamelistPath: manifestPath,
		Games:        list.Games,
	}

	if list.Provider != nil {
		if list.Provider.System != "" {
			p.Name = list.Provider.System
		}
		for _, ext := range strings.Fields(list.Provider.Extensions) {
			ext = strings.ToLower(ext)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			p.Extensions = append(p.Extensions, ext)
		}
	}
	if len(p.Extensions) == 0 {
		p.Extensions = systems.Extensions(p.System)
	}
	return p
}

// mkdirAll creates every missing segment of a backslash-delimited remote
// directory path, tolerating "already exists" as success.
func mkdirAll(sh share.RemoteShare, dir string) error {
	if dir == "" {
		return nil
	}

	segments := strings.Split(dir, constants.RemoteSeparator)
	prefix := ""
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		if prefix == "" {
			prefix = segment
		} else {
			prefix = prefix + constants.RemoteSeparator + segment
		}

		if _, err := sh.Stat(prefix); err == nil {
			continue
		}
		if err := sh.Mkdir(prefix); err != nil && !isExist(err) {
			return fmt.Errorf("mkdir %s: %w", prefix, err)
		}
	}
	return nil
}

func readAll(sh share.RemoteShare, path string) ([]byte, error) {
	f, err := sh.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func extension(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

func isNotExist(err error) bool {
	return os.IsNotExist(err) || errors.Is(err, fs.ErrNotExist)
}

func isExist(err error) bool {
	return os.IsExist(err) || errors.Is(err, fs.ErrExist)
}
