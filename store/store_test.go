package store

import (
	"bytes"
	"errors"
	"hash/crc32"
	"io"
	"io/fs"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"go-gamelist-sync/constants"
	"go-gamelist-sync/share"
	"go-gamelist-sync/types"
)

// memShare is an in-memory RemoteShare speaking backslash paths.
type memShare struct {
	files map[string][]byte
	dirs  map[string]bool
}

func newMemShare() *memShare {
	return &memShare{
		files: make(map[string][]byte),
		dirs:  map[string]bool{".": true},
	}
}

func (m *memShare) putFile(path string, data []byte) {
	m.files[path] = data
	dir := path
	for {
		i := strings.LastIndex(dir, constants.RemoteSeparator)
		if i < 0 {
			break
		}
		dir = dir[:i]
		m.dirs[dir] = true
	}
}

type memFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (f memFileInfo) Name() string       { return f.name }
func (f memFileInfo) Size() int64        { return f.size }
func (f memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f memFileInfo) ModTime() time.Time { return time.Time{} }
func (f memFileInfo) IsDir() bool        { return f.isDir }
func (f memFileInfo) Sys() interface{}   { return nil }

func (m *memShare) ReadDir(path string) ([]fs.FileInfo, error) {
	prefix := ""
	if path != "." && path != "" {
		if !m.dirs[path] {
			return nil, fs.ErrNotExist
		}
		prefix = path + constants.RemoteSeparator
	}

	seen := map[string]bool{}
	var out []fs.FileInfo
	add := func(name string, size int64, isDir bool) {
		if !seen[name] {
			seen[name] = true
			out = append(out, memFileInfo{name: name, size: size, isDir: isDir})
		}
	}

	for p, data := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if i := strings.Index(rest, constants.RemoteSeparator); i >= 0 {
			add(rest[:i], 0, true)
		} else if rest != "" {
			add(rest, int64(len(data)), false)
		}
	}
	for d := range m.dirs {
		if d == "." || !strings.HasPrefix(d, prefix) {
			continue
		}
		rest := strings.TrimPrefix(d, prefix)
		if rest == "" {
			continue
		}
		if i := strings.Index(rest, constants.RemoteSeparator); i >= 0 {
			rest = rest[:i]
		}
		add(rest, 0, true)
	}
	return out, nil
}

type memReadFile struct {
	*bytes.Reader
}

func (f *memReadFile) Write(p []byte) (int, error) { return 0, errors.New("read-only handle") }
func (f *memReadFile) Close() error                { return nil }

type memWriteFile struct {
	buf   bytes.Buffer
	path  string
	share *memShare
}

func (f *memWriteFile) Read(p []byte) (int, error)            { return 0, io.EOF }
func (f *memWriteFile) ReadAt(p []byte, off int64) (int, error) { return 0, io.EOF }
func (f *memWriteFile) Write(p []byte) (int, error)           { return f.buf.Write(p) }
func (f *memWriteFile) Close() error {
	f.share.putFile(f.path, f.buf.Bytes())
	return nil
}

func (m *memShare) Open(path string) (share.File, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return &memReadFile{Reader: bytes.NewReader(data)}, nil
}

func (m *memShare) Create(path string) (share.File, error) {
	return &memWriteFile{path: path, share: m}, nil
}

func (m *memShare) Mkdir(path string) error {
	if m.dirs[path] {
		return &os.PathError{Op: "mkdir", Path: path, Err: fs.ErrExist}
	}
	m.dirs[path] = true
	return nil
}

func (m *memShare) Stat(path string) (fs.FileInfo, error) {
	if path == "." || m.dirs[path] {
		return memFileInfo{name: path, isDir: true}, nil
	}
	if data, ok := m.files[path]; ok {
		return memFileInfo{name: path, size: int64(len(data))}, nil
	}
	return nil, &os.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

type memSession struct {
	share *memShare
}

func (s *memSession) Mount(name string) (share.RemoteShare, error) { return s.share, nil }
func (s *memSession) Logoff() error                                { return nil }

type memDialer struct {
	share *memShare
}

func (d *memDialer) Dial(src types.Source) (share.Session, error) {
	return &memSession{share: d.share}, nil
}

func testStore(t *testing.T, sh *memShare) *Store {
	t.Helper()
	s := New(&memDialer{share: sh}, zerolog.Nop())
	if err := s.Open(types.Source{Name: "test", Host: "h", Share: "roms"}); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

const megadriveManifest = `<gameList>
  <provider System="Megadrive"></provider>
  <game id="1" source="ScreenScraper.fr">
    <path>./sonic.zip</path>
    <name>Sonic</name>
  </game>
</gameList>`

func TestGetPlatformsDiscoversAndSkips(t *testing.T) {
	sh := newMemShare()
	sh.putFile("megadrive\\gamelist.xml", []byte(megadriveManifest))
	sh.putFile("snes\\gamelist.xml", []byte(`<gameList><provider System="SNES"></provider></gameList>`))
	sh.putFile("broken\\gamelist.xml", []byte("this is not xml at all <<<"))
	sh.putFile("nomanifest\\readme.txt", []byte("no gamelist here"))

	s := testStore(t, sh)
	platforms, err := s.GetPlatforms()
	if err != nil {
		t.Fatalf("GetPlatforms failed: %v", err)
	}

	if len(platforms) != 2 {
		t.Fatalf("Expected 2 platforms (broken and manifest-less skipped), got %d", len(platforms))
	}
	// Sorted by display name, ascending.
	if platforms[0].Name != "Megadrive" || platforms[1].Name != "SNES" {
		t.Errorf("Expected [Megadrive SNES], got [%s %s]", platforms[0].Name, platforms[1].Name)
	}

	md := platforms[0]
	if md.System != "megadrive" {
		t.Errorf("Expected system id megadrive, got %q", md.System)
	}
	if md.GamelistPath != "megadrive\\gamelist.xml" {
		t.Errorf("Unexpected gamelist path %q", md.GamelistPath)
	}
	if len(md.Games) != 1 || *md.Games[0].Name != "Sonic" {
		t.Errorf("Unexpected games %+v", md.Games)
	}
	if len(md.Extensions) == 0 {
		t.Error("Expected extensions resolved from the systems registry")
	}
}

func TestGetPlatformsReadsBackup(t *testing.T) {
	sh := newMemShare()
	sh.putFile("megadrive\\gamelist.xml", []byte(megadriveManifest))
	sh.putFile("megadrive\\gamelist.backup.xml", []byte(`<gameList>
  <game><path>./sonic.zip</path><name>Sonic Backup</name></game>
  <game><path>./columns.zip</path></game>
</gameList>`))

	s := testStore(t, sh)
	platforms, err := s.GetPlatforms()
	if err != nil {
		t.Fatalf("GetPlatforms failed: %v", err)
	}
	if len(platforms) != 1 {
		t.Fatalf("Expected 1 platform, got %d", len(platforms))
	}
	if len(platforms[0].BackupGames) != 2 {
		t.Errorf("Expected 2 backup games, got %d", len(platforms[0].BackupGames))
	}
}

func TestSaveThenGetPlatformsRoundTrip(t *testing.T) {
	sh := newMemShare()
	sh.putFile("megadrive\\gamelist.xml", []byte(megadriveManifest))

	s := testStore(t, sh)
	platforms, err := s.GetPlatforms()
	if err != nil {
		t.Fatalf("GetPlatforms failed: %v", err)
	}

	p := platforms[0]
	fav := true
	p.Games[0].Favorite = &fav
	name := "Columns"
	p.Games = append(p.Games, types.Game{Path: "./columns.zip", Name: &name})

	if err := s.SavePlatform(p); err != nil {
		t.Fatalf("SavePlatform failed: %v", err)
	}

	reread, err := s.GetPlatforms()
	if err != nil {
		t.Fatalf("GetPlatforms after save failed: %v", err)
	}
	games := reread[0].Games
	if len(games) != 2 {
		t.Fatalf("Expected 2 games after save, got %d", len(games))
	}
	if games[0].Favorite == nil || !*games[0].Favorite {
		t.Error("Favorite flag lost across save/load")
	}
	if games[1].Name == nil || *games[1].Name != "Columns" {
		t.Errorf("Appended game lost: %+v", games[1])
	}
}

func TestCreatePlatform(t *testing.T) {
	sh := newMemShare()
	s := testStore(t, sh)

	p := types.Platform{
		Name:         "Game Boy",
		System:       "gb",
		GamelistPath: "gb\\gamelist.xml",
		Extensions:   []string{".gb", ".zip"},
		Games:        []types.Game{{Path: "./tetris.gb"}},
	}
	if err := s.CreatePlatform(p); err != nil {
		t.Fatalf("CreatePlatform failed: %v", err)
	}

	if !sh.dirs["gb"] {
		t.Error("Expected platform directory to be created")
	}
	if _, ok := sh.files["gb\\gamelist.xml"]; !ok {
		t.Error("Expected gamelist.xml to be written")
	}

	platforms, err := s.GetPlatforms()
	if err != nil {
		t.Fatalf("GetPlatforms failed: %v", err)
	}
	if len(platforms) != 1 || len(platforms[0].Games) != 1 {
		t.Errorf("Expected created platform with 1 game, got %+v", platforms)
	}
}

func TestFileSizeAndCRC(t *testing.T) {
	sh := newMemShare()
	payload := []byte("sega does what nintendont")
	sh.putFile("megadrive\\sonic.zip", payload)

	s := testStore(t, sh)

	size, err := s.FileSize("megadrive/sonic.zip")
	if err != nil {
		t.Fatalf("FileSize failed: %v", err)
	}
	if size != int64(len(payload)) {
		t.Errorf("Expected size %d, got %d", len(payload), size)
	}

	crc, err := s.FileCRC("megadrive\\sonic.zip")
	if err != nil {
		t.Fatalf("FileCRC failed: %v", err)
	}
	if want := crc32.ChecksumIEEE(payload); crc != want {
		t.Errorf("Expected CRC %08x, got %08x", want, crc)
	}
}

func TestGameNames(t *testing.T) {
	sh := newMemShare()
	sh.putFile("megadrive\\gamelist.xml", []byte(megadriveManifest))
	sh.putFile("megadrive\\sonic.zip", []byte("rom"))
	sh.putFile("megadrive\\streets.MD", []byte("rom"))
	sh.putFile("megadrive\\notes.txt", []byte("not a rom"))
	sh.putFile("megadrive\\media\\sonic.png", []byte("image"))

	s := testStore(t, sh)
	p := types.Platform{
		Name:         "Megadrive",
		GamelistPath: "megadrive\\gamelist.xml",
		Extensions:   []string{".zip", ".md"},
	}

	names, err := s.GameNames(p)
	if err != nil {
		t.Fatalf("GameNames failed: %v", err)
	}

	got := map[string]bool{}
	for _, n := range names {
		got[n] = true
	}
	if len(names) != 2 || !got["sonic.zip"] || !got["streets.MD"] {
		t.Errorf("Expected [sonic.zip streets.MD], got %v", names)
	}
}

func TestGameNamesMissingExtensions(t *testing.T) {
	s := testStore(t, newMemShare())
	_, err := s.GameNames(types.Platform{Name: "Megadrive", GamelistPath: "megadrive\\gamelist.xml"})
	if !errors.Is(err, ErrMissingExtensions) {
		t.Errorf("Expected ErrMissingExtensions, got %v", err)
	}
}

func TestOpenWriteCreatesParents(t *testing.T) {
	sh := newMemShare()
	s := testStore(t, sh)

	f, err := s.OpenWrite("gb\\media\\tetris.png")
	if err != nil {
		t.Fatalf("OpenWrite failed: %v", err)
	}
	if _, err := f.Write([]byte("image bytes")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if !sh.dirs["gb"] || !sh.dirs["gb\\media"] {
		t.Error("Expected parent directories to be created")
	}
	if string(sh.files["gb\\media\\tetris.png"]) != "image bytes" {
		t.Error("Expected file content to be written")
	}
}

func TestOperationsWithoutSource(t *testing.T) {
	s := New(&memDialer{share: newMemShare()}, zerolog.Nop())
	if _, err := s.GetPlatforms(); !errors.Is(err, share.ErrNoSource) {
		t.Errorf("Expected ErrNoSource, got %v", err)
	}
}
