package share

import (
	"errors"
	"io/fs"
	"testing"

	"go-gamelist-sync/types"
)

// fakeShare implements RemoteShare with controllable liveness.
type fakeShare struct {
	dead bool
}

func (f *fakeShare) ReadDir(path string) ([]fs.FileInfo, error) { return nil, nil }
func (f *fakeShare) Open(path string) (File, error)             { return nil, errors.New("not implemented") }
func (f *fakeShare) Create(path string) (File, error)           { return nil, errors.New("not implemented") }
func (f *fakeShare) Mkdir(path string) error                    { return nil }
func (f *fakeShare) Stat(path string) (fs.FileInfo, error) {
	if f.dead {
		return nil, errors.New("session dropped")
	}
	return nil, nil
}

type fakeSession struct {
	share    *fakeShare
	logoffs  int
	mountErr error
}

func (f *fakeSession) Mount(share string) (RemoteShare, error) {
	if f.mountErr != nil {
		return nil, f.mountErr
	}
	return f.share, nil
}

func (f *fakeSession) Logoff() error {
	f.logoffs++
	return nil
}

type fakeDialer struct {
	dials    int
	dialErr  error
	mountErr error
	sessions []*fakeSession
}

func (f *fakeDialer) Dial(src types.Source) (Session, error) {
	f.dials++
	if f.dialErr != nil {
		return nil, f.dialErr
	}
	s := &fakeSession{share: &fakeShare{}, mountErr: f.mountErr}
	f.sessions = append(f.sessions, s)
	return s, nil
}

func srcA() types.Source {
	return types.Source{Name: "A", Host: "10.0.0.1", Share: "roms", Login: "u", Password: "p"}
}

func srcB() types.Source {
	return types.Source{Name: "B", Host: "10.0.0.2", Share: "roms", Login: "u", Password: "p"}
}

func TestEnsureWithoutSource(t *testing.T) {
	c := NewConnection(&fakeDialer{})
	if _, err := c.Ensure(); !errors.Is(err, ErrNoSource) {
		t.Errorf("Expected ErrNoSource, got %v", err)
	}
}

func TestOpenIsIdempotentForSameLiveSource(t *testing.T) {
	d := &fakeDialer{}
	c := NewConnection(d)

	if err := c.Open(srcA()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := c.Open(srcA()); err != nil {
		t.Fatalf("Second Open failed: %v", err)
	}
	if d.dials != 1 {
		t.Errorf("Expected 1 dial for repeated Open with same source, got %d", d.dials)
	}
}

func TestOpenDifferentSourceReleasesPrevious(t *testing.T) {
	d := &fakeDialer{}
	c := NewConnection(d)

	if err := c.Open(srcA()); err != nil {
		t.Fatalf("Open A failed: %v", err)
	}
	if err := c.Open(srcB()); err != nil {
		t.Fatalf("Open B failed: %v", err)
	}

	if d.dials != 2 {
		t.Errorf("Expected 2 dials, got %d", d.dials)
	}
	if d.sessions[0].logoffs != 1 {
		t.Errorf("Expected first session to be logged off, got %d logoffs", d.sessions[0].logoffs)
	}
	if got := c.Source(); got == nil || got.Name != "B" {
		t.Errorf("Expected active source B, got %v", got)
	}
}

func TestEnsureReconnectsAfterDrop(t *testing.T) {
	d := &fakeDialer{}
	c := NewConnection(d)

	if err := c.Open(srcA()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// Kill the underlying session; the next Ensure must transparently redial.
	d.sessions[0].share.dead = true

	sh, err := c.Ensure()
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if d.dials != 2 {
		t.Errorf("Expected reconnect dial, got %d dials", d.dials)
	}
	if sh != RemoteShare(d.sessions[1].share) {
		t.Error("Ensure did not return the fresh share")
	}
}

func TestEnsureReconnectsAfterExplicitClose(t *testing.T) {
	d := &fakeDialer{}
	c := NewConnection(d)

	if err := c.Open(srcA()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := c.Ensure(); err != nil {
		t.Fatalf("Ensure after Close failed: %v", err)
	}
	if d.dials != 2 {
		t.Errorf("Expected redial after Close, got %d dials", d.dials)
	}
}

func TestOpenDialFailure(t *testing.T) {
	d := &fakeDialer{dialErr: errors.New("network unreachable")}
	c := NewConnection(d)

	err := c.Open(srcA())
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Expected ErrConnectionFailed, got %v", err)
	}
}

func TestOpenMountFailureLogsOff(t *testing.T) {
	d := &fakeDialer{mountErr: errors.New("no such share")}
	c := NewConnection(d)

	err := c.Open(srcA())
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Expected ErrConnectionFailed, got %v", err)
	}
	if len(d.sessions) != 1 || d.sessions[0].logoffs != 1 {
		t.Error("Expected the half-open session to be logged off")
	}
}

func TestCloseWhenDisconnectedIsNoOp(t *testing.T) {
	c := NewConnection(&fakeDialer{})
	if err := c.Close(); err != nil {
		t.Errorf("Close on disconnected connection should be nil, got %v", err)
	}
}
