// Package share owns the authenticated session to a remote SMB file share.
package share

import (
	"errors"
	"io"
	"io/fs"

	"go-gamelist-sync/types"
)

// Connection errors. "No source" and "connection failed" imply different
// recovery for the caller: pick a source vs. fix the network, so they are
// distinct kinds. ErrNotConnected is the service-level kind for operations
// invoked before any source was activated.
var (
	ErrNoSource         = errors.New("share: no source selected")
	ErrNotConnected     = errors.New("share: not connected")
	ErrConnectionFailed = errors.New("share: connection failed")
)

// File is a scoped handle for streaming remote I/O. ReadAt is needed for
// archive inspection, which reads central directories at the end of a file.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	io.ReaderAt
}

// RemoteShare is the subset of a mounted share the store operates on.
// Paths are backslash-delimited relative to the share root.
type RemoteShare interface {
	ReadDir(path string) ([]fs.FileInfo, error)
	Open(path string) (File, error)
	Create(path string) (File, error)
	Mkdir(path string) error
	Stat(path string) (fs.FileInfo, error)
}

// Session is an authenticated connection to a share server.
type Session interface {
	Mount(share string) (RemoteShare, error)
	Logoff() error
}

// Dialer establishes sessions. The production implementation speaks SMB;
// tests substitute a fake.
type Dialer interface {
	Dial(src types.Source) (Session, error)
}
