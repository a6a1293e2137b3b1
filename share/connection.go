package share

import (
	"fmt"
	"sync"

	"go-gamelist-sync/types"
)

// Connection holds at most one live session to a source's share. It is a
// two-state machine: Disconnected, or Connected to exactly one source.
// Every remote operation goes through Ensure, so a session that dropped
// silently is recovered lazily on next use instead of being polled.
type Connection struct {
	mu      sync.Mutex
	dialer  Dialer
	source  *types.Source
	session Session
	share   RemoteShare
}

// NewConnection returns a disconnected Connection using the given dialer.
func NewConnection(d Dialer) *Connection {
	return &Connection{dialer: d}
}

// Open connects to the given source. It is a no-op when the source equals
// the active one and the session is still live; otherwise the old session
// is released first, swallowing close errors.
func (c *Connection) Open(src types.Source) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source != nil && c.source.Equals(src) && c.alive() {
		return nil
	}

	c.release()
	c.source = &src
	return c.connect()
}

// Ensure returns a live share handle, reconnecting with the last-known
// source if the session dropped. ErrNoSource when Open was never called.
func (c *Connection) Ensure() (RemoteShare, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source == nil {
		return nil, ErrNoSource
	}
	if c.share != nil && c.alive() {
		return c.share, nil
	}

	c.release()
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c.share, nil
}

// Close releases the session. The last-known source is kept so that a
// subsequent Ensure can reconnect.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}
	err := c.session.Logoff()
	c.session = nil
	c.share = nil
	if err != nil {
		return fmt.Errorf("share: close failed: %w", err)
	}
	return nil
}

// Source returns the active source, or nil when none was ever opened.
func (c *Connection) Source() *types.Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return nil
	}
	src := *c.source
	return &src
}

// connect dials and mounts for the current source. Caller holds the lock.
func (c *Connection) connect() error {
	sess, err := c.dialer.Dial(*c.source)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	sh, err := sess.Mount(c.source.Share)
	if err != nil {
		_ = sess.Logoff()
		return fmt.Errorf("%w: mount %s: %v", ErrConnectionFailed, c.source.Share, err)
	}

	c.session = sess
	c.share = sh
	return nil
}

// release drops the session, swallowing errors. Caller holds the lock.
func (c *Connection) release() {
	if c.session != nil {
		_ = c.session.Logoff()
	}
	c.session = nil
	c.share = nil
}

// alive probes the mounted share with a cheap stat. Caller holds the lock.
func (c *Connection) alive() bool {
	if c.share == nil {
		return false
	}
	_, err := c.share.Stat(".")
	return err == nil
}
