package share

import (
	"fmt"
	"io/fs"
	"net"
	"time"

	"github.com/hirochachacha/go-smb2"

	"go-gamelist-sync/constants"
	"go-gamelist-sync/types"
)

// SMBDialer dials SMB2/3 sessions with NTLM authentication.
type SMBDialer struct {
	// DialTimeout bounds the TCP connect; the SMB handshake itself has no
	// explicit timeout, cancellation is the caller abandoning the call.
	DialTimeout time.Duration
}

// NewSMBDialer returns a dialer with a 10 second connect timeout.
func NewSMBDialer() *SMBDialer {
	return &SMBDialer{DialTimeout: 10 * time.Second}
}

func (d *SMBDialer) Dial(src types.Source) (Session, error) {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(src.Host, constants.SMBPort), d.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", src.Host, err)
	}

	dialer := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:     src.Login,
			Password: src.Password,
		},
	}

	sess, err := dialer.Dial(conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("smb session %s: %w", src.Host, err)
	}

	return &smbSession{sess: sess, conn: conn}, nil
}

type smbSession struct {
	sess    *smb2.Session
	conn    net.Conn
	mounted *smb2.Share
}

func (s *smbSession) Mount(share string) (RemoteShare, error) {
	sh, err := s.sess.Mount(share)
	if err != nil {
		return nil, err
	}
	s.mounted = sh
	return &smbShare{sh: sh}, nil
}

func (s *smbSession) Logoff() error {
	if s.mounted != nil {
		_ = s.mounted.Umount()
		s.mounted = nil
	}
	err := s.sess.Logoff()
	_ = s.conn.Close()
	return err
}

type smbShare struct {
	sh *smb2.Share
}

func (s *smbShare) ReadDir(path string) ([]fs.FileInfo, error) {
	return s.sh.ReadDir(path)
}

func (s *smbShare) Open(path string) (File, error) {
	return s.sh.Open(path)
}

func (s *smbShare) Create(path string) (File, error) {
	return s.sh.Create(path)
}

func (s *smbShare) Mkdir(path string) error {
	return s.sh.Mkdir(path, 0o755)
}

func (s *smbShare) Stat(path string) (fs.FileInfo, error) {
	return s.sh.Stat(path)
}
