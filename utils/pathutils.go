package utils

import (
	"path/filepath"
	"strings"

	"go-gamelist-sync/constants"
)

// NormalizeRemote converts a path into canonical remote form. Contract:
//   - every "/" becomes the remote separator "\"
//   - "\.\" segments collapse to a single separator
//   - a leading ".\" is dropped
//   - doubled separators collapse to one
//
// Gamelist entries store paths like "./game.zip" while the share speaks
// backslash-delimited paths, so this runs on every path that crosses from a
// manifest to the wire.
func NormalizeRemote(p string) string {
	p = strings.ReplaceAll(p, "/", constants.RemoteSeparator)
	for strings.Contains(p, "\\.\\") {
		p = strings.ReplaceAll(p, "\\.\\", constants.RemoteSeparator)
	}
	for strings.Contains(p, "\\\\") {
		p = strings.ReplaceAll(p, "\\\\", constants.RemoteSeparator)
	}
	p = strings.TrimPrefix(p, ".\\")
	return p
}

// RemoteJoin joins path segments with the remote separator, normalizing the
// result. Empty segments are skipped.
func RemoteJoin(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return NormalizeRemote(strings.Join(kept, constants.RemoteSeparator))
}

// RemoteBase returns the last segment of a remote or manifest path,
// whichever separator style it uses.
func RemoteBase(p string) string {
	p = NormalizeRemote(p)
	if i := strings.LastIndex(p, constants.RemoteSeparator); i >= 0 {
		return p[i+1:]
	}
	return p
}

// RemoteDir returns everything before the last separator, or "" when the
// path has a single segment.
func RemoteDir(p string) string {
	p = NormalizeRemote(p)
	if i := strings.LastIndex(p, constants.RemoteSeparator); i >= 0 {
		return p[:i]
	}
	return ""
}

// SanitizeLocal ensures a path received from a remote system is safe for use
// in local staging operations. It removes any directory traversal segments
// (..) and forces the result to be relative.
func SanitizeLocal(path string) string {
	p := filepath.Clean(path)

	if vol := filepath.VolumeName(p); vol != "" {
		p = strings.TrimPrefix(p, vol)
	}

	p = filepath.ToSlash(p)

	for strings.HasPrefix(p, "../") || p == ".." {
		p = strings.TrimPrefix(p, "../")
		if p == ".." {
			p = "."
		}
	}

	p = strings.TrimPrefix(p, "/")

	if p == "" || p == "." {
		return "."
	}

	return filepath.FromSlash(p)
}
