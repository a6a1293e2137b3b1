package fileio

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// LogFunc matches the signature of logging functions used across the app.
type LogFunc func(format string, args ...interface{})

// Close closes the given io.Closer and logs any error that occurs.
// If logFunc is nil, the error is ignored (silent fallback).
// This is useful for following 'errcheck' linting rules without cluttering call sites.
func Close(c io.Closer, logFunc LogFunc, msg string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		if logFunc != nil {
			logFunc(fmt.Sprintf("%s: %v", msg, err))
		}
	}
}

// Remove deletes a file from the given filesystem and logs any error.
func Remove(fs afero.Fs, path string, logFunc LogFunc) {
	if err := fs.Remove(path); err != nil {
		if logFunc != nil {
			logFunc(fmt.Sprintf("Remove failed for %s: %v", path, err))
		}
	}
}

// MkdirAll creates a directory tree on the given filesystem and logs any error.
func MkdirAll(fs afero.Fs, path string, logFunc LogFunc) {
	if err := fs.MkdirAll(path, 0o755); err != nil {
		if logFunc != nil {
			logFunc(fmt.Sprintf("MkdirAll failed for %s: %v", path, err))
		}
	}
}
