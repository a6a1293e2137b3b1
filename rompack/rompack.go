// Package rompack inspects archive-packaged ROMs. The metadata provider
// indexes games by the CRC-32 of the ROM itself, not of the archive around
// it, so scraping a .zip/.7z/.rar must use the inner file's checksum.
// For zip and 7z the checksum is read straight from the archive headers;
// rar headers do not expose it, so the first entry is decompressed through
// a CRC hash instead.
package rompack

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"strings"

	"archive/zip"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

var (
	// ErrNotArchive means the file name does not carry an archive extension.
	ErrNotArchive = errors.New("rompack: not an archive")
	// ErrEmptyArchive means the archive holds no file entry to checksum.
	ErrEmptyArchive = errors.New("rompack: archive holds no files")
)

// IsArchive reports whether the file name carries a supported archive
// extension.
func IsArchive(name string) bool {
	switch strings.ToLower(ext(name)) {
	case ".zip", ".7z", ".rar":
		return true
	}
	return false
}

// InnerCRC32 returns the CRC-32 of the first file entry inside the archive.
// ErrNotArchive when the name has no supported archive extension.
func InnerCRC32(ra io.ReaderAt, size int64, name string) (uint32, error) {
	switch strings.ToLower(ext(name)) {
	case ".zip":
		return zipCRC(ra, size)
	case ".7z":
		return sevenZipCRC(ra, size)
	case ".rar":
		return rarCRC(io.NewSectionReader(ra, 0, size))
	}
	return 0, fmt.Errorf("%w: %s", ErrNotArchive, name)
}

func zipCRC(ra io.ReaderAt, size int64) (uint32, error) {
	r, err := zip.NewReader(ra, size)
	if err != nil {
		return 0, fmt.Errorf("rompack: reading zip: %w", err)
	}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		return f.CRC32, nil
	}
	return 0, ErrEmptyArchive
}

func sevenZipCRC(ra io.ReaderAt, size int64) (uint32, error) {
	r, err := sevenzip.NewReader(ra, size)
	if err != nil {
		return 0, fmt.Errorf("rompack: reading 7z: %w", err)
	}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		return f.CRC32, nil
	}
	return 0, ErrEmptyArchive
}

func rarCRC(r io.Reader) (uint32, error) {
	rr, err := rardecode.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("rompack: reading rar: %w", err)
	}
	for {
		header, err := rr.Next()
		if err == io.EOF {
			return 0, ErrEmptyArchive
		}
		if err != nil {
			return 0, fmt.Errorf("rompack: reading rar entry: %w", err)
		}
		if header.IsDir {
			continue
		}
		h := crc32.NewIEEE()
		if _, err := io.Copy(h, rr); err != nil {
			return 0, fmt.Errorf("rompack: decompressing rar entry: %w", err)
		}
		return h.Sum32(), nil
	}
}

func ext(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
