// Package compress reads the CSV file out of uploaded ZIP/TAR archives and
// packs CSV downloads into them.
package compress

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// Supported archive types, as named by the archiveType query parameter.
const (
	Zip = "zip"
	Tar = "tar"
)

var (
	ErrNoCSV           = errors.New("no CSV file in archive")
	ErrUnsupportedType = errors.New("unsupported archive type")
)

// NewReader opens the first CSV file of an archive of the given type.
func NewReader(archiveType string, r io.ReadCloser) (io.ReadCloser, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	switch archiveType {
	case Zip:
		rc, err = NewZipReader(r)
	case Tar:
		rc, err = NewTarReader(r)
	default:
		r.Close()
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, archiveType)
	}
	if err != nil {
		return nil, err
	}
	return rc, nil
}

// NewWriter returns a writer whose output lands in fileName inside an
// archive of the given type. The archive is complete only after Close.
func NewWriter(archiveType string, w io.Writer, fileName string) (io.WriteCloser, error) {
	switch archiveType {
	case Zip:
		zw, err := NewZipWriter(w, fileName)
		if err != nil {
			return nil, err
		}
		return zw, nil
	case Tar:
		return NewTarWriter(w, fileName), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, archiveType)
}

// ContentType is the MIME type of an archive type.
func ContentType(archiveType string) string {
	if archiveType == Tar {
		return "application/x-tar"
	}
	return "application/zip"
}

func isCSV(name string) bool {
	return strings.EqualFold(path.Ext(name), ".csv")
}
