package compress

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"time"
)

// TarReader streams the first CSV file found in a TAR archive.
type TarReader struct {
	tr   *tar.Reader
	body io.Closer
}

// NewTarReader advances r to its first regular CSV file. Close closes r.
func NewTarReader(r io.ReadCloser) (*TarReader, error) {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			r.Close()
			return nil, ErrNoCSV
		}
		if err != nil {
			r.Close()
			return nil, err
		}
		if hdr.Typeflag == tar.TypeReg && isCSV(hdr.Name) {
			return &TarReader{tr: tr, body: r}, nil
		}
	}
}

func (t *TarReader) Read(p []byte) (int, error) {
	return t.tr.Read(p)
}

func (t *TarReader) Close() error {
	return t.body.Close()
}

// TarWriter collects a single file and writes it as a TAR archive on Close,
// once its size is known.
type TarWriter struct {
	w    io.Writer
	name string
	buf  bytes.Buffer
}

func NewTarWriter(w io.Writer, fileName string) *TarWriter {
	return &TarWriter{w: w, name: fileName}
}

func (t *TarWriter) Write(p []byte) (int, error) {
	return t.buf.Write(p)
}

func (t *TarWriter) Close() error {
	tw := tar.NewWriter(t.w)
	hdr := &tar.Header{
		Name:    t.name,
		Mode:    0o644,
		Size:    int64(t.buf.Len()),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := tw.Write(t.buf.Bytes()); err != nil {
		return err
	}
	return tw.Close()
}
