package compress

import (
	"archive/zip"
	"bytes"
	"io"
)

// ZipReader streams the first CSV file found in a ZIP archive.
type ZipReader struct {
	current io.ReadCloser
}

// NewZipReader buffers the archive, since ZIP needs random access to its
// central directory, and opens its first CSV file. r is closed.
func NewZipReader(r io.ReadCloser) (*ZipReader, error) {
	defer r.Close()

	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, err
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isCSV(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		return &ZipReader{current: rc}, nil
	}
	return nil, ErrNoCSV
}

func (z *ZipReader) Read(p []byte) (int, error) {
	return z.current.Read(p)
}

func (z *ZipReader) Close() error {
	return z.current.Close()
}

// ZipWriter writes a single file into a ZIP archive.
type ZipWriter struct {
	zw   *zip.Writer
	file io.Writer
}

func NewZipWriter(w io.Writer, fileName string) (*ZipWriter, error) {
	zw := zip.NewWriter(w)
	f, err := zw.Create(fileName)
	if err != nil {
		return nil, err
	}
	return &ZipWriter{zw: zw, file: f}, nil
}

func (z *ZipWriter) Write(p []byte) (int, error) {
	return z.file.Write(p)
}

// Close writes the central directory; the underlying writer stays open.
func (z *ZipWriter) Close() error {
	return z.zw.Close()
}
