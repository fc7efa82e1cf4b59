package middleware

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/drstein77/storefront/internal/compress"
)

// ArchiveType reads the archiveType query parameter; anything but tar means zip.
func ArchiveType(r *http.Request) string {
	if r.URL.Query().Get("archiveType") == compress.Tar {
		return compress.Tar
	}
	return compress.Zip
}

// UnpackArchive replaces an archived request body with the first CSV file
// inside it. Plain CSV uploads (Content-Type text/csv) pass through.
func UnpackArchive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "text/csv" {
			next.ServeHTTP(w, r)
			return
		}

		body, err := compress.NewReader(ArchiveType(r), r.Body)
		if err != nil {
			http.Error(w, "archive: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer body.Close()

		r.Body = body
		next.ServeHTTP(w, r)
	})
}

// PackArchive wraps successful responses into an archive holding fileName
// when the client lists the archive type in Accept-Encoding.
func PackArchive(fileName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			archiveType := ArchiveType(r)
			if !strings.Contains(r.Header.Get("Accept-Encoding"), archiveType) {
				next.ServeHTTP(w, r)
				return
			}

			aw := &archiveResponseWriter{ResponseWriter: w, archiveType: archiveType, fileName: fileName}
			defer aw.Close()
			next.ServeHTTP(aw, r)
		})
	}
}

type archiveResponseWriter struct {
	http.ResponseWriter
	archiveType string
	fileName    string

	wroteHeader bool
	archive     io.WriteCloser
	err         error
}

func (w *archiveResponseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	if code != http.StatusOK {
		w.ResponseWriter.WriteHeader(code)
		return
	}

	h := w.Header()
	h.Del("Content-Length")
	h.Set("Content-Type", compress.ContentType(w.archiveType))
	h.Set("Content-Disposition", `attachment; filename="`+w.fileName+"."+w.archiveType+`"`)
	w.ResponseWriter.WriteHeader(code)

	w.archive, w.err = compress.NewWriter(w.archiveType, w.ResponseWriter, w.fileName)
}

func (w *archiveResponseWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.err != nil {
		return 0, w.err
	}
	if w.archive == nil {
		return w.ResponseWriter.Write(p)
	}
	return w.archive.Write(p)
}

func (w *archiveResponseWriter) Close() error {
	if w.archive == nil {
		return nil
	}
	return w.archive.Close()
}
