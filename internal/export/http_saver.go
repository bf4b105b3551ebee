package export

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// HTTPSaver delivers downloads as attachment responses.
type HTTPSaver struct {
	w http.ResponseWriter
}

func NewHTTPSaver(w http.ResponseWriter) *HTTPSaver {
	return &HTTPSaver{w: w}
}

// Begin writes the download headers. The body follows through the returned
// writer; Close flushes it to the client.
func (s *HTTPSaver) Begin(filename, contentType string) (io.WriteCloser, error) {
	if s == nil || s.w == nil {
		return nil, ErrDownloadUnsupported
	}

	h := s.w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", contentDisposition(filename))
	h.Set("X-Content-Type-Options", "nosniff")

	return &httpDownload{w: s.w}, nil
}

type httpDownload struct {
	w      http.ResponseWriter
	closed bool
}

func (d *httpDownload) Write(p []byte) (int, error) {
	if d.closed {
		return 0, fmt.Errorf("export: write after close")
	}
	return d.w.Write(p)
}

func (d *httpDownload) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if f, ok := d.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// contentDisposition builds an attachment header for filename, falling back
// to a plain quoted form when mime refuses the name.
func contentDisposition(filename string) string {
	if filename == "" {
		return "attachment"
	}
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", "", "\n", "").Replace(filename)
	return fmt.Sprintf(`attachment; filename="%s"`, escaped)
}
