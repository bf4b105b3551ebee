package export

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/leaddesk/internal/logging"
	"github.com/JonMunkholm/leaddesk/internal/models"
)

const (
	// CSVContentType is the MIME type of every CSV download.
	CSVContentType = "text/csv;charset=utf-8;"

	// NoDataNotice is what the user is told when there is nothing to export.
	NoDataNotice = "No data available to export"

	defaultBlobContentType = "application/octet-stream"
)

// ErrDownloadUnsupported means the host has no way to deliver a file.
var ErrDownloadUnsupported = errors.New("export: file download is not supported in this environment")

// Saver delivers a file to the user. Begin opens a transient download; the
// returned writer must be closed exactly once, whatever happens in between.
type Saver interface {
	Begin(filename, contentType string) (io.WriteCloser, error)
}

// Notifier shows a non-error notice to the user.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) Notify(ctx context.Context, message string) { f(ctx, message) }

// Exporter triggers downloads through a Saver. A nil Saver means downloads
// are unsupported; a nil Notifier logs notices instead of showing them.
type Exporter struct {
	saver    Saver
	notifier Notifier
}

func NewExporter(saver Saver, notifier Notifier) *Exporter {
	return &Exporter{saver: saver, notifier: notifier}
}

// ExportCSV serializes records and downloads them as filename. Empty input
// produces a notice and no download, and is not an error.
func (e *Exporter) ExportCSV(ctx context.Context, records []Record, filename string) error {
	logger := logging.WithFields(ctx, "filename", filename)

	if len(records) == 0 {
		e.notify(ctx, NoDataNotice)
		return nil
	}
	if e.saver == nil {
		return ErrDownloadUnsupported
	}

	body, err := Serialize(records)
	if err != nil {
		return err
	}

	if err := e.save(filename, CSVContentType, []byte(body)); err != nil {
		logger.Error("csv export failed", "error", err)
		return err
	}

	logger.Info("csv export delivered", "rows", len(records), "bytes", len(body))
	return nil
}

// DownloadBlob downloads bytes that were produced elsewhere (typically a
// backend document download) without re-encoding them.
func (e *Exporter) DownloadBlob(ctx context.Context, blob *models.Blob, filename string) error {
	if blob == nil {
		return errors.New("export: blob is nil")
	}
	if e.saver == nil {
		return ErrDownloadUnsupported
	}

	contentType := blob.ContentType
	if contentType == "" {
		contentType = defaultBlobContentType
	}

	logger := logging.WithFields(ctx, "filename", filename, "content_type", contentType)
	if err := e.save(filename, contentType, blob.Data); err != nil {
		logger.Error("blob download failed", "error", err)
		return err
	}

	logger.Info("blob download delivered", "bytes", len(blob.Data))
	return nil
}

// save writes data through a fresh download and always closes it.
func (e *Exporter) save(filename, contentType string, data []byte) (err error) {
	dl, err := e.saver.Begin(filename, contentType)
	if err != nil {
		return fmt.Errorf("export: begin download %q: %w", filename, err)
	}
	defer func() {
		if cerr := dl.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: finish download %q: %w", filename, cerr)
		}
	}()

	if _, err := dl.Write(data); err != nil {
		return fmt.Errorf("export: write download %q: %w", filename, err)
	}
	return nil
}

func (e *Exporter) notify(ctx context.Context, message string) {
	if e.notifier == nil {
		logging.FromContext(ctx).Warn("export notice", "message", message)
		return
	}
	e.notifier.Notify(ctx, message)
}
