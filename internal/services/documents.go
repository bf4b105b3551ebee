package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"

	"github.com/JonMunkholm/leaddesk/internal/apiclient"
	"github.com/JonMunkholm/leaddesk/internal/models"
)

// DocumentFilters are the optional listing filters, encoded in this order:
// folderId, keyword, keywords.
type DocumentFilters struct {
	FolderID *int64
	Keyword  string
	Keywords []string
}

func (f DocumentFilters) query() string {
	var q queryBuilder
	q.addID("folderId", f.FolderID)
	q.add("keyword", f.Keyword)
	q.addList("keywords", f.Keywords)
	return q.encode()
}

// DocumentUpload is the multipart payload for a new document.
type DocumentUpload struct {
	FileName string
	Content  io.Reader
	// ContentType of the file part. Empty leaves multipart's default
	// application/octet-stream.
	ContentType string
	Name        string
	FolderID    *int64
	KeywordIDs  []int64
}

// DocumentService is the client for /api/documents.
type DocumentService struct {
	api *apiclient.Client
}

func NewDocumentService(api *apiclient.Client) *DocumentService {
	return &DocumentService{api: api}
}

func (s *DocumentService) Create(ctx context.Context, in models.DocumentInput) (*models.Document, error) {
	var doc models.Document
	if err := s.api.Post(ctx, documentsPath, in, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *DocumentService) List(ctx context.Context, f DocumentFilters) (*models.Page[models.Document], error) {
	var page models.Page[models.Document]
	if err := s.api.Get(ctx, documentsPath, f.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches one document. A 404 satisfies errors.Is(err, apiclient.ErrNotFound).
func (s *DocumentService) Get(ctx context.Context, id int64) (*models.Document, error) {
	var doc models.Document
	if err := s.api.Get(ctx, idPath(documentsPath, id), "", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *DocumentService) Update(ctx context.Context, id int64, patch models.DocumentPatch) (*models.Document, error) {
	var doc models.Document
	if err := s.api.Put(ctx, idPath(documentsPath, id), patch, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, idPath(documentsPath, id))
}

// Upload posts the file as multipart/form-data. The file goes in the "file"
// part; name, folderId and keywordIds travel as plain form fields.
func (s *DocumentService) Upload(ctx context.Context, up DocumentUpload) (*models.Document, error) {
	if up.Content == nil {
		return nil, errors.New("documents: upload content is required")
	}
	if up.FileName == "" {
		return nil, errors.New("documents: upload file name is required")
	}

	// The body is written while the request is sent, so the file is never
	// buffered here a second time.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	done := make(chan struct{})
	go func() {
		defer close(done)
		pw.CloseWithError(encodeUpload(mw, up))
	}()

	var doc models.Document
	err := s.api.PostMultipart(ctx, documentsPath+"/upload", mw.FormDataContentType(), pr, &doc)
	// Unblocks the writer when the backend answered without reading it all.
	pr.Close()
	<-done
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Download fetches the document's bytes without JSON decoding.
func (s *DocumentService) Download(ctx context.Context, id int64) (*models.Blob, error) {
	bin, err := s.api.GetBinary(ctx, idPath(documentsPath, id, "download"))
	if err != nil {
		return nil, err
	}
	return &models.Blob{
		Data:        bin.Data,
		ContentType: bin.ContentType,
		FileName:    bin.FileName,
	}, nil
}

// encodeUpload writes the multipart form for up to mw and closes it.
func encodeUpload(mw *multipart.Writer, up DocumentUpload) error {
	if up.Name != "" {
		if err := mw.WriteField("name", up.Name); err != nil {
			return fmt.Errorf("documents: write name field: %w", err)
		}
	}
	if up.FolderID != nil {
		if err := mw.WriteField("folderId", strconv.FormatInt(*up.FolderID, 10)); err != nil {
			return fmt.Errorf("documents: write folderId field: %w", err)
		}
	}
	for _, kid := range up.KeywordIDs {
		if err := mw.WriteField("keywordIds", strconv.FormatInt(kid, 10)); err != nil {
			return fmt.Errorf("documents: write keywordIds field: %w", err)
		}
	}

	part, err := createFilePart(mw, up.FileName, up.ContentType)
	if err != nil {
		return fmt.Errorf("documents: create file part: %w", err)
	}
	if _, err := io.Copy(part, up.Content); err != nil {
		return fmt.Errorf("documents: copy file content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("documents: close multipart: %w", err)
	}
	return nil
}

func createFilePart(mw *multipart.Writer, fileName, contentType string) (io.Writer, error) {
	if contentType == "" {
		return mw.CreateFormFile("file", fileName)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	h.Set("Content-Type", contentType)
	return mw.CreatePart(h)
}
