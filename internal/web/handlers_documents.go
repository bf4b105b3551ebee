package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/leaddesk/internal/audit"
	"github.com/JonMunkholm/leaddesk/internal/export"
	"github.com/JonMunkholm/leaddesk/internal/logging"
	"github.com/JonMunkholm/leaddesk/internal/models"
	"github.com/JonMunkholm/leaddesk/internal/services"
	"github.com/JonMunkholm/leaddesk/internal/validation"
)

func documentFilters(r *http.Request) services.DocumentFilters {
	return services.DocumentFilters{
		FolderID: parseIDParam(r, "folderId"),
		Keyword:  r.URL.Query().Get("keyword"),
		Keywords: parseListParam(r, "keywords"),
	}
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Documents.List(r.Context(), documentFilters(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var in models.DocumentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := s.deps.Validator.Struct(in); err != nil {
		writeValidationError(w, r, "Document is invalid", validation.Details(err))
		return
	}

	doc, err := s.deps.Documents.Create(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// handleUploadDocument re-encodes the inbound multipart form for the backend.
// The file is streamed from the parsed form; nothing is kept afterwards.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File exceeds the %d byte upload limit", s.cfg.Server.MaxUploadBytes))
			return
		}
		writeError(w, r, http.StatusBadRequest, "Upload must be multipart/form-data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	up := services.DocumentUpload{
		FileName:    header.Filename,
		Content:     file,
		ContentType: header.Header.Get("Content-Type"),
		Name:        r.FormValue("name"),
	}
	if raw := r.FormValue("folderId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid folderId %q", raw))
			return
		}
		up.FolderID = &id
	}
	var keywordIDs []string
	for _, v := range r.MultipartForm.Value["keywordIds"] {
		keywordIDs = append(keywordIDs, splitList(v)...)
	}
	if up.KeywordIDs, err = parseIDList(keywordIDs); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid keywordIds: "+err.Error())
		return
	}

	doc, err := s.deps.Documents.Upload(r.Context(), up)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	audit.Record(r.Context(), s.deps.Audit, audit.Params{
		Action:     audit.ActionDocumentUpload,
		Resource:   "documents",
		ResourceID: strconv.FormatInt(doc.ID, 10),
		Filename:   header.Filename,
	})
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	doc, err := s.deps.Documents.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var patch models.DocumentPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	doc, err := s.deps.Documents.Update(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.deps.Documents.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	audit.Record(r.Context(), s.deps.Audit, audit.Params{
		Action:     audit.ActionDocumentDelete,
		Resource:   "documents",
		ResourceID: strconv.FormatInt(id, 10),
	})
	w.WriteHeader(http.StatusNoContent)
}

// handleDownloadDocument fetches the raw bytes from the backend and hands
// them to the client as an attachment. The filename comes from ?filename=,
// then the backend's Content-Disposition, then document-<id>.
func (s *Server) handleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	blob, err := s.deps.Documents.Download(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = blob.FileName
	}
	if filename == "" {
		filename = fmt.Sprintf("document-%d", id)
	}

	ex := export.NewExporter(export.NewHTTPSaver(w), nil)
	if err := ex.DownloadBlob(r.Context(), blob, filename); err != nil {
		// Headers are gone by now; the failure can only be logged.
		logging.FromContext(r.Context()).Error("document download interrupted", "document_id", id, "error", err)
		return
	}

	audit.Record(r.Context(), s.deps.Audit, audit.Params{
		Action:     audit.ActionDocumentDownload,
		Resource:   "documents",
		ResourceID: strconv.FormatInt(id, 10),
		Filename:   filename,
	})
}
