package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/leaddesk/internal/audit"
	"github.com/JonMunkholm/leaddesk/internal/models"
	"github.com/JonMunkholm/leaddesk/internal/services"
	"github.com/JonMunkholm/leaddesk/internal/validation"
)

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Folders.List(r.Context(), services.FolderFilters{
		ParentFolderID: parseIDParam(r, "parentFolderId"),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var in models.FolderInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := s.deps.Validator.Struct(in); err != nil {
		writeValidationError(w, r, "Folder is invalid", validation.Details(err))
		return
	}

	folder, err := s.deps.Folders.Create(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

func (s *Server) handleGetFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	folder, err := s.deps.Folders.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

func (s *Server) handleUpdateFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var patch models.FolderPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	folder, err := s.deps.Folders.Update(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.deps.Folders.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	audit.Record(r.Context(), s.deps.Audit, audit.Params{
		Action:     audit.ActionFolderDelete,
		Resource:   "folders",
		ResourceID: strconv.FormatInt(id, 10),
	})
	w.WriteHeader(http.StatusNoContent)
}
