package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/leaddesk/internal/audit"
	"github.com/JonMunkholm/leaddesk/internal/models"
	"github.com/JonMunkholm/leaddesk/internal/services"
	"github.com/JonMunkholm/leaddesk/internal/validation"
)

func keywordFilters(r *http.Request) services.KeywordFilters {
	q := r.URL.Query()
	return services.KeywordFilters{
		Page:      parseIntParam(r, "page"),
		Limit:     parseIntParam(r, "limit"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
}

func (s *Server) handleListKeywords(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Keywords.List(r.Context(), keywordFilters(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleCreateKeyword(w http.ResponseWriter, r *http.Request) {
	var in models.KeywordInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := s.deps.Validator.Struct(in); err != nil {
		writeValidationError(w, r, "Keyword is invalid", validation.Details(err))
		return
	}

	kw, err := s.deps.Keywords.Create(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, kw)
}

func (s *Server) handleGetKeyword(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	kw, err := s.deps.Keywords.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kw)
}

func (s *Server) handleUpdateKeyword(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var patch models.KeywordPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	kw, err := s.deps.Keywords.Update(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kw)
}

func (s *Server) handleDeleteKeyword(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.deps.Keywords.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	audit.Record(r.Context(), s.deps.Audit, audit.Params{
		Action:     audit.ActionKeywordDelete,
		Resource:   "keywords",
		ResourceID: strconv.FormatInt(id, 10),
	})
	w.WriteHeader(http.StatusNoContent)
}
