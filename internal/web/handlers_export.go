package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/leaddesk/internal/audit"
	"github.com/JonMunkholm/leaddesk/internal/export"
	"github.com/JonMunkholm/leaddesk/internal/logging"
	"github.com/JonMunkholm/leaddesk/internal/models"
	"github.com/JonMunkholm/leaddesk/internal/services"
	"github.com/go-chi/chi/v5"
)

// exportTimestampLayout names default export files, e.g. leads_20260301_101500.csv.
const exportTimestampLayout = "20060102_150405"

// handleExport streams a resource listing as CSV. The listing filters of the
// matching list endpoint apply. An empty result is not an error: the client
// gets a 200 notice instead of a file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")

	collect, ok := s.exporters()[resource]
	if !ok {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Unknown export %q", resource))
		return
	}

	records, err := collect(r.Context(), r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = fmt.Sprintf("%s_%s.csv", resource, time.Now().Format(exportTimestampLayout))
	}

	ex := export.NewExporter(export.NewHTTPSaver(w), noticeWriter(w))
	if err := ex.ExportCSV(r.Context(), records, filename); err != nil {
		logging.FromContext(r.Context()).Error("csv export interrupted", "resource", resource, "error", err)
		return
	}
	if len(records) == 0 {
		return
	}

	audit.Record(r.Context(), s.deps.Audit, audit.Params{
		Action:   audit.ActionCSVExport,
		Resource: resource,
		Filename: filename,
		Rows:     len(records),
	})
}

type recordCollector func(ctx context.Context, r *http.Request) ([]export.Record, error)

func (s *Server) exporters() map[string]recordCollector {
	return map[string]recordCollector{
		"leads":     s.collectLeads,
		"keywords":  s.collectKeywords,
		"documents": s.collectDocuments,
		"folders":   s.collectFolders,
	}
}

func (s *Server) collectLeads(ctx context.Context, r *http.Request) ([]export.Record, error) {
	base := leadFilters(r)
	leads, err := collectPages(ctx, s.cfg.Export.PageSize, s.cfg.Export.MaxRows,
		func(ctx context.Context, page, limit int) (*models.Page[models.Lead], error) {
			f := base
			f.Page, f.Limit = page, limit
			return s.deps.Leads.List(ctx, f)
		})
	if err != nil {
		return nil, err
	}
	return toRecords(leads, leadRecord), nil
}

func (s *Server) collectKeywords(ctx context.Context, r *http.Request) ([]export.Record, error) {
	base := keywordFilters(r)
	keywords, err := collectPages(ctx, s.cfg.Export.PageSize, s.cfg.Export.MaxRows,
		func(ctx context.Context, page, limit int) (*models.Page[models.Keyword], error) {
			f := base
			f.Page, f.Limit = page, limit
			return s.deps.Keywords.List(ctx, f)
		})
	if err != nil {
		return nil, err
	}
	return toRecords(keywords, keywordRecord), nil
}

// Documents and folders are not paginated by the backend; one call returns
// everything.

func (s *Server) collectDocuments(ctx context.Context, r *http.Request) ([]export.Record, error) {
	page, err := s.deps.Documents.List(ctx, documentFilters(r))
	if err != nil {
		return nil, err
	}
	return toRecords(capRows(page.Data, s.cfg.Export.MaxRows), documentRecord), nil
}

func (s *Server) collectFolders(ctx context.Context, r *http.Request) ([]export.Record, error) {
	page, err := s.deps.Folders.List(ctx, services.FolderFilters{
		ParentFolderID: parseIDParam(r, "parentFolderId"),
	})
	if err != nil {
		return nil, err
	}
	return toRecords(capRows(page.Data, s.cfg.Export.MaxRows), folderRecord), nil
}

// collectPages walks a paginated listing until the backend reports no more
// pages, a page comes back empty, or maxRows is reached. A backend that
// ignores paging (bare array, no pagination block) is read once.
func collectPages[T any](ctx context.Context, pageSize, maxRows int,
	fetch func(ctx context.Context, page, limit int) (*models.Page[T], error),
) ([]T, error) {
	var out []T
	for page := 1; ; page++ {
		p, err := fetch(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}
		out = append(out, p.Data...)

		if len(out) >= maxRows {
			return out[:maxRows], nil
		}
		if len(p.Data) == 0 || !p.Pagination.HasMore() {
			return out, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

func capRows[T any](items []T, maxRows int) []T {
	if maxRows > 0 && len(items) > maxRows {
		return items[:maxRows]
	}
	return items
}

// noticeWriter answers with {"notice": message} when an export has nothing
// to deliver.
func noticeWriter(w http.ResponseWriter) export.Notifier {
	return export.NotifierFunc(func(_ context.Context, message string) {
		writeJSON(w, http.StatusOK, map[string]string{"notice": message})
	})
}
