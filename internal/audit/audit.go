// Package audit records what users did through the gateway: exports,
// document transfers and deletions. Entries live in Postgres when a database
// is configured and are dropped otherwise.
package audit

import (
	"context"
	"time"

	"github.com/JonMunkholm/leaddesk/internal/logging"
)

// Action is the kind of operation being audited.
type Action string

const (
	ActionCSVExport        Action = "csv_export"
	ActionDocumentDownload Action = "document_download"
	ActionDocumentUpload   Action = "document_upload"
	ActionDocumentDelete   Action = "document_delete"
	ActionFolderDelete     Action = "folder_delete"
	ActionKeywordDelete    Action = "keyword_delete"
	ActionLeadDelete       Action = "lead_delete"
)

// Severity ranks actions for review.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Entry is one stored audit record.
type Entry struct {
	ID         string    `json:"id"`
	Action     Action    `json:"action"`
	Severity   Severity  `json:"severity"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resourceId,omitempty"`
	Filename   string    `json:"filename,omitempty"`
	Rows       int       `json:"rows,omitempty"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Params describes an entry to record. IPAddress and UserAgent are taken
// from the context when left empty.
type Params struct {
	Action     Action
	Resource   string
	ResourceID string
	Filename   string
	Rows       int
	IPAddress  string
	UserAgent  string
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Action   Action
	Resource string
	Limit    int
	Offset   int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// SeverityFor maps an action to its severity.
func SeverityFor(action Action) Severity {
	switch action {
	case ActionDocumentDelete, ActionFolderDelete, ActionKeywordDelete, ActionLeadDelete:
		return SeverityHigh
	case ActionDocumentUpload:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Store persists and lists audit entries.
type Store interface {
	Log(ctx context.Context, p Params) (*Entry, error)
	List(ctx context.Context, f Filter) ([]Entry, error)
}

// Record logs p to s, filling request metadata from ctx. Failures are logged
// and swallowed so that auditing never fails the request it describes.
func Record(ctx context.Context, s Store, p Params) {
	if s == nil {
		return
	}
	if p.IPAddress == "" {
		p.IPAddress = IPAddress(ctx)
	}
	if p.UserAgent == "" {
		p.UserAgent = UserAgent(ctx)
	}

	if _, err := s.Log(ctx, p); err != nil {
		logging.FromContext(ctx).Error("audit log failed",
			"action", p.Action,
			"resource", p.Resource,
			"error", err,
		)
	}
}

// NopStore discards entries. Used when no database is configured.
type NopStore struct{}

func (NopStore) Log(_ context.Context, p Params) (*Entry, error) {
	return &Entry{
		Action:     p.Action,
		Severity:   SeverityFor(p.Action),
		Resource:   p.Resource,
		ResourceID: p.ResourceID,
		Filename:   p.Filename,
		Rows:       p.Rows,
		IPAddress:  p.IPAddress,
		UserAgent:  p.UserAgent,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func (NopStore) List(context.Context, Filter) ([]Entry, error) {
	return []Entry{}, nil
}
