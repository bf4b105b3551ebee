package audit

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS leaddesk_audit_log (
	id          UUID PRIMARY KEY,
	action      TEXT NOT NULL,
	severity    TEXT NOT NULL,
	resource    TEXT NOT NULL,
	resource_id TEXT,
	filename    TEXT,
	row_count   INTEGER,
	ip_address  INET,
	user_agent  TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS leaddesk_audit_log_created_at_idx ON leaddesk_audit_log (created_at DESC);
CREATE INDEX IF NOT EXISTS leaddesk_audit_log_action_idx ON leaddesk_audit_log (action);
`

const insertSQL = `INSERT INTO leaddesk_audit_log
	(id, action, severity, resource, resource_id, filename, row_count, ip_address, user_agent, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const selectColumns = `SELECT id, action, severity, resource, resource_id, filename,
	row_count, ip_address, user_agent, created_at
	FROM leaddesk_audit_log`

// PGStore keeps entries in the leaddesk_audit_log table.
type PGStore struct {
	db  DBTX
	now func() time.Time
}

func NewPGStore(db DBTX) *PGStore {
	return &PGStore{db: db, now: time.Now}
}

// EnsureSchema creates the audit table and its indexes if they are missing.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("audit: ensure schema: %w", err)
	}
	return nil
}

func (s *PGStore) Log(ctx context.Context, p Params) (*Entry, error) {
	entry := &Entry{
		ID:         uuid.NewString(),
		Action:     p.Action,
		Severity:   SeverityFor(p.Action),
		Resource:   p.Resource,
		ResourceID: p.ResourceID,
		Filename:   p.Filename,
		Rows:       p.Rows,
		UserAgent:  p.UserAgent,
		CreatedAt:  s.now().UTC(),
	}

	// Strip port if present; unparseable addresses are stored as NULL.
	var ip *netip.Addr
	if addr, ok := parseIP(p.IPAddress); ok {
		ip = &addr
		entry.IPAddress = addr.String()
	}

	_, err := s.db.Exec(ctx, insertSQL,
		entry.ID,
		string(entry.Action),
		string(entry.Severity),
		entry.Resource,
		toPgText(entry.ResourceID),
		toPgText(entry.Filename),
		toPgInt4(entry.Rows),
		ip,
		toPgText(entry.UserAgent),
		entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("audit: insert %s: %w", entry.Action, err)
	}
	return entry, nil
}

// List returns entries newest first.
func (s *PGStore) List(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		conds []string
		args  []interface{}
	)
	if f.Action != "" {
		args = append(args, string(f.Action))
		conds = append(conds, fmt.Sprintf("action = $%d", len(args)))
	}
	if f.Resource != "" {
		args = append(args, f.Resource)
		conds = append(conds, fmt.Sprintf("resource = $%d", len(args)))
	}

	query := selectColumns
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: list: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: list: %w", err)
	}
	return entries, nil
}

func scanEntry(rows pgx.Rows) (*Entry, error) {
	var (
		id         pgtype.UUID
		action     string
		severity   string
		resource   string
		resourceID pgtype.Text
		filename   pgtype.Text
		rowCount   pgtype.Int4
		ipAddress  *netip.Addr
		userAgent  pgtype.Text
		createdAt  pgtype.Timestamptz
	)

	err := rows.Scan(
		&id, &action, &severity, &resource, &resourceID, &filename,
		&rowCount, &ipAddress, &userAgent, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		Action:     Action(action),
		Severity:   Severity(severity),
		Resource:   resource,
		ResourceID: resourceID.String,
		Filename:   filename.String,
		UserAgent:  userAgent.String,
		CreatedAt:  createdAt.Time,
	}
	if id.Valid {
		entry.ID = uuid.UUID(id.Bytes).String()
	}
	if rowCount.Valid {
		entry.Rows = int(rowCount.Int32)
	}
	if ipAddress != nil {
		entry.IPAddress = ipAddress.String()
	}
	return entry, nil
}

func parseIP(s string) (netip.Addr, bool) {
	if s == "" {
		return netip.Addr{}, false
	}
	host := s
	if h, _, err := net.SplitHostPort(s); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toPgInt4(i int) pgtype.Int4 {
	if i == 0 {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(i), Valid: true}
}
