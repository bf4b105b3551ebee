package audit

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	sql  string
	args []interface{}
}

type fakeDB struct {
	execErr  error
	queryErr error
	rows     [][]interface{}
	execs    []call
	queries  []call
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, call{sql, args})
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	f.queries = append(f.queries, call{sql, args})
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeRows{data: f.rows, idx: -1}, nil
}

func (f *fakeDB) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	panic("not used")
}

// fakeRows copies each stored value into the matching Scan destination.
type fakeRows struct {
	data   [][]interface{}
	idx    int
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.data[r.idx], nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.idx]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

func TestSeverityFor(t *testing.T) {
	assert.Equal(t, SeverityHigh, SeverityFor(ActionLeadDelete))
	assert.Equal(t, SeverityHigh, SeverityFor(ActionDocumentDelete))
	assert.Equal(t, SeverityMedium, SeverityFor(ActionDocumentUpload))
	assert.Equal(t, SeverityLow, SeverityFor(ActionCSVExport))
	assert.Equal(t, SeverityLow, SeverityFor(Action("unknown")))
}

func TestPGStore_Log(t *testing.T) {
	db := &fakeDB{}
	store := NewPGStore(db)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	entry, err := store.Log(context.Background(), Params{
		Action:    ActionCSVExport,
		Resource:  "leads",
		Filename:  "leads.csv",
		Rows:      12,
		IPAddress: "203.0.113.7:51234",
		UserAgent: "curl/8.0",
	})
	require.NoError(t, err)

	_, err = uuid.Parse(entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, SeverityLow, entry.Severity)
	assert.Equal(t, "203.0.113.7", entry.IPAddress)
	assert.Equal(t, fixed, entry.CreatedAt)

	require.Len(t, db.execs, 1)
	args := db.execs[0].args
	require.Len(t, args, 10)
	assert.Equal(t, "csv_export", args[1])
	assert.Equal(t, "leads", args[3])
	assert.Equal(t, pgtype.Text{}, args[4], "empty resource id is NULL")
	assert.Equal(t, pgtype.Text{String: "leads.csv", Valid: true}, args[5])
	assert.Equal(t, pgtype.Int4{Int32: 12, Valid: true}, args[6])

	ip, ok := args[7].(*netip.Addr)
	require.True(t, ok)
	assert.Equal(t, "203.0.113.7", ip.String())
}

func TestPGStore_LogInvalidIP(t *testing.T) {
	db := &fakeDB{}
	entry, err := NewPGStore(db).Log(context.Background(), Params{
		Action:    ActionLeadDelete,
		Resource:  "leads",
		IPAddress: "not-an-ip",
	})
	require.NoError(t, err)
	assert.Empty(t, entry.IPAddress)
	assert.Nil(t, db.execs[0].args[7].(*netip.Addr))
}

func TestPGStore_LogError(t *testing.T) {
	db := &fakeDB{execErr: errors.New("connection reset")}
	_, err := NewPGStore(db).Log(context.Background(), Params{Action: ActionCSVExport})
	require.Error(t, err)
	assert.ErrorIs(t, err, db.execErr)
}

func TestPGStore_EnsureSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, NewPGStore(db).EnsureSchema(context.Background()))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0].sql, "CREATE TABLE IF NOT EXISTS leaddesk_audit_log")
}

func TestPGStore_List(t *testing.T) {
	id := uuid.New()
	addr := netip.MustParseAddr("198.51.100.4")
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	db := &fakeDB{rows: [][]interface{}{{
		pgtype.UUID{Bytes: id, Valid: true},
		"document_delete",
		"high",
		"documents",
		pgtype.Text{String: "42", Valid: true},
		pgtype.Text{},
		pgtype.Int4{},
		&addr,
		pgtype.Text{String: "Mozilla/5.0", Valid: true},
		pgtype.Timestamptz{Time: created, Valid: true},
	}}}

	entries, err := NewPGStore(db).List(context.Background(), Filter{Resource: "documents", Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, id.String(), e.ID)
	assert.Equal(t, ActionDocumentDelete, e.Action)
	assert.Equal(t, SeverityHigh, e.Severity)
	assert.Equal(t, "42", e.ResourceID)
	assert.Empty(t, e.Filename)
	assert.Zero(t, e.Rows)
	assert.Equal(t, "198.51.100.4", e.IPAddress)
	assert.Equal(t, created, e.CreatedAt)

	q := db.queries[0]
	assert.Contains(t, q.sql, "WHERE resource = $1")
	assert.True(t, strings.HasSuffix(q.sql, "LIMIT $2 OFFSET $3"))
	assert.Equal(t, []interface{}{"documents", 10, 0}, q.args)
}

func TestPGStore_ListLimits(t *testing.T) {
	db := &fakeDB{}
	store := NewPGStore(db)

	_, err := store.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.NotContains(t, db.queries[0].sql, "WHERE")
	assert.Equal(t, []interface{}{DefaultListLimit, 0}, db.queries[0].args)

	_, err = store.List(context.Background(), Filter{Action: ActionCSVExport, Resource: "leads", Limit: 10_000, Offset: -5})
	require.NoError(t, err)
	assert.Contains(t, db.queries[1].sql, "action = $1 AND resource = $2")
	assert.Equal(t, []interface{}{"csv_export", "leads", MaxListLimit, 0}, db.queries[1].args)
}

func TestPGStore_ListEmptyIsNotNil(t *testing.T) {
	entries, err := NewPGStore(&fakeDB{}).List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

type recordingStore struct {
	NopStore
	err    error
	params []Params
}

func (s *recordingStore) Log(ctx context.Context, p Params) (*Entry, error) {
	s.params = append(s.params, p)
	if s.err != nil {
		return nil, s.err
	}
	return s.NopStore.Log(ctx, p)
}

func TestRecord_FillsRequestMetadata(t *testing.T) {
	store := &recordingStore{}
	ctx := WithRequestMetadata(context.Background(), "192.0.2.1", "leaddesk-test")

	Record(ctx, store, Params{Action: ActionCSVExport, Resource: "keywords"})
	require.Len(t, store.params, 1)
	assert.Equal(t, "192.0.2.1", store.params[0].IPAddress)
	assert.Equal(t, "leaddesk-test", store.params[0].UserAgent)
}

func TestRecord_SwallowsErrors(t *testing.T) {
	store := &recordingStore{err: errors.New("db down")}
	assert.NotPanics(t, func() {
		Record(context.Background(), store, Params{Action: ActionLeadDelete})
	})
	assert.Len(t, store.params, 1)

	assert.NotPanics(t, func() {
		Record(context.Background(), nil, Params{Action: ActionLeadDelete})
	})
}

func TestNopStore(t *testing.T) {
	entry, err := NopStore{}.Log(context.Background(), Params{Action: ActionFolderDelete, Resource: "folders"})
	require.NoError(t, err)
	assert.Equal(t, SeverityHigh, entry.Severity)

	entries, err := NopStore{}.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
