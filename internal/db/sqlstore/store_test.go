package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/EashcodeX/itglue-clone-sub001/internal/db"
)

type testOrg struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	UpdatedAt time.Time
}

func (testOrg) TableName() string { return "organizations" }

type testNote struct {
	ID               string `gorm:"primaryKey"`
	OrganizationID   string
	OrganizationName string `gorm:"->;-:migration;column:organization_name"`
	Body             string
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

func (testNote) TableName() string { return "notes" }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Driver: DriverSQLite, DSN: "file::memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx, &testOrg{}, &testNote{}))

	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	deleted := now
	rows := []any{
		&testOrg{ID: "org-1", Name: "Acme", UpdatedAt: now},
		&testOrg{ID: "org-2", Name: "Globex", UpdatedAt: now},
		&testNote{ID: "n-1", OrganizationID: "org-1", Body: "Router 100% uptime", UpdatedAt: now},
		&testNote{ID: "n-2", OrganizationID: "org-2", Body: "Router reboot", UpdatedAt: now.Add(time.Hour)},
		&testNote{ID: "n-3", OrganizationID: "org-1", Body: "Old router", UpdatedAt: now, DeletedAt: &deleted},
		&testNote{ID: "n-4", OrganizationID: "org-1", Body: "Printer", UpdatedAt: now.Add(2 * time.Hour)},
		&testNote{ID: "n-5", OrganizationID: "org-2", Body: "Call Pat O’Brien", UpdatedAt: now.Add(-time.Hour)},
	}
	for _, r := range rows {
		require.NoError(t, s.db.Create(r).Error)
	}
	return s
}

func noteQuery() db.RowQuery {
	return db.RowQuery{
		Table:              "notes",
		TenantColumn:       "organization_id",
		SoftDelete:         true,
		JoinOrganization:   true,
		OrganizationColumn: "organization_id",
		Limit:              10,
	}
}

func ids(notes []testNote) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestFindRows_TenantAndSoftDelete(t *testing.T) {
	s := newTestStore(t)

	q := noteQuery()
	q.TenantID = "org-1"
	var notes []testNote
	require.NoError(t, s.FindRows(context.Background(), q, &notes))

	// Newest first; n-3 is deleted, n-2 belongs to org-2.
	assert.Equal(t, []string{"n-4", "n-1"}, ids(notes))
	for _, n := range notes {
		assert.Equal(t, "Acme", n.OrganizationName)
	}
}

func TestFindRows_GlobalWithTerms(t *testing.T) {
	s := newTestStore(t)

	q := noteQuery()
	q.Terms = []string{"ROUTER"}
	q.Columns = []string{"body"}
	var notes []testNote
	require.NoError(t, s.FindRows(context.Background(), q, &notes))

	assert.Equal(t, []string{"n-2", "n-1"}, ids(notes))
	assert.Equal(t, "Globex", notes[0].OrganizationName)
}

func TestFindRows_ContainsEscapesWildcards(t *testing.T) {
	s := newTestStore(t)

	q := noteQuery()
	q.Terms = []string{"100%"}
	q.Columns = []string{"body"}
	var notes []testNote
	require.NoError(t, s.FindRows(context.Background(), q, &notes))
	assert.Equal(t, []string{"n-1"}, ids(notes))

	q.Terms = []string{"%"}
	notes = nil
	require.NoError(t, s.FindRows(context.Background(), q, &notes))
	assert.Equal(t, []string{"n-1"}, ids(notes), "a bare %% must match literally")
}

func TestFindRows_AnyTerm(t *testing.T) {
	s := newTestStore(t)

	q := noteQuery()
	q.Terms = []string{"printer", "reboot"}
	q.Columns = []string{"body"}
	var notes []testNote
	require.NoError(t, s.FindRows(context.Background(), q, &notes))
	assert.Equal(t, []string{"n-4", "n-2"}, ids(notes))
}

func TestFindRows_TermsIgnoreApostrophes(t *testing.T) {
	s := newTestStore(t)

	for _, term := range []string{"obrien", "O'Brien", "o’brien"} {
		q := noteQuery()
		q.Terms = []string{term}
		q.Columns = []string{"body"}
		var notes []testNote
		require.NoError(t, s.FindRows(context.Background(), q, &notes))
		assert.Equal(t, []string{"n-5"}, ids(notes), "term %q", term)
	}
}

func TestFindRows_EmptyTermsDoNotFilter(t *testing.T) {
	s := newTestStore(t)

	q := noteQuery()
	q.TenantID = "org-1"
	q.Terms = []string{"", "'"}
	q.Columns = []string{"body"}
	var notes []testNote
	require.NoError(t, s.FindRows(context.Background(), q, &notes))
	assert.Equal(t, []string{"n-4", "n-1"}, ids(notes))
}

func TestFindRows_Limit(t *testing.T) {
	s := newTestStore(t)

	q := noteQuery()
	q.Limit = 1
	var notes []testNote
	require.NoError(t, s.FindRows(context.Background(), q, &notes))
	assert.Equal(t, []string{"n-4"}, ids(notes))
}

func TestFindRows_InvalidQuery(t *testing.T) {
	s := newTestStore(t)
	var notes []testNote

	tests := []struct {
		name string
		edit func(q *db.RowQuery)
	}{
		{"no table", func(q *db.RowQuery) { q.Table = "" }},
		{"no limit", func(q *db.RowQuery) { q.Limit = 0 }},
		{"tenant without column", func(q *db.RowQuery) { q.TenantID = "org-1"; q.TenantColumn = "" }},
		{"join without column", func(q *db.RowQuery) { q.OrganizationColumn = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := noteQuery()
			tt.edit(&q)
			err := s.FindRows(context.Background(), q, &notes)
			require.ErrorIs(t, err, db.ErrInvalidQuery)

			var dbErr *db.Error
			require.True(t, errors.As(err, &dbErr))
			assert.Equal(t, db.OpFindRows, dbErr.Op)
		})
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle", DSN: "x"}, nil)
	require.ErrorIs(t, err, db.ErrUnsupportedType)
}

func TestOpen_MissingDSN(t *testing.T) {
	_, err := Open(Config{Driver: DriverSQLite}, nil)
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
