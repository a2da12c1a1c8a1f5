package source

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EashcodeX/itglue-clone-sub001/internal/db"
	"github.com/EashcodeX/itglue-clone-sub001/internal/db/sqlstore"
)

// newTestDB opens a private in-memory SQLite database with every table migrated.
func newTestDB(t *testing.T) (*gorm.DB, *sqlstore.Store) {
	t.Helper()

	dsn := "file:" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := sqlstore.New(gdb)
	require.NoError(t, store.Migrate(context.Background(), Models()...))
	return gdb, store
}

func seed(t *testing.T, gdb *gorm.DB, records ...any) {
	t.Helper()
	for _, r := range records {
		require.NoError(t, gdb.Create(r).Error)
	}
}

func org(id, name string) *Organization {
	return &Organization{ID: id, Name: name}
}

func base(id, orgID string, updated time.Time) Base {
	return Base{ID: id, OrganizationID: orgID, CreatedAt: updated, UpdatedAt: updated}
}

// recordingFinder captures the query and returns a fixed error.
type recordingFinder struct {
	queries []db.RowQuery
	err     error
}

func (f *recordingFinder) FindRows(_ context.Context, q db.RowQuery, _ any) error {
	f.queries = append(f.queries, q)
	return f.err
}
