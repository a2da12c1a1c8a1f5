package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/EashcodeX/itglue-clone-sub001/internal/db"
)

// Compile-time checks.
var (
	_ db.RowFinder = (*Store)(nil)
	_ db.Pinger    = (*Store)(nil)
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config holds connection parameters for the record store.
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration
}

// Store is the relational record store, read through gorm.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured driver.
func Open(cfg Config, log *zap.Logger) (*Store, error) {
	dialector, err := dialectorFor(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newGormLogger(log, cfg.SlowQuery),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	// Each connection to an in-memory SQLite database sees its own empty database.
	if cfg.Driver == DriverSQLite && strings.Contains(cfg.DSN, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
	}

	return New(gdb), nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	switch driver {
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", db.ErrUnsupportedType, driver)
	}
}

// New wraps an existing gorm connection.
func New(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates tables for the given models.
func (s *Store) Migrate(ctx context.Context, models ...any) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	return nil
}

// FindRows fetches at most q.Limit rows from q.Table, newest first.
// The tenant constraint is always part of the WHERE clause.
func (s *Store) FindRows(ctx context.Context, q db.RowQuery, dest any) error {
	if err := validate(q); err != nil {
		return &db.Error{Op: db.OpFindRows, Err: err}
	}

	t := q.Table
	tx := s.db.WithContext(ctx).Table(t)

	if q.JoinOrganization {
		tx = tx.Select(t+".*, organizations.name AS organization_name").
			Joins("LEFT JOIN organizations ON organizations.id = " + t + "." + q.OrganizationColumn)
	}
	if q.TenantID != "" {
		tx = tx.Where(t+"."+q.TenantColumn+" = ?", q.TenantID)
	}
	if q.SoftDelete {
		tx = tx.Where(t + ".deleted_at IS NULL")
	}
	if clause, args := termsClause(t, q.Columns, q.Terms); clause != "" {
		tx = tx.Where(clause, args...)
	}

	err := tx.Order(t + ".updated_at DESC").
		Order(t + ".id").
		Limit(q.Limit).
		Find(dest).Error
	if err != nil {
		return &db.Error{Op: db.OpFindRows, Err: err}
	}
	return nil
}

func validate(q db.RowQuery) error {
	switch {
	case q.Table == "":
		return fmt.Errorf("%w: table is required", db.ErrInvalidQuery)
	case q.Limit <= 0:
		return fmt.Errorf("%w: limit must be positive", db.ErrInvalidQuery)
	case q.TenantID != "" && q.TenantColumn == "":
		return fmt.Errorf("%w: tenant column is required for a tenant constraint", db.ErrInvalidQuery)
	case q.JoinOrganization && q.OrganizationColumn == "":
		return fmt.Errorf("%w: organization column is required for the join", db.ErrInvalidQuery)
	}
	return nil
}

// termsClause ORs a LIKE per column and term. Empty when there is nothing to filter on.
func termsClause(table string, columns, terms []string) (string, []any) {
	patterns := make([]string, 0, len(terms))
	for _, term := range terms {
		if term = apostrophes.Replace(strings.ToLower(term)); term != "" {
			patterns = append(patterns, "%"+escapeLike(term)+"%")
		}
	}
	if len(patterns) == 0 || len(columns) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(columns)*len(patterns))
	args := make([]any, 0, len(columns)*len(patterns))
	for _, col := range columns {
		expr := foldColumn(table + "." + col)
		for _, p := range patterns {
			clauses = append(clauses, expr+" LIKE ? ESCAPE '!'")
			args = append(args, p)
		}
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

var apostrophes = strings.NewReplacer("'", "", "’", "")

// foldColumn lower-cases a column and drops apostrophes, as query normalization does.
// REPLACE and LOWER behave alike in SQLite, Postgres and MySQL.
func foldColumn(col string) string {
	return "REPLACE(REPLACE(LOWER(" + col + "), '''', ''), '’', '')"
}

// '!' is used as the LIKE escape since backslash handling differs between dialects.
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
