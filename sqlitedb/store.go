package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/Stanislav-Shavlinsly/SQLiteDB-Utilits/internal/infrastructure/database"
)

// DefaultTableName is the legacy table Create provisions on request.
const DefaultTableName = "DefaultTable"

// defaultTableSQL creates the legacy default table.
var defaultTableSQL = fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s INTEGER PRIMARY KEY, %s TEXT)",
	quoteIdent(DefaultTableName), quoteIdent(IDColumn), quoteIdent("data"))

// Store is an open database file.
//
// A Store owns exactly one SQLite connection. Each operation runs one
// statement in its own implicit transaction, so every write is committed
// before the call returns. A Store is meant for use by one goroutine at a
// time; the engine's locking (bounded by the busy timeout) arbitrates
// between stores and processes sharing a file.
type Store struct {
	db      *database.DB
	log     *slog.Logger
	timeout time.Duration
}

// Create creates (or reuses) the database file and returns an open Store.
// Filename defaults to DefaultFilename. With Options.DefaultTable set, the
// legacy DefaultTable is provisioned.
func Create(ctx context.Context, opts Options) (*Store, error) {
	path, err := opts.resolvePath(DefaultFilename)
	if err != nil {
		return nil, opError("create", "", err)
	}

	s, err := openStore(ctx, path, opts)
	if err != nil {
		return nil, opError("create", "", err)
	}

	if opts.DefaultTable {
		if _, err := s.exec(ctx, "create default table", DefaultTableName, defaultTableSQL); err != nil {
			s.Close() //nolint:errcheck // Best effort cleanup on error path
			return nil, err
		}
	}

	s.log.Info("database created", "path", path, "default_table", opts.DefaultTable)
	return s, nil
}

// Open attaches to the database file without assuming any table exists.
// Filename is required. A missing file is created empty by the engine.
func Open(ctx context.Context, opts Options) (*Store, error) {
	path, err := opts.resolvePath("")
	if err != nil {
		return nil, opError("open", "", err)
	}

	s, err := openStore(ctx, path, opts)
	if err != nil {
		return nil, opError("open", "", err)
	}

	s.log.Info("database opened", "path", path)
	return s, nil
}

func openStore(ctx context.Context, path string, opts Options) (*Store, error) {
	db, err := database.Open(ctx, database.Config{
		Path:        path,
		WALMode:     opts.WALMode,
		BusyTimeout: opts.BusyTimeout,
	})
	if err != nil {
		kind := ErrEngine
		if database.Classify(err) == database.KindBusy {
			kind = ErrBusy
		}
		return nil, fmt.Errorf("%w: %w", kind, err)
	}

	return &Store{
		db:      db,
		log:     opts.logger().With("driver", database.DriverType()),
		timeout: opts.StatementTimeout,
	}, nil
}

// Close releases the connection. It is safe to call more than once; every
// other method fails with ErrClosed afterwards.
func (s *Store) Close() error {
	if s == nil || s.db.Closed() {
		return nil
	}
	path := s.db.Path()
	if err := s.db.Close(); err != nil {
		return opError("close", "", fmt.Errorf("%w: %w", ErrEngine, err))
	}
	s.log.Info("database closed", "path", path)
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.conn("ping", "")
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		return engineError("ping", "", err)
	}
	return nil
}

// Migrate applies the pending YYYYMMDD_HHMMSS_name.up.sql files at the root
// of fsys, one transaction per file, recording them in schema_migrations.
func (s *Store) Migrate(ctx context.Context, fsys fs.FS) error {
	db, err := s.conn("migrate", "")
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, fsys); err != nil {
		return engineError("migrate", "", err)
	}
	s.log.Info("migrations applied")
	return nil
}

// MigrateDown reverts the most recently applied migration with its
// .down.sql file from fsys. With nothing applied it does nothing.
func (s *Store) MigrateDown(ctx context.Context, fsys fs.FS) error {
	db, err := s.conn("migrate down", "")
	if err != nil {
		return err
	}
	if err := db.MigrateDown(ctx, fsys); err != nil {
		return engineError("migrate down", "", err)
	}
	s.log.Info("migration reverted")
	return nil
}

// MigrationStatus returns the versions already applied and those in fsys
// still pending, oldest first.
func (s *Store) MigrationStatus(ctx context.Context, fsys fs.FS) (applied, pending []string, err error) {
	db, err := s.conn("migration status", "")
	if err != nil {
		return nil, nil, err
	}
	records, migrations, err := db.MigrationStatus(ctx, fsys)
	if err != nil {
		return nil, nil, engineError("migration status", "", err)
	}
	for _, r := range records {
		applied = append(applied, r.Version)
	}
	for _, m := range migrations {
		pending = append(pending, m.Version)
	}
	return applied, pending, nil
}

// conn returns the live connection or ErrClosed.
func (s *Store) conn(op, table string) (*database.DB, error) {
	if s == nil || s.db.Closed() {
		return nil, opError(op, table, ErrClosed)
	}
	return s.db, nil
}

// withTimeout applies the statement timeout, if any.
func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// exec runs one statement that returns no rows.
func (s *Store) exec(ctx context.Context, op, table, query string, args ...any) (sql.Result, error) {
	db, err := s.conn(op, table)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	s.log.DebugContext(ctx, "executing statement", "op", op, "table", table)
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, engineError(op, table, err)
	}
	return res, nil
}

// query runs one statement and materializes every result row.
func (s *Store) query(ctx context.Context, op, table, query string, args ...any) ([]Row, error) {
	db, err := s.conn(op, table)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	s.log.DebugContext(ctx, "executing query", "op", op, "table", table)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, engineError(op, table, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, engineError(op, table, err)
	}
	return out, nil
}
