package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Stanislav-Shavlinsly/SQLiteDB-Utilits/internal/infrastructure/database"
)

// openTestStore creates a store in a temporary directory, closed on cleanup.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Create(context.Background(), Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	t.Cleanup(func() {
		store.Close() //nolint:errcheck // Test cleanup
	})
	return store
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("uses default filename", func(t *testing.T) {
		dir := t.TempDir()
		store, err := Create(ctx, Options{Dir: dir})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		defer store.Close() //nolint:errcheck // Test cleanup

		want := filepath.Join(dir, DefaultFilename)
		if store.Path() != want {
			t.Errorf("Path() = %q, want %q", store.Path(), want)
		}
		if _, err := os.Stat(want); err != nil {
			t.Errorf("database file not created: %v", err)
		}
	})

	t.Run("leaves file schema-less by default", func(t *testing.T) {
		store := openTestStore(t)

		tables, err := store.Tables(ctx)
		if err != nil {
			t.Fatalf("Tables() error = %v", err)
		}
		if len(tables) != 0 {
			t.Errorf("Tables() = %v, want none", tables)
		}
	})

	t.Run("provisions default table on request", func(t *testing.T) {
		store, err := Create(ctx, Options{Dir: t.TempDir(), Filename: "legacy.sqlite", DefaultTable: true})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		defer store.Close() //nolint:errcheck // Test cleanup

		cols, err := store.Columns(ctx, DefaultTableName)
		if err != nil {
			t.Fatalf("Columns() error = %v", err)
		}
		want := []ColumnInfo{
			{Name: "id", Type: "INTEGER", PrimaryKey: true},
			{Name: "data", Type: "TEXT"},
		}
		if len(cols) != len(want) {
			t.Fatalf("Columns() = %+v, want %+v", cols, want)
		}
		for i := range want {
			if cols[i] != want[i] {
				t.Errorf("column %d = %+v, want %+v", i, cols[i], want[i])
			}
		}

		id, err := store.AddRow(ctx, DefaultTableName, Row{{"data", "payload"}})
		if err != nil {
			t.Fatalf("AddRow() error = %v", err)
		}
		row, err := store.GetRow(ctx, DefaultTableName, id)
		if err != nil {
			t.Fatalf("GetRow() error = %v", err)
		}
		if v, _ := row.Get("data"); v != "payload" {
			t.Errorf("data = %v, want payload", v)
		}
	})

	t.Run("resolves injected working directory", func(t *testing.T) {
		dir := t.TempDir()
		store, err := Create(ctx, Options{WorkingDir: func() (string, error) { return dir, nil }})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		defer store.Close() //nolint:errcheck // Test cleanup

		if got := filepath.Dir(store.Path()); got != dir {
			t.Errorf("store directory = %q, want %q", got, dir)
		}
	})

	t.Run("invalid options", func(t *testing.T) {
		tests := []struct {
			name string
			opts Options
		}{
			{name: "no directory", opts: Options{}},
			{name: "working dir error", opts: Options{WorkingDir: func() (string, error) { return "", errors.New("no cwd") }}},
			{name: "working dir empty", opts: Options{WorkingDir: func() (string, error) { return "", nil }}},
			{name: "filename with separator", opts: Options{Dir: t.TempDir(), Filename: "a/b.sqlite"}},
			{name: "filename dot dot", opts: Options{Dir: t.TempDir(), Filename: ".."}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := Create(ctx, tt.opts)
				if !errors.Is(err, ErrConfig) {
					t.Errorf("Create() error = %v, want ErrConfig", err)
				}
			})
		}
	})
}

func TestCreate_URICharactersInDir(t *testing.T) {
	ctx := context.Background()

	for _, dirName := range []string{"a?b", "a#b", "a%20b"} {
		t.Run(dirName, func(t *testing.T) {
			parent := t.TempDir()
			dir := filepath.Join(parent, dirName)

			store, err := Create(ctx, Options{Dir: dir})
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			defer store.Close() //nolint:errcheck // Test cleanup

			id, err := store.AddRow(ctx, "notes", Row{{"body", "kept"}})
			if err != nil {
				t.Fatalf("AddRow() error = %v", err)
			}

			if want := filepath.Join(dir, DefaultFilename); store.Path() != want {
				t.Errorf("Path() = %q, want %q", store.Path(), want)
			}
			if _, err := os.Stat(store.Path()); err != nil {
				t.Fatalf("database file missing at Path(): %v", err)
			}
			entries, err := os.ReadDir(parent)
			if err != nil {
				t.Fatalf("ReadDir() error = %v", err)
			}
			if len(entries) != 1 {
				t.Errorf("stray files next to %q: %d entries", dirName, len(entries))
			}

			// A second store on the same path sees the row.
			reopened, err := Open(ctx, Options{Dir: dir, Filename: DefaultFilename})
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer reopened.Close() //nolint:errcheck // Test cleanup

			if _, err := reopened.GetRow(ctx, "notes", id); err != nil {
				t.Errorf("GetRow() on reopened store error = %v", err)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("requires filename", func(t *testing.T) {
		_, err := Open(ctx, Options{Dir: t.TempDir()})
		if !errors.Is(err, ErrConfig) {
			t.Errorf("Open() error = %v, want ErrConfig", err)
		}
	})

	t.Run("creates missing file", func(t *testing.T) {
		dir := t.TempDir()
		store, err := Open(ctx, Options{Dir: dir, Filename: "fresh.sqlite"})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer store.Close() //nolint:errcheck // Test cleanup

		if err := store.Ping(ctx); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "fresh.sqlite")); err != nil {
			t.Errorf("database file not created: %v", err)
		}
	})

	t.Run("sees data written by an earlier store", func(t *testing.T) {
		dir := t.TempDir()
		first, err := Create(ctx, Options{Dir: dir, Filename: "shared.sqlite"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		id, err := first.AddRow(ctx, "notes", Row{{"body", "persisted"}})
		if err != nil {
			t.Fatalf("AddRow() error = %v", err)
		}
		if err := first.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		second, err := Open(ctx, Options{Dir: dir, Filename: "shared.sqlite", DefaultTable: true})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer second.Close() //nolint:errcheck // Test cleanup

		row, err := second.GetRow(ctx, "notes", id)
		if err != nil {
			t.Fatalf("GetRow() error = %v", err)
		}
		if v, _ := row.Get("body"); v != "persisted" {
			t.Errorf("body = %v, want persisted", v)
		}

		exists, err := second.TableExists(ctx, DefaultTableName)
		if err != nil {
			t.Fatalf("TableExists() error = %v", err)
		}
		if exists {
			t.Error("Open() provisioned DefaultTable; only Create may")
		}
	})
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	store, err := Create(ctx, Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	var nilStore *Store
	if err := nilStore.Close(); err != nil {
		t.Errorf("Close() on nil store error = %v", err)
	}

	checks := map[string]error{}
	_, checks["AddRow"] = store.AddRow(ctx, "t", Row{{"a", 1}})
	_, checks["GetRow"] = store.GetRow(ctx, "t", 1)
	_, checks["GetAllRows"] = store.GetAllRows(ctx, "t")
	_, checks["UpdateValue"] = store.UpdateValue(ctx, "t", "a", 1, 2)
	_, checks["UpdateRow"] = store.UpdateRow(ctx, "t", 1, Row{{"a", 2}})
	_, checks["TableExists"] = store.TableExists(ctx, "t")
	_, checks["Tables"] = store.Tables(ctx)
	checks["Ping"] = store.Ping(ctx)

	for name, err := range checks {
		if !errors.Is(err, ErrClosed) {
			t.Errorf("%s after Close() error = %v, want ErrClosed", name, err)
		}
	}
}

func TestCanceledContext(t *testing.T) {
	store := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.AddRow(ctx, "items", Row{{"name", "x"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("AddRow() error = %v, want context.Canceled", err)
	}
	if !errors.Is(err, ErrEngine) {
		t.Errorf("AddRow() error = %v, want ErrEngine", err)
	}
}

func TestBusyTimeout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Create(ctx, Options{Dir: dir, BusyTimeout: time.Millisecond})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer store.Close() //nolint:errcheck // Test cleanup

	if _, err := store.AddRow(ctx, "jobs", Row{{"state", "new"}}); err != nil {
		t.Fatalf("AddRow() error = %v", err)
	}

	// Hold the write lock from a second handle.
	other, err := sql.Open(database.DriverName(), store.Path())
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer other.Close() //nolint:errcheck // Test cleanup

	conn, err := other.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn() error = %v", err)
	}
	defer conn.Close() //nolint:errcheck // Test cleanup

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		t.Fatalf("BEGIN IMMEDIATE error = %v", err)
	}
	defer conn.ExecContext(ctx, "ROLLBACK") //nolint:errcheck // Test cleanup

	_, err = store.AddRow(ctx, "jobs", Row{{"state", "blocked"}})
	if !errors.Is(err, ErrBusy) {
		t.Errorf("AddRow() under lock error = %v, want ErrBusy", err)
	}
	if !errors.Is(err, ErrEngine) {
		t.Errorf("AddRow() under lock error = %v, want ErrEngine", err)
	}
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "sqlitedb.yaml")
	content := "database:\n  dir: " + dir + "\n  filename: app.sqlite\n  default_table: true\n  statement_timeout: 3s\nlogging:\n  level: error\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	opts, err := LoadOptions(configPath)
	if err != nil {
		t.Fatalf("LoadOptions() error = %v", err)
	}
	if opts.Dir != dir || opts.Filename != "app.sqlite" {
		t.Errorf("LoadOptions() path = %q/%q, want %q/app.sqlite", opts.Dir, opts.Filename, dir)
	}
	if !opts.DefaultTable {
		t.Error("DefaultTable = false, want true")
	}
	if opts.StatementTimeout != 3*time.Second {
		t.Errorf("StatementTimeout = %v, want 3s", opts.StatementTimeout)
	}
	if opts.Logger == nil {
		t.Fatal("Logger = nil, want configured logger")
	}

	store, err := Create(context.Background(), opts)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer store.Close() //nolint:errcheck // Test cleanup

	exists, err := store.TableExists(context.Background(), DefaultTableName)
	if err != nil || !exists {
		t.Errorf("TableExists(DefaultTable) = %v, %v; want true, nil", exists, err)
	}
}

func TestLoadOptions_Invalid(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("LoadOptions() error = %v, want ErrConfig", err)
	}
}
