package sqlitedb

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Stanislav-Shavlinsly/SQLiteDB-Utilits/internal/infrastructure/config"
	"github.com/Stanislav-Shavlinsly/SQLiteDB-Utilits/internal/infrastructure/logging"
)

// Version is reported in log records produced by LoadOptions loggers.
const Version = "0.1.3"

// DefaultFilename is used by Create when Options.Filename is empty.
const DefaultFilename = "database.sqlite"

// Options configures Create and Open.
type Options struct {
	// Dir is the directory holding the database file.
	Dir string

	// WorkingDir supplies the directory when Dir is empty. Pass CurrentDir to
	// resolve against the process working directory. With both unset, Create
	// and Open fail with ErrConfig.
	WorkingDir func() (string, error)

	// Filename is the database file name inside Dir. Create defaults it to
	// DefaultFilename; Open requires it.
	Filename string

	// DefaultTable makes Create provision
	// DefaultTable (id INTEGER PRIMARY KEY, data TEXT). Open ignores it.
	DefaultTable bool

	// WALMode enables Write-Ahead Logging.
	WALMode bool

	// BusyTimeout is how long a statement waits on a locked database before
	// failing with ErrBusy. Zero selects 5s.
	BusyTimeout time.Duration

	// StatementTimeout bounds every statement. Zero disables it; the
	// caller's context still applies.
	StatementTimeout time.Duration

	// Logger receives store events. Nil discards them.
	Logger *slog.Logger
}

// CurrentDir resolves the process working directory. Assign it to
// Options.WorkingDir to keep the "current directory" default explicit.
func CurrentDir() (string, error) {
	return os.Getwd()
}

// LoadOptions reads a YAML configuration file and returns matching Options
// with a configured logger. envFiles are optional .env files that seed
// SQLITEDB_* overrides.
func LoadOptions(path string, envFiles ...string) (Options, error) {
	cfg, err := config.Load(path, envFiles...)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	logger := logging.New(cfg.Logging, Version).With("component", "store")

	return Options{
		Dir:              cfg.Database.Dir,
		Filename:         cfg.Database.Filename,
		DefaultTable:     cfg.Database.DefaultTable,
		WALMode:          cfg.Database.WALMode,
		BusyTimeout:      cfg.Database.BusyTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
		Logger:           logger.Logger,
	}, nil
}

// resolvePath joins the directory and file name. fallback replaces an empty
// Filename; an empty fallback makes the file name required.
func (o Options) resolvePath(fallback string) (string, error) {
	dir := o.Dir
	if dir == "" {
		if o.WorkingDir == nil {
			return "", fmt.Errorf("%w: directory is required (set Dir or WorkingDir)", ErrConfig)
		}
		wd, err := o.WorkingDir()
		if err != nil {
			return "", fmt.Errorf("%w: resolving working directory: %w", ErrConfig, err)
		}
		if wd == "" {
			return "", fmt.Errorf("%w: working directory resolved to an empty path", ErrConfig)
		}
		dir = wd
	}

	name := o.Filename
	if name == "" {
		name = fallback
	}
	if name == "" {
		return "", fmt.Errorf("%w: filename is required", ErrConfig)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: filename %q must be a plain file name", ErrConfig, name)
	}

	return filepath.Join(dir, name), nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Discard().Logger
}
