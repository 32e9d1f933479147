// Package sqlite stores time entries in SQLite.
//
// The schema lives in migrations/ and is applied with goose on New.
// Dates and wall-clock times are stored as ISO text so they sort lexically.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/username/bonus-hours/internal/timelog"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its dialect, base FS and logger in package globals
var gooseMu sync.Mutex

// Store implements timelog.Store using SQLite
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// New opens the database at path and migrates it to the latest schema.
// Use ":memory:" for an in-memory database.
func New(path string, logger *zap.Logger) (*Store, error) {
	dsn := path + "?_foreign_keys=on"
	if path != ":memory:" {
		dsn += "&_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := migrate(db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Store opened", zap.String("path", path))

	return &Store{db: db, logger: logger}, nil
}

func migrate(db *sql.DB, logger *zap.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger.Sugar()})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Version returns the applied schema version
func (s *Store) Version() (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(s.db)
}

// SaveEntry inserts a new entry
func (s *Store) SaveEntry(ctx context.Context, e timelog.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (id, operator, machine, shift, activity, work_date, start_time, end_time, bonus_eligible, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(),
		e.Operator,
		e.Machine,
		e.Shift,
		string(e.Activity),
		e.Date.String(),
		e.Start.String(),
		e.End.String(),
		e.BonusEligible,
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", e.ID, err)
	}
	return nil
}

// ListEntries returns entries dated within [from, to], ordered by date and start time
func (s *Store) ListEntries(ctx context.Context, from, to civil.Date) ([]timelog.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, operator, machine, shift, activity, work_date, start_time, end_time, bonus_eligible, created_at
		FROM entries
		WHERE work_date >= ? AND work_date <= ?
		ORDER BY work_date, start_time, created_at`,
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []timelog.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}

	return entries, nil
}

func scanEntry(rows *sql.Rows) (timelog.Entry, error) {
	var (
		id, activity, workDate, start, end, createdAt string
		e                                             timelog.Entry
	)
	if err := rows.Scan(&id, &e.Operator, &e.Machine, &e.Shift, &activity, &workDate, &start, &end, &e.BonusEligible, &createdAt); err != nil {
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}

	var err error
	if e.ID, err = uuid.Parse(id); err != nil {
		return e, fmt.Errorf("entry %q: bad id: %w", id, err)
	}
	e.Activity = timelog.Activity(activity)
	if e.Date, err = civil.ParseDate(workDate); err != nil {
		return e, fmt.Errorf("entry %s: bad date: %w", id, err)
	}
	if e.Start, err = civil.ParseTime(start); err != nil {
		return e, fmt.Errorf("entry %s: bad start: %w", id, err)
	}
	if e.End, err = civil.ParseTime(end); err != nil {
		return e, fmt.Errorf("entry %s: bad end: %w", id, err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return e, fmt.Errorf("entry %s: bad created_at: %w", id, err)
	}
	return e, nil
}

// gooseLogger routes migration output through zap
type gooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l gooseLogger) Fatal(v ...interface{})                 { l.sugar.Fatal(v...) }
func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.sugar.Fatalf(format, v...) }
func (l gooseLogger) Print(v ...interface{})                 { l.sugar.Info(v...) }
func (l gooseLogger) Println(v ...interface{})               { l.sugar.Info(v...) }
func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.sugar.Infof(strings.TrimSuffix(format, "\n"), v...)
}
