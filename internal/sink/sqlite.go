package sink

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Flight statuses stored in the flights table.
const (
	FlightRunning  = "running"
	FlightComplete = "complete"
	FlightFailed   = "failed"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteConfig configures the SQLite sink.
type SQLiteConfig struct {
	Path   string
	Clock  clockwork.Clock
	Logger *slog.Logger
}

// SQLite stores flights in a local database. Instances are upserted by
// entity set and ID, so relaunching a flight does not duplicate rows.
type SQLite struct {
	db     *sql.DB
	clock  clockwork.Clock
	logger *slog.Logger
}

// OpenSQLite opens the database at cfg.Path and applies pending migrations.
func OpenSQLite(cfg SQLiteConfig) (*SQLite, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if cfg.Path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &SQLite{db: db, clock: clock, logger: logger}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// DB returns the underlying database.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}

	return nil
}

func (s *SQLite) Launch(ctx context.Context, flight *Flight) (Report, error) {
	report := newReport(flight, s.clock.Now())

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO flights (id, name, status, started_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status = excluded.status, started_at = excluded.started_at,
		 finished_at = NULL, error = NULL`,
		flight.ID, flight.Name(), FlightRunning, timestamp(report.StartedAt),
	)
	if err != nil {
		return report, fmt.Errorf("failed to create flight %s: %w", flight.ID, err)
	}

	s.logger.Debug("flight started", slog.String("id", flight.ID), slog.String("flight", flight.Name()))

	if err := s.store(ctx, flight, &report); err != nil {
		_ = s.finish(flight.ID, report, FlightFailed, err)
		return report, err
	}

	report.Batches = 1
	report.FinishedAt = s.clock.Now()

	if err := s.finish(flight.ID, report, FlightComplete, nil); err != nil {
		return report, err
	}

	return report, nil
}

func (s *SQLite) store(ctx context.Context, flight *Flight, report *Report) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := timestamp(s.clock.Now())

	for g, gerr := range flight.Graphs {
		if gerr != nil {
			return fmt.Errorf("flight %s: %w", flight.ID, gerr)
		}

		batch := Batch{FlightID: flight.ID, Flight: flight.Name()}
		batch.Add(g)
		report.add(g)

		for _, e := range batch.Entities {
			if err := s.upsertEntity(ctx, tx, flight.ID, e, now); err != nil {
				return err
			}
		}

		for _, a := range batch.Associations {
			if err := s.upsertAssociation(ctx, tx, flight.ID, a, now); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit flight %s: %w", flight.ID, err)
	}

	return nil
}

func (s *SQLite) upsertEntity(ctx context.Context, tx *sql.Tx, flightID string, e EntityPayload, now string) error {
	props, err := json.Marshal(e.Properties)
	if err != nil {
		return fmt.Errorf("failed to encode entity %s/%s: %w", e.EntitySet, e.ID, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entities (entity_set, id, flight_id, properties, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(entity_set, id) DO UPDATE SET flight_id = excluded.flight_id,
		 properties = excluded.properties, updated_at = excluded.updated_at`,
		e.EntitySet, e.ID, flightID, string(props), now,
	)
	if err != nil {
		return fmt.Errorf("failed to store entity %s/%s: %w", e.EntitySet, e.ID, err)
	}

	return nil
}

func (s *SQLite) upsertAssociation(ctx context.Context, tx *sql.Tx, flightID string, a AssociationPayload, now string) error {
	props, err := json.Marshal(a.Properties)
	if err != nil {
		return fmt.Errorf("failed to encode association %s/%s: %w", a.EntitySet, a.ID, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO associations (entity_set, id, flight_id, src_set, src_id, dst_set, dst_id, properties, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(entity_set, id) DO UPDATE SET flight_id = excluded.flight_id,
		 src_set = excluded.src_set, src_id = excluded.src_id, dst_set = excluded.dst_set, dst_id = excluded.dst_id,
		 properties = excluded.properties, updated_at = excluded.updated_at`,
		a.EntitySet, a.ID, flightID, a.Src.EntitySet, a.Src.ID, a.Dst.EntitySet, a.Dst.ID, string(props), now,
	)
	if err != nil {
		return fmt.Errorf("failed to store association %s/%s: %w", a.EntitySet, a.ID, err)
	}

	return nil
}

// finish uses a fresh context so a cancelled launch is still marked failed.
func (s *SQLite) finish(id string, r Report, status string, cause error) error {
	var errMsg sql.NullString
	if cause != nil {
		errMsg = sql.NullString{String: cause.Error(), Valid: true}
	}

	finished := r.FinishedAt
	if finished.IsZero() {
		finished = s.clock.Now()
	}

	_, err := s.db.ExecContext(context.Background(),
		`UPDATE flights SET status = ?, records = ?, entities = ?, associations = ?, skipped = ?,
		 finished_at = ?, error = ? WHERE id = ?`,
		status, r.Records, r.Entities, r.Associations, r.Skipped, timestamp(finished), errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish flight %s: %w", id, err)
	}

	s.logger.Debug("flight finished", slog.String("id", id), slog.String("status", status))

	return nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
