package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"travel-time-service/internal/domain"
	"travel-time-service/internal/platform/db"
	"travel-time-service/internal/platform/obs"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SQL-backed implementation of the BatchStore port for SQLite and Postgres.
// It keeps a record of runs; it is never consulted to skip a routing call.
type SQLBatchStore struct {
	DB     *sql.DB
	driver string
	logger *zap.Logger
}

func NewSQLBatchStore(conn *sql.DB, driver string, logger *zap.Logger) *SQLBatchStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLBatchStore{DB: conn, driver: driver, logger: logger}
}

// rebind rewrites '?' placeholders to '$n' for Postgres.
func (s *SQLBatchStore) rebind(q string) string {
	if s.driver != db.DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Store a batch run and its per-row results.
func (s *SQLBatchStore) SaveBatch(ctx context.Context, b *domain.Batch) (err error) {
	defer obs.Time(ctx, s.logger, "store.SaveBatch")(&err)

	if s.DB == nil {
		return errors.New("batch store: db is nil")
	}
	if b == nil {
		return errors.New("save batch: batch is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save batch: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var departure sql.NullInt64
	if b.DepartureTime != nil {
		departure = sql.NullInt64{Int64: *b.DepartureTime, Valid: true}
	}

	_, err = tx.ExecContext(ctx, s.rebind(`
	INSERT INTO batch_runs (
		batch_id, mode, traffic_model, departure_time,
		row_count, ok_count, failed_count, started_at_ms, finished_at_ms
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`),
		b.ID.String(), string(b.Mode), string(b.TrafficModel), departure,
		b.Summary.Rows, b.Summary.OK, b.Summary.Failed,
		b.StartedAt.UnixMilli(), b.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save batch %s: insert run: %w", b.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
	INSERT INTO route_results (batch_id, row_index, duration_min, distance_km, status)
	VALUES (?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save batch: db prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range b.Results {
		if _, err := stmt.ExecContext(ctx, b.ID.String(), i, nullFloat(r.DurationMinutes), nullFloat(r.DistanceKm), r.Status); err != nil {
			return fmt.Errorf("save batch %s: insert row %d: %w", b.ID, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save batch %s: commit: %w", b.ID, err)
	}

	return nil
}

// Return a stored batch with its results in row order.
func (s *SQLBatchStore) GetBatch(ctx context.Context, id uuid.UUID) (_ *domain.Batch, err error) {
	defer obs.Time(ctx, s.logger, "store.GetBatch")(&err)

	if s.DB == nil {
		return nil, errors.New("batch store: db is nil")
	}

	var (
		mode, trafficModel  string
		departure           sql.NullInt64
		startedMs, finished int64
		b                   = &domain.Batch{ID: id}
	)

	row := s.DB.QueryRowContext(ctx, s.rebind(`
	SELECT mode, traffic_model, departure_time, row_count, ok_count, failed_count, started_at_ms, finished_at_ms
	FROM batch_runs
	WHERE batch_id = ?;
	`), id.String())
	err = row.Scan(&mode, &trafficModel, &departure,
		&b.Summary.Rows, &b.Summary.OK, &b.Summary.Failed, &startedMs, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get batch %s: scan run: %w", id, err)
	}

	b.Mode = domain.TravelMode(mode)
	b.TrafficModel = domain.TrafficModel(trafficModel)
	if departure.Valid {
		v := departure.Int64
		b.DepartureTime = &v
	}
	b.StartedAt = time.UnixMilli(startedMs).UTC()
	b.FinishedAt = time.UnixMilli(finished).UTC()

	rows, err := s.DB.QueryContext(ctx, s.rebind(`
	SELECT duration_min, distance_km, status
	FROM route_results
	WHERE batch_id = ?
	ORDER BY row_index;
	`), id.String())
	if err != nil {
		return nil, fmt.Errorf("get batch %s: query results: %w", id, err)
	}
	defer rows.Close()

	b.Results = make([]domain.RouteResult, 0, b.Summary.Rows)
	for rows.Next() {
		var (
			duration, distance sql.NullFloat64
			status             string
		)
		if err := rows.Scan(&duration, &distance, &status); err != nil {
			return nil, fmt.Errorf("get batch %s: scan result: %w", id, err)
		}
		b.Results = append(b.Results, domain.RouteResult{
			DurationMinutes: floatPtr(duration),
			DistanceKm:      floatPtr(distance),
			Status:          status,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get batch %s: row iteration: %w", id, err)
	}

	return b, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
