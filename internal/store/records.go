package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const recordColumns = "identity, path, kind, status, result_json, error_message, created_at, updated_at"

// Put inserts or replaces the record for its identity.
func (s *Store) Put(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if err := s.execWithRetry(
		ctx,
		`INSERT INTO analysis_records (`+recordColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(identity) DO UPDATE SET
             path = excluded.path,
             kind = excluded.kind,
             status = excluded.status,
             result_json = excluded.result_json,
             error_message = excluded.error_message,
             updated_at = excluded.updated_at`,
		rec.Identity,
		rec.Path,
		rec.Kind,
		string(rec.Status),
		nullableString(rec.ResultJSON),
		nullableString(rec.ErrorMessage),
		rec.CreatedAt.Format(time.RFC3339Nano),
		rec.UpdatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

// Get fetches the record for an identity, or nil when absent.
func (s *Store) Get(ctx context.Context, identity string) (*Record, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+recordColumns+` FROM analysis_records WHERE identity = ?`, identity)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// List returns all records ordered by most recent update. An empty status
// filter returns everything.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM analysis_records`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += ` WHERE status IN (?` + repeatPlaceholder(len(statuses)-1) + `)`
		for _, status := range statuses {
			args = append(args, string(status))
		}
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Delete removes the record for an identity.
func (s *Store) Delete(ctx context.Context, identity string) error {
	if err := s.execWithRetry(ctx,
		`DELETE FROM analysis_records WHERE identity = ?`, identity); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// Clear removes every record.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.execWithRetry(ctx, `DELETE FROM analysis_records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	return nil
}

// ClearErrored removes records stuck in the error status.
func (s *Store) ClearErrored(ctx context.Context) error {
	if err := s.execWithRetry(ctx,
		`DELETE FROM analysis_records WHERE status = ?`, string(StatusError)); err != nil {
		return fmt.Errorf("clear errored records: %w", err)
	}
	return nil
}

// Health reports record counts per lifecycle status.
func (s *Store) Health(ctx context.Context) (Health, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT status, COUNT(1) FROM analysis_records GROUP BY status`)
	if err != nil {
		return Health{}, fmt.Errorf("query health: %w", err)
	}
	defer rows.Close()

	var health Health
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return Health{}, fmt.Errorf("scan health row: %w", err)
		}
		health.Total += count
		switch Status(status) {
		case StatusPending:
			health.Pending = count
		case StatusAnalyzing:
			health.Analyzing = count
		case StatusReady:
			health.Ready = count
		case StatusError:
			health.Errored = count
		}
	}
	if err := rows.Err(); err != nil {
		return Health{}, fmt.Errorf("iterate health rows: %w", err)
	}
	return health, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec        Record
		status     string
		resultJSON sql.NullString
		errMessage sql.NullString
		createdAt  string
		updatedAt  string
	)
	if err := row.Scan(&rec.Identity, &rec.Path, &rec.Kind, &status,
		&resultJSON, &errMessage, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rec.Status = Status(status)
	rec.ResultJSON = resultJSON.String
	rec.ErrorMessage = errMessage.String

	var err error
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func repeatPlaceholder(n int) string {
	out := make([]byte, 0, n*3)
	for i := 0; i < n; i++ {
		out = append(out, ", ?"...)
	}
	return string(out)
}
