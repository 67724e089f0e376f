// Package postgres provides a Postgres-backed journal of accepted action records.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/actiontracker/internal/domain"
)

// Journal appends accepted records to the action_log table.
type Journal struct {
	pool *pgxpool.Pool
}

// NewJournal constructs a Journal.
func NewJournal(pool *pgxpool.Pool) *Journal {
	return &Journal{pool: pool}
}

// Append implements domain.Journal.
func (j *Journal) Append(ctx context.Context, entry domain.JournalEntry) error {
	const insert = `INSERT INTO action_log (entry_id, action, duration, source, payload, received_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (entry_id) DO NOTHING`

	_, err := j.pool.Exec(ctx, insert,
		entry.ID,
		entry.Action,
		entry.Time,
		entry.Source,
		[]byte(entry.Payload),
		entry.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("insert action_log: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	const query = `SELECT entry_id::text, action, duration, source, payload, received_at
        FROM action_log ORDER BY received_at DESC, entry_id LIMIT $1`

	rows, err := j.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, limit)
	for rows.Next() {
		var entry domain.JournalEntry
		var payload []byte
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.Time, &entry.Source, &payload, &entry.ReceivedAt); err != nil {
			return nil, err
		}
		entry.Payload = payload
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
