package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stayfinder/internal/models"
)

// UpsertSession writes the token/identity pair in one statement, so a
// partially written session can never be observed.
func (db *DB) UpsertSession(ctx context.Context, rec *models.SessionRecord) error {
	query := `INSERT INTO sessions (chat_id, token, identity, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?)
              ON CONFLICT(chat_id) DO UPDATE SET
                  token = excluded.token,
                  identity = excluded.identity,
                  updated_at = excluded.updated_at`
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := db.ExecContext(ctx, query, rec.ChatID, rec.Token, rec.Identity, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

func (db *DB) DeleteSession(ctx context.Context, chatID int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE chat_id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (db *DB) GetSession(ctx context.Context, chatID int64) (*models.SessionRecord, error) {
	query := `SELECT chat_id, token, identity, created_at, updated_at FROM sessions WHERE chat_id = ?`
	var rec models.SessionRecord
	err := db.QueryRowContext(ctx, query, chatID).Scan(
		&rec.ChatID, &rec.Token, &rec.Identity, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &rec, nil
}

func (db *DB) ListSessions(ctx context.Context) ([]models.SessionRecord, error) {
	query := `SELECT chat_id, token, identity, created_at, updated_at FROM sessions ORDER BY chat_id`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var records []models.SessionRecord
	for rows.Next() {
		var rec models.SessionRecord
		if err := rows.Scan(&rec.ChatID, &rec.Token, &rec.Identity, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return records, nil
}
