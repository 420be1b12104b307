package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// EnsureChat registers a chat on first contact. Reports whether the chat was
// new.
func (s *Store) EnsureChat(ctx context.Context, chatID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chats (chat_id) VALUES (?) ON CONFLICT(chat_id) DO NOTHING`, chatID)
	if err != nil {
		return false, fmt.Errorf("ensure chat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ensure chat rows: %w", err)
	}
	return n > 0, nil
}

// SaveMessage appends one turn to the durable history log. Callers treat a
// failure as non-fatal: log and continue, never block the response path.
func (s *Store) SaveMessage(ctx context.Context, chatID, userID int64, role, text string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_history (chat_id, user_id, role, message_text) VALUES (?, ?, ?, ?)`,
		chatID, userID, role, text)
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// Summary returns the current conversation summary, or "" when none exists.
func (s *Store) Summary(ctx context.Context, chatID int64) (string, error) {
	var summary string
	err := s.db.QueryRowContext(ctx,
		`SELECT summary FROM conversation_summary WHERE chat_id = ?`, chatID).Scan(&summary)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get summary: %w", err)
	}
	return summary, nil
}

// UpsertSummary overwrites the conversation summary in place.
func (s *Store) UpsertSummary(ctx context.Context, chatID int64, summary string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversation_summary (chat_id, summary, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(chat_id) DO UPDATE SET summary = excluded.summary, updated_at = CURRENT_TIMESTAMP`,
		chatID, summary)
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}
