package store

import (
	"context"
	"fmt"
)

// SaveFeedback records a rating for a delivered answer. One row per
// (chat, message, user): rating again replaces the previous rating rather
// than appending a duplicate.
func (s *Store) SaveFeedback(ctx context.Context, chatID, userID int64, messageID int, messageText string, rating int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (chat_id, user_id, message_id, message_text, rating)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(chat_id, message_id, user_id)
		 DO UPDATE SET rating = excluded.rating, created_at = CURRENT_TIMESTAMP`,
		chatID, userID, messageID, messageText, rating)
	if err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}
