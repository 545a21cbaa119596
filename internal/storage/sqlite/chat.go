package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emel-04/FlatmateHarmony/internal/models"
)

// CreateMessage persists a chat message, generating ID and Timestamp if
// unset.
func (s *SQLiteStore) CreateMessage(ctx context.Context, m *models.ChatMessage) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Timestamp == 0 {
		m.Timestamp = time.Now().UnixMilli()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, household_id, sender_id, sender_name, content, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.HouseholdID, m.SenderID, m.SenderName, m.Content, m.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListMessages returns the most recent messages in chronological order.
func (s *SQLiteStore) ListMessages(ctx context.Context, householdID string, limit int) ([]models.ChatMessage, error) {
	// Fetch newest-first with the limit, then reverse so the client
	// receives chronological order.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, sender_id, sender_name, content, timestamp
		 FROM messages WHERE household_id = ?
		 ORDER BY timestamp DESC, id DESC LIMIT ?`,
		householdID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.HouseholdID, &m.SenderID, &m.SenderName, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
