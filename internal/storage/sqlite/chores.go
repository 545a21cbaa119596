package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emel-04/FlatmateHarmony/internal/models"
	"github.com/emel-04/FlatmateHarmony/internal/storage"
)

// ReplaceAssignments swaps today's chore assignments wholesale inside a
// transaction, mirroring how the original app rewrites the whole set on
// every shuffle.
func (s *SQLiteStore) ReplaceAssignments(ctx context.Context, householdID string, assignments []models.ChoreAssignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chore_assignments WHERE household_id = ?", householdID); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}

	for _, a := range assignments {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chore_assignments (household_id, task_name, task_icon, member_id, member_name)
			 VALUES (?, ?, ?, ?, ?)`,
			householdID, a.Task.Name, a.Task.Icon, a.MemberID, a.MemberName,
		)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignments: %w", err)
	}
	return nil
}

// ListAssignments returns today's chore assignments in the order they
// were written, which is the task-list order.
func (s *SQLiteStore) ListAssignments(ctx context.Context, householdID string) ([]models.ChoreAssignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT task_name, task_icon, member_id, member_name
		 FROM chore_assignments WHERE household_id = ? ORDER BY rowid`,
		householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.ChoreAssignment
	for rows.Next() {
		var a models.ChoreAssignment
		if err := rows.Scan(&a.Task.Name, &a.Task.Icon, &a.MemberID, &a.MemberName); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return assignments, nil
}

// GetLastShuffleDate returns the date the daily shuffle last ran.
func (s *SQLiteStore) GetLastShuffleDate(ctx context.Context, householdID string) (string, error) {
	var date string
	err := s.db.QueryRowContext(ctx,
		"SELECT last_shuffle_date FROM households WHERE id = ?", householdID).Scan(&date)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("household %q: %w", householdID, storage.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last shuffle date: %w", err)
	}
	return date, nil
}

// SetLastShuffleDate records the date of the most recent shuffle.
func (s *SQLiteStore) SetLastShuffleDate(ctx context.Context, householdID, date string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE households SET last_shuffle_date = ? WHERE id = ?", date, householdID)
	if err != nil {
		return fmt.Errorf("failed to set last shuffle date: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set last shuffle date: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("household %q: %w", householdID, storage.ErrNotFound)
	}
	return nil
}

// AppendChoreDay archives one day's assignments. Assignments are stored
// as a JSON blob: history is read-only and never queried by field.
func (s *SQLiteStore) AppendChoreDay(ctx context.Context, day *models.ChoreDay) error {
	if day.ID == "" {
		day.ID = uuid.New().String()
	}
	if day.Timestamp == 0 {
		day.Timestamp = time.Now().UnixMilli()
	}

	blob, err := json.Marshal(day.Assignments)
	if err != nil {
		return fmt.Errorf("failed to encode assignments: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chore_days (id, household_id, date, assignments_json, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		day.ID, day.HouseholdID, day.Date, string(blob), day.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chore day: %w", err)
	}
	return nil
}

// ListChoreHistory returns the most recent chore days, newest first.
func (s *SQLiteStore) ListChoreHistory(ctx context.Context, householdID string, limit int) ([]models.ChoreDay, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, date, assignments_json, timestamp
		 FROM chore_days WHERE household_id = ?
		 ORDER BY date DESC LIMIT ?`,
		householdID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chore history: %w", err)
	}
	defer rows.Close()

	var days []models.ChoreDay
	for rows.Next() {
		var day models.ChoreDay
		var blob string
		if err := rows.Scan(&day.ID, &day.HouseholdID, &day.Date, &blob, &day.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan chore day: %w", err)
		}
		if err := json.Unmarshal([]byte(blob), &day.Assignments); err != nil {
			return nil, fmt.Errorf("failed to decode assignments: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chore history: %w", err)
	}
	return days, nil
}

// AddShoppingItem appends an item to the shopping list.
func (s *SQLiteStore) AddShoppingItem(ctx context.Context, item *models.ShoppingItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().UnixMilli()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shopping_items (id, household_id, name, note, added_by, bought, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.HouseholdID, item.Name, item.Note, item.AddedBy, item.Bought, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shopping item: %w", err)
	}
	return nil
}

// ListShoppingItems returns the list, oldest first.
func (s *SQLiteStore) ListShoppingItems(ctx context.Context, householdID string) ([]models.ShoppingItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, name, note, added_by, bought, created_at
		 FROM shopping_items WHERE household_id = ?
		 ORDER BY created_at, id`,
		householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}
	defer rows.Close()

	var items []models.ShoppingItem
	for rows.Next() {
		var item models.ShoppingItem
		if err := rows.Scan(&item.ID, &item.HouseholdID, &item.Name, &item.Note, &item.AddedBy, &item.Bought, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shopping item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping items: %w", err)
	}
	return items, nil
}

// ToggleShoppingItem flips the bought flag.
func (s *SQLiteStore) ToggleShoppingItem(ctx context.Context, householdID, itemID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE shopping_items SET bought = NOT bought WHERE household_id = ? AND id = ?",
		householdID, itemID)
	if err != nil {
		return fmt.Errorf("failed to toggle shopping item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to toggle shopping item: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("shopping item %q: %w", itemID, storage.ErrNotFound)
	}
	return nil
}

// DeleteShoppingItem removes an item.
func (s *SQLiteStore) DeleteShoppingItem(ctx context.Context, householdID, itemID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM shopping_items WHERE household_id = ? AND id = ?",
		householdID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete shopping item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete shopping item: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("shopping item %q: %w", itemID, storage.ErrNotFound)
	}
	return nil
}
