package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emel-04/FlatmateHarmony/internal/models"
	"github.com/emel-04/FlatmateHarmony/internal/storage"
)

// CreateHousehold persists a new household, generating an ID and a
// unique join code if unset. Retries the code on the rare collision.
func (s *SQLiteStore) CreateHousehold(ctx context.Context, h *models.Household) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.CreatedAt == 0 {
		h.CreatedAt = time.Now().UnixMilli()
	}

	for attempt := 0; ; attempt++ {
		if h.HomeCode == "" {
			code, err := generateHomeCode()
			if err != nil {
				return err
			}
			h.HomeCode = code
		}

		_, err := s.db.ExecContext(ctx,
			`INSERT INTO households (id, address, rent, owner_id, home_code, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			h.ID, h.Address, h.Rent, h.OwnerID, h.HomeCode, h.CreatedAt,
		)
		if err == nil {
			return nil
		}
		// UNIQUE violation on home_code: roll a new code and retry.
		if isUniqueViolation(err) && attempt < 3 {
			h.HomeCode = ""
			continue
		}
		return fmt.Errorf("failed to insert household: %w", err)
	}
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. modernc.org/sqlite does not export a typed error for this,
// so match on the message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// GetHousehold retrieves a household by ID.
func (s *SQLiteStore) GetHousehold(ctx context.Context, householdID string) (*models.Household, error) {
	return s.scanHousehold(s.db.QueryRowContext(ctx,
		`SELECT id, address, rent, owner_id, home_code, created_at
		 FROM households WHERE id = ?`, householdID), householdID)
}

// GetHouseholdByCode retrieves a household by its join code.
func (s *SQLiteStore) GetHouseholdByCode(ctx context.Context, homeCode string) (*models.Household, error) {
	return s.scanHousehold(s.db.QueryRowContext(ctx,
		`SELECT id, address, rent, owner_id, home_code, created_at
		 FROM households WHERE home_code = ?`, homeCode), homeCode)
}

// GetHouseholdByUser retrieves the household a user belongs to, if any.
func (s *SQLiteStore) GetHouseholdByUser(ctx context.Context, userID string) (*models.Household, error) {
	return s.scanHousehold(s.db.QueryRowContext(ctx,
		`SELECT h.id, h.address, h.rent, h.owner_id, h.home_code, h.created_at
		 FROM households h
		 JOIN members m ON m.household_id = h.id
		 WHERE m.user_id = ?
		 LIMIT 1`, userID), userID)
}

func (s *SQLiteStore) scanHousehold(row *sql.Row, key string) (*models.Household, error) {
	h := &models.Household{}
	err := row.Scan(&h.ID, &h.Address, &h.Rent, &h.OwnerID, &h.HomeCode, &h.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("household %q: %w", key, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get household: %w", err)
	}
	return h, nil
}

// AddMember appends a member to the roster.
func (s *SQLiteStore) AddMember(ctx context.Context, m *models.Member) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.JoinedAt == 0 {
		m.JoinedAt = time.Now().UnixMilli()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (id, household_id, name, user_id, joined_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.HouseholdID, m.Name, m.UserID, m.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// ListMembers returns the roster ordered by join time. Ties break on
// insertion order (rowid), so two members joining in the same
// millisecond still get a total, stable order.
func (s *SQLiteStore) ListMembers(ctx context.Context, householdID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, name, user_id, joined_at
		 FROM members WHERE household_id = ?
		 ORDER BY joined_at, rowid`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.HouseholdID, &m.Name, &m.UserID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// RemoveMember deletes a member from the roster.
func (s *SQLiteStore) RemoveMember(ctx context.Context, householdID, memberID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM members WHERE household_id = ? AND id = ?",
		householdID, memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("member %q: %w", memberID, storage.ErrNotFound)
	}
	return nil
}
