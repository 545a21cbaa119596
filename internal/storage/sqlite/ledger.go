package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emel-04/FlatmateHarmony/internal/models"
	"github.com/emel-04/FlatmateHarmony/internal/storage"
)

// CreateTransaction persists a new transaction, generating ID and
// CreatedAt if unset.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().UnixMilli()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, household_id, description, amount, payer_id, created_at, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.HouseholdID, t.Description, t.Amount, t.PayerID, t.CreatedAt, t.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// UpdateTransaction rewrites description, amount and image URL of an
// existing transaction. Payer and timestamp are immutable; the original
// client never changes them either.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET description = ?, amount = ?, image_url = ?
		 WHERE household_id = ? AND id = ?`,
		t.Description, t.Amount, t.ImageURL, t.HouseholdID, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %q: %w", t.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteTransaction removes a transaction.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, householdID, transactionID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE household_id = ? AND id = ?",
		householdID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %q: %w", transactionID, storage.ErrNotFound)
	}
	return nil
}

// GetTransaction retrieves a single transaction.
func (s *SQLiteStore) GetTransaction(ctx context.Context, householdID, transactionID string) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, household_id, description, amount, payer_id, created_at, image_url
		 FROM transactions WHERE household_id = ? AND id = ?`,
		householdID, transactionID,
	).Scan(&t.ID, &t.HouseholdID, &t.Description, &t.Amount, &t.PayerID, &t.CreatedAt, &t.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %q: %w", transactionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns transactions with created_at in [start, end),
// oldest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, householdID string, start, end int64) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, description, amount, payer_id, created_at, image_url
		 FROM transactions
		 WHERE household_id = ? AND created_at >= ? AND created_at < ?
		 ORDER BY created_at, id`,
		householdID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.HouseholdID, &t.Description, &t.Amount, &t.PayerID, &t.CreatedAt, &t.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

// CreatePayment appends a settlement payment. This is a single atomic
// insert: no stored balance is touched, balances are always recomputed.
func (s *SQLiteStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Timestamp == 0 {
		p.Timestamp = time.Now().UnixMilli()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, household_id, from_member, to_member, amount, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.HouseholdID, p.From, p.To, p.Amount, p.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// ListPayments returns payments with timestamp in [start, end), oldest
// first.
func (s *SQLiteStore) ListPayments(ctx context.Context, householdID string, start, end int64) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, from_member, to_member, amount, timestamp
		 FROM payments
		 WHERE household_id = ? AND timestamp >= ? AND timestamp < ?
		 ORDER BY timestamp, id`,
		householdID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.HouseholdID, &p.From, &p.To, &p.Amount, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}
