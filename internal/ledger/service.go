// Package ledger binds the settlement engine to stored households and
// calendar months, and owns all transaction and payment mutations.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/emel-04/FlatmateHarmony/internal/models"
	"github.com/emel-04/FlatmateHarmony/internal/settle"
	"github.com/emel-04/FlatmateHarmony/internal/storage"
)

// Store is the slice of persistence the ledger service needs.
type Store interface {
	GetHousehold(ctx context.Context, householdID string) (*models.Household, error)
	ListMembers(ctx context.Context, householdID string) ([]models.Member, error)
	storage.LedgerStore
}

// Service orchestrates roster, ledger store and settlement engine.
// It is stateless; balances are recomputed from the transaction and
// payment log on every read and never persisted.
type Service struct {
	store Store
}

// NewService creates a ledger service on top of the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// MonthWindow returns the half-open interval [start, end) in Unix
// milliseconds covering the given calendar month, in the server's local
// calendar. Month boundaries follow the local timezone, matching the
// behavior households already see in the app.
func MonthWindow(year int, month time.Month) (start, end int64) {
	s := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return s.UnixMilli(), s.AddDate(0, 1, 0).UnixMilli()
}

// MonthSnapshot computes the financial snapshot for one household and
// one calendar month.
//
// Roster, transactions and payments are read without a cross-collection
// transaction; a write racing the reads may or may not be included,
// which the next recompute corrects.
func (s *Service) MonthSnapshot(ctx context.Context, householdID string, year int, month time.Month) (*models.Snapshot, error) {
	if _, err := s.store.GetHousehold(ctx, householdID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrHouseholdNotFound, householdID)
		}
		return nil, fmt.Errorf("lookup household: %w", err)
	}

	roster, err := s.store.ListMembers(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyHousehold, householdID)
	}

	members := make([]string, len(roster))
	onRoster := make(map[string]bool, len(roster))
	for i, m := range roster {
		members[i] = m.ID
		onRoster[m.ID] = true
	}

	start, end := MonthWindow(year, month)
	transactions, err := s.store.ListTransactions(ctx, householdID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	payments, err := s.store.ListPayments(ctx, householdID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch payments: %w", err)
	}

	// Data-integrity watch: references to IDs outside the roster are
	// tolerated by the engine but worth surfacing in the logs.
	for _, t := range transactions {
		if !onRoster[t.PayerID] {
			slog.Warn("transaction payer not on roster",
				"household_id", householdID, "transaction_id", t.ID, "payer_id", t.PayerID)
		}
	}
	for _, p := range payments {
		if !onRoster[p.From] || !onRoster[p.To] {
			slog.Warn("payment references id off roster",
				"household_id", householdID, "payment_id", p.ID, "from", p.From, "to", p.To)
		}
	}

	snap, err := settle.Compute(members, transactions, payments)
	if err != nil {
		// Unreachable given the roster check above, but never swallow.
		return nil, fmt.Errorf("compute snapshot: %w", err)
	}
	return snap, nil
}

// RecordTransaction validates and appends a new transaction, returning
// its generated ID. Callers recompute the snapshot afterwards; the
// service does not push updates.
func (s *Service) RecordTransaction(ctx context.Context, householdID, description string, amount int64, payerID, imageURL string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	if payerID == "" {
		return "", fmt.Errorf("%w: payer", ErrInvalidPayer)
	}

	t := &models.Transaction{
		HouseholdID: householdID,
		Description: description,
		Amount:      amount,
		PayerID:     payerID,
		CreatedAt:   time.Now().UnixMilli(),
		ImageURL:    imageURL,
	}
	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return "", fmt.Errorf("record transaction: %w", err)
	}
	return t.ID, nil
}

// UpdateTransaction rewrites an existing transaction's description,
// amount and image URL.
func (s *Service) UpdateTransaction(ctx context.Context, householdID, transactionID, description string, amount int64, imageURL string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}

	t := &models.Transaction{
		ID:          transactionID,
		HouseholdID: householdID,
		Description: description,
		Amount:      amount,
		ImageURL:    imageURL,
	}
	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a transaction.
func (s *Service) DeleteTransaction(ctx context.Context, householdID, transactionID string) error {
	if err := s.store.DeleteTransaction(ctx, householdID, transactionID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// ListTransactions returns the transactions for one calendar month,
// oldest first, for the transaction history screen.
func (s *Service) ListTransactions(ctx context.Context, householdID string, year int, month time.Month) ([]models.Transaction, error) {
	start, end := MonthWindow(year, month)
	txs, err := s.store.ListTransactions(ctx, householdID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	return txs, nil
}

// ConfirmPayment converts a suggested transfer into a settled fact: a
// single atomic append of a Payment record stamped now. No stored
// balance is updated; the next snapshot recompute folds the payment in.
//
// There is no undo. A mistaken confirmation is corrected by recording
// an inverse payment.
func (s *Service) ConfirmPayment(ctx context.Context, householdID string, transfer models.Transfer) (*models.Payment, error) {
	if transfer.Amount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAmount, transfer.Amount)
	}
	if transfer.From == "" || transfer.To == "" {
		return nil, fmt.Errorf("%w: from and to", ErrInvalidPayer)
	}
	if transfer.From == transfer.To {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransfer, transfer.From)
	}

	p := &models.Payment{
		HouseholdID: householdID,
		From:        transfer.From,
		To:          transfer.To,
		Amount:      transfer.Amount,
		Timestamp:   time.Now().UnixMilli(),
	}
	if err := s.store.CreatePayment(ctx, p); err != nil {
		return nil, fmt.Errorf("confirm payment: %w", err)
	}
	return p, nil
}
