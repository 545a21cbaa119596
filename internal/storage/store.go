// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/emel-04/FlatmateHarmony/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
// Implementations wrap it with context; check with errors.Is.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations the services need.
// The abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	HouseholdStore
	LedgerStore
	ChoreStore
	ChatStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}

// HouseholdStore covers households and their rosters.
type HouseholdStore interface {
	// CreateHousehold persists a new household. ID, HomeCode and
	// CreatedAt are populated by the store if unset.
	CreateHousehold(ctx context.Context, h *models.Household) error

	// GetHousehold retrieves a household by ID.
	GetHousehold(ctx context.Context, householdID string) (*models.Household, error)

	// GetHouseholdByCode retrieves a household by its join code.
	GetHouseholdByCode(ctx context.Context, homeCode string) (*models.Household, error)

	// GetHouseholdByUser retrieves the household a user belongs to, if any.
	GetHouseholdByUser(ctx context.Context, userID string) (*models.Household, error)

	// AddMember appends a member to the roster. ID and JoinedAt are
	// populated by the store if unset.
	AddMember(ctx context.Context, m *models.Member) error

	// ListMembers returns the roster in insertion order. The order is
	// stable across calls; the settlement engine depends on it.
	ListMembers(ctx context.Context, householdID string) ([]models.Member, error)

	// RemoveMember deletes a member from the roster. Transactions the
	// member paid for are kept.
	RemoveMember(ctx context.Context, householdID, memberID string) error
}

// LedgerStore covers transactions and settlement payments.
// Window parameters are Unix millisecond timestamps forming the
// half-open interval [start, end).
type LedgerStore interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, householdID, transactionID string) error
	GetTransaction(ctx context.Context, householdID, transactionID string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, householdID string, start, end int64) ([]models.Transaction, error)

	// CreatePayment appends a settlement payment. Payments are
	// append-only; there is no update or delete.
	CreatePayment(ctx context.Context, p *models.Payment) error
	ListPayments(ctx context.Context, householdID string, start, end int64) ([]models.Payment, error)
}

// ChoreStore covers daily chore assignments and the shopping list.
type ChoreStore interface {
	// ReplaceAssignments swaps today's assignments wholesale.
	ReplaceAssignments(ctx context.Context, householdID string, assignments []models.ChoreAssignment) error
	ListAssignments(ctx context.Context, householdID string) ([]models.ChoreAssignment, error)

	// GetLastShuffleDate returns the yyyy-mm-dd date of the most recent
	// shuffle, or "" if none has run.
	GetLastShuffleDate(ctx context.Context, householdID string) (string, error)
	SetLastShuffleDate(ctx context.Context, householdID, date string) error

	AppendChoreDay(ctx context.Context, day *models.ChoreDay) error
	ListChoreHistory(ctx context.Context, householdID string, limit int) ([]models.ChoreDay, error)

	AddShoppingItem(ctx context.Context, item *models.ShoppingItem) error
	ListShoppingItems(ctx context.Context, householdID string) ([]models.ShoppingItem, error)
	ToggleShoppingItem(ctx context.Context, householdID, itemID string) error
	DeleteShoppingItem(ctx context.Context, householdID, itemID string) error
}

// ChatStore covers chat message persistence. Delivery is handled by the
// chat broker, not the store.
type ChatStore interface {
	CreateMessage(ctx context.Context, m *models.ChatMessage) error
	ListMessages(ctx context.Context, householdID string, limit int) ([]models.ChatMessage, error)
}

// UserStore covers registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
