// Package household manages residences, rosters and the chore board.
//
// The roster this package returns is the Roster Provider for the
// settlement engine: member order is membership insertion order, stable
// across calls, and the engine assigns rounding remainders by it.
package household

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/emel-04/FlatmateHarmony/internal/models"
	"github.com/emel-04/FlatmateHarmony/internal/storage"
)

var (
	// ErrNotFound is returned when a household or member lookup fails.
	ErrNotFound = errors.New("household not found")

	// ErrInvalidCode is returned when a join code matches no household.
	ErrInvalidCode = errors.New("no household with that code")

	// ErrEmptyName is returned when a member is added without a name.
	ErrEmptyName = errors.New("member name required")
)

// DefaultTasks is the chore list every new household starts with,
// matching the set the mobile client renders.
var DefaultTasks = []models.ChoreTask{
	{Name: "Dishes", Icon: "🍽️"},
	{Name: "Trash", Icon: "🗑️"},
	{Name: "Sweeping", Icon: "🧹"},
	{Name: "Laundry", Icon: "🧺"},
	{Name: "Groceries", Icon: "🛒"},
}

// Service manages households, rosters, chores and the shopping list.
type Service struct {
	store storage.Store
	// now is injectable for shuffle-guard tests.
	now func() time.Time
}

// NewService creates a household service on top of the given store.
func NewService(store storage.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Create sets up a new household owned by the given user and adds the
// owner to the roster under the given display name.
func (s *Service) Create(ctx context.Context, ownerID, ownerName, address string, rent int64) (*models.Household, error) {
	h := &models.Household{
		Address: address,
		Rent:    rent,
		OwnerID: ownerID,
	}
	if err := s.store.CreateHousehold(ctx, h); err != nil {
		return nil, fmt.Errorf("create household: %w", err)
	}

	m := &models.Member{HouseholdID: h.ID, Name: ownerName, UserID: ownerID}
	if err := s.store.AddMember(ctx, m); err != nil {
		return nil, fmt.Errorf("add owner to roster: %w", err)
	}

	slog.Info("household created", "household_id", h.ID, "home_code", h.HomeCode)
	return h, nil
}

// Join adds a user to the household matching the given home code.
func (s *Service) Join(ctx context.Context, homeCode, userID, name string) (*models.Household, *models.Member, error) {
	if name == "" {
		return nil, nil, ErrEmptyName
	}

	h, err := s.store.GetHouseholdByCode(ctx, homeCode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", ErrInvalidCode, homeCode)
		}
		return nil, nil, fmt.Errorf("lookup household by code: %w", err)
	}

	m := &models.Member{HouseholdID: h.ID, Name: name, UserID: userID}
	if err := s.store.AddMember(ctx, m); err != nil {
		return nil, nil, fmt.Errorf("join household: %w", err)
	}
	return h, m, nil
}

// Get retrieves a household by ID.
func (s *Service) Get(ctx context.Context, householdID string) (*models.Household, error) {
	h, err := s.store.GetHousehold(ctx, householdID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, householdID)
		}
		return nil, fmt.Errorf("lookup household: %w", err)
	}
	return h, nil
}

// Members returns the roster in insertion order.
func (s *Service) Members(ctx context.Context, householdID string) ([]models.Member, error) {
	members, err := s.store.ListMembers(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}
	return members, nil
}

// AddMember appends a named member without a linked user account
// (a flatmate who has not signed up).
func (s *Service) AddMember(ctx context.Context, householdID, name string) (*models.Member, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	m := &models.Member{HouseholdID: householdID, Name: name}
	if err := s.store.AddMember(ctx, m); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return m, nil
}

// RemoveMember drops a member from the roster. Transactions they paid
// for are kept; the settlement engine carries them as a departed payer.
func (s *Service) RemoveMember(ctx context.Context, householdID, memberID string) error {
	if err := s.store.RemoveMember(ctx, householdID, memberID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

// Assignments returns today's chore board.
func (s *Service) Assignments(ctx context.Context, householdID string) ([]models.ChoreAssignment, error) {
	assignments, err := s.store.ListAssignments(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("fetch assignments: %w", err)
	}
	return assignments, nil
}

// ShuffleToday assigns tasks to members with a uniform shuffle, at most
// once per calendar day. Calling it again the same day returns the
// existing board unchanged. Yesterday's board is archived to history
// before being replaced.
func (s *Service) ShuffleToday(ctx context.Context, householdID string) ([]models.ChoreAssignment, error) {
	today := s.now().Format("2006-01-02")

	last, err := s.store.GetLastShuffleDate(ctx, householdID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, householdID)
		}
		return nil, fmt.Errorf("check shuffle date: %w", err)
	}
	if last == today {
		return s.Assignments(ctx, householdID)
	}

	members, err := s.store.ListMembers(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: no members to assign", ErrNotFound)
	}

	if last != "" {
		if err := s.archiveBoard(ctx, householdID, last); err != nil {
			return nil, err
		}
	}

	assignments := shuffleAssignments(members, DefaultTasks)
	if err := s.store.ReplaceAssignments(ctx, householdID, assignments); err != nil {
		return nil, fmt.Errorf("replace assignments: %w", err)
	}
	if err := s.store.SetLastShuffleDate(ctx, householdID, today); err != nil {
		return nil, fmt.Errorf("record shuffle date: %w", err)
	}

	slog.Info("chores shuffled", "household_id", householdID, "date", today, "tasks", len(assignments))
	return assignments, nil
}

// archiveBoard copies the current assignments into history under the
// given date.
func (s *Service) archiveBoard(ctx context.Context, householdID, date string) error {
	current, err := s.store.ListAssignments(ctx, householdID)
	if err != nil {
		return fmt.Errorf("fetch board for archive: %w", err)
	}
	if len(current) == 0 {
		return nil
	}
	day := &models.ChoreDay{
		HouseholdID: householdID,
		Date:        date,
		Assignments: current,
	}
	if err := s.store.AppendChoreDay(ctx, day); err != nil {
		return fmt.Errorf("archive chore board: %w", err)
	}
	return nil
}

// shuffleAssignments deals tasks over a shuffled roster round-robin, so
// every member gets a fair draw and every task has an owner.
func shuffleAssignments(members []models.Member, tasks []models.ChoreTask) []models.ChoreAssignment {
	shuffled := make([]models.Member, len(members))
	copy(shuffled, members)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	assignments := make([]models.ChoreAssignment, len(tasks))
	for i, task := range tasks {
		m := shuffled[i%len(shuffled)]
		assignments[i] = models.ChoreAssignment{
			Task:       task,
			MemberID:   m.ID,
			MemberName: m.Name,
		}
	}
	return assignments
}

// History returns the archived boards from the last week, excluding
// today's live board.
func (s *Service) History(ctx context.Context, householdID string) ([]models.ChoreDay, error) {
	days, err := s.store.ListChoreHistory(ctx, householdID, 7)
	if err != nil {
		return nil, fmt.Errorf("fetch chore history: %w", err)
	}
	return days, nil
}

// ShoppingList returns the household's shopping list, oldest first.
func (s *Service) ShoppingList(ctx context.Context, householdID string) ([]models.ShoppingItem, error) {
	items, err := s.store.ListShoppingItems(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("fetch shopping list: %w", err)
	}
	return items, nil
}

// AddShoppingItem appends an item to the list.
func (s *Service) AddShoppingItem(ctx context.Context, householdID, name, note, addedBy string) (*models.ShoppingItem, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	item := &models.ShoppingItem{
		HouseholdID: householdID,
		Name:        name,
		Note:        note,
		AddedBy:     addedBy,
	}
	if err := s.store.AddShoppingItem(ctx, item); err != nil {
		return nil, fmt.Errorf("add shopping item: %w", err)
	}
	return item, nil
}

// ToggleShoppingItem flips an item's bought flag.
func (s *Service) ToggleShoppingItem(ctx context.Context, householdID, itemID string) error {
	if err := s.store.ToggleShoppingItem(ctx, householdID, itemID); err != nil {
		return fmt.Errorf("toggle shopping item: %w", err)
	}
	return nil
}

// DeleteShoppingItem removes an item from the list.
func (s *Service) DeleteShoppingItem(ctx context.Context, householdID, itemID string) error {
	if err := s.store.DeleteShoppingItem(ctx, householdID, itemID); err != nil {
		return fmt.Errorf("delete shopping item: %w", err)
	}
	return nil
}
