package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/emel-04/FlatmateHarmony/internal/models"
	"github.com/emel-04/FlatmateHarmony/internal/storage/sqlite"
)

func newTestService(t *testing.T) (*Service, *sqlite.SQLiteStore) {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewService(store), store
}

// seedHousehold creates a household with members named by the given
// display names and returns the household plus member IDs in roster
// order.
func seedHousehold(t *testing.T, store *sqlite.SQLiteStore, names ...string) (*models.Household, []string) {
	t.Helper()
	ctx := context.Background()

	h := &models.Household{Address: "5 Tran Phu", OwnerID: "owner"}
	if err := store.CreateHousehold(ctx, h); err != nil {
		t.Fatalf("CreateHousehold failed: %v", err)
	}

	ids := make([]string, len(names))
	for i, name := range names {
		m := &models.Member{
			HouseholdID: h.ID,
			Name:        name,
			JoinedAt:    int64(1000 + i),
		}
		if err := store.AddMember(ctx, m); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		ids[i] = m.ID
	}
	return h, ids
}

func TestMonthSnapshotErrors(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	t.Run("missing household", func(t *testing.T) {
		_, err := svc.MonthSnapshot(ctx, "nope", 2026, time.September)
		if !errors.Is(err, ErrHouseholdNotFound) {
			t.Errorf("error = %v, want ErrHouseholdNotFound", err)
		}
	})

	t.Run("empty household", func(t *testing.T) {
		h := &models.Household{Address: "empty", OwnerID: "owner"}
		if err := store.CreateHousehold(ctx, h); err != nil {
			t.Fatalf("CreateHousehold failed: %v", err)
		}
		_, err := svc.MonthSnapshot(ctx, h.ID, 2026, time.September)
		if !errors.Is(err, ErrEmptyHousehold) {
			t.Errorf("error = %v, want ErrEmptyHousehold", err)
		}
	})
}

func TestMonthSnapshotWindow(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	h, ids := seedHousehold(t, store, "An", "Binh")

	start, end := MonthWindow(2026, time.August)

	// One transaction inside August, one exactly at the September
	// boundary (excluded: the window is half-open).
	inside := &models.Transaction{
		HouseholdID: h.ID, Description: "rent", Amount: 100,
		PayerID: ids[0], CreatedAt: start,
	}
	boundary := &models.Transaction{
		HouseholdID: h.ID, Description: "next month", Amount: 999,
		PayerID: ids[0], CreatedAt: end,
	}
	for _, tx := range []*models.Transaction{inside, boundary} {
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	snap, err := svc.MonthSnapshot(ctx, h.ID, 2026, time.August)
	if err != nil {
		t.Fatalf("MonthSnapshot failed: %v", err)
	}
	if snap.TotalAmount != 100 {
		t.Errorf("total = %d, want 100 (boundary transaction must be excluded)", snap.TotalAmount)
	}
	if snap.Balances[ids[0]] != 50 || snap.Balances[ids[1]] != -50 {
		t.Errorf("balances = %v", snap.Balances)
	}
}

func TestRecordAndConfirmFlow(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	h, ids := seedHousehold(t, store, "An", "Binh")

	now := time.Now()
	year, month := now.Year(), now.Month()

	txID, err := svc.RecordTransaction(ctx, h.ID, "groceries", 100, ids[0], "")
	if err != nil {
		t.Fatalf("RecordTransaction failed: %v", err)
	}
	if txID == "" {
		t.Fatal("expected a transaction ID")
	}

	snap, err := svc.MonthSnapshot(ctx, h.ID, year, month)
	if err != nil {
		t.Fatalf("MonthSnapshot failed: %v", err)
	}
	wantTransfer := models.Transfer{From: ids[1], To: ids[0], Amount: 50}
	if len(snap.Transfers) != 1 || snap.Transfers[0] != wantTransfer {
		t.Fatalf("transfers = %v, want [%+v]", snap.Transfers, wantTransfer)
	}

	// Debtor confirms the suggested transfer.
	payment, err := svc.ConfirmPayment(ctx, h.ID, snap.Transfers[0])
	if err != nil {
		t.Fatalf("ConfirmPayment failed: %v", err)
	}
	if payment.ID == "" || payment.Timestamp == 0 {
		t.Errorf("payment not stamped: %+v", payment)
	}

	// Recompute: balances are clear, nothing left to suggest.
	snap, err = svc.MonthSnapshot(ctx, h.ID, year, month)
	if err != nil {
		t.Fatalf("MonthSnapshot failed: %v", err)
	}
	for id, b := range snap.Balances {
		if b != 0 {
			t.Errorf("balance[%s] = %d after settlement, want 0", id, b)
		}
	}
	if len(snap.Transfers) != 0 {
		t.Errorf("transfers = %v after settlement, want none", snap.Transfers)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	h, ids := seedHousehold(t, store, "An", "Binh", "Chi")

	if _, err := svc.RecordTransaction(ctx, h.ID, "dinner", 977, ids[2], ""); err != nil {
		t.Fatalf("RecordTransaction failed: %v", err)
	}

	now := time.Now()
	first, err := svc.MonthSnapshot(ctx, h.ID, now.Year(), now.Month())
	if err != nil {
		t.Fatalf("MonthSnapshot failed: %v", err)
	}
	second, err := svc.MonthSnapshot(ctx, h.ID, now.Year(), now.Month())
	if err != nil {
		t.Fatalf("MonthSnapshot failed: %v", err)
	}

	if first.TotalAmount != second.TotalAmount ||
		len(first.Transfers) != len(second.Transfers) {
		t.Errorf("snapshots differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	for i := range first.Transfers {
		if first.Transfers[i] != second.Transfers[i] {
			t.Errorf("transfer[%d] differs: %+v vs %+v", i, first.Transfers[i], second.Transfers[i])
		}
	}
}

func TestMutationValidation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	h, ids := seedHousehold(t, store, "An", "Binh")

	t.Run("record rejects non-positive amount", func(t *testing.T) {
		for _, amount := range []int64{0, -5} {
			if _, err := svc.RecordTransaction(ctx, h.ID, "bad", amount, ids[0], ""); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("amount %d: error = %v, want ErrInvalidAmount", amount, err)
			}
		}
	})

	t.Run("record rejects missing payer", func(t *testing.T) {
		if _, err := svc.RecordTransaction(ctx, h.ID, "bad", 100, "", ""); !errors.Is(err, ErrInvalidPayer) {
			t.Errorf("error = %v, want ErrInvalidPayer", err)
		}
	})

	t.Run("update rejects non-positive amount", func(t *testing.T) {
		if err := svc.UpdateTransaction(ctx, h.ID, "any", "bad", 0, ""); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("error = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("confirm rejects self transfer", func(t *testing.T) {
		_, err := svc.ConfirmPayment(ctx, h.ID, models.Transfer{From: ids[0], To: ids[0], Amount: 10})
		if !errors.Is(err, ErrInvalidTransfer) {
			t.Errorf("error = %v, want ErrInvalidTransfer", err)
		}
	})

	t.Run("confirm rejects non-positive amount", func(t *testing.T) {
		_, err := svc.ConfirmPayment(ctx, h.ID, models.Transfer{From: ids[0], To: ids[1], Amount: 0})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("error = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("confirm rejects empty sides", func(t *testing.T) {
		for _, tr := range []models.Transfer{
			{From: "", To: ids[0], Amount: 30},
			{From: ids[0], To: "", Amount: 30},
		} {
			if _, err := svc.ConfirmPayment(ctx, h.ID, tr); !errors.Is(err, ErrInvalidPayer) {
				t.Errorf("transfer %+v: error = %v, want ErrInvalidPayer", tr, err)
			}
		}
	})
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2026, time.December)
	wantStart := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.Local).UnixMilli()
	wantEnd := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.Local).UnixMilli()
	if start != wantStart || end != wantEnd {
		t.Errorf("window = [%d, %d), want [%d, %d)", start, end, wantStart, wantEnd)
	}
}
