// Package settle implements the shared-expense settlement engine.
//
// The engine is a pure function over (roster, transactions, payments):
// it performs no I/O, holds no state, and is safe to call concurrently.
// All arithmetic is exact int64 on minor currency units.
package settle

import (
	"errors"

	"github.com/emel-04/FlatmateHarmony/internal/models"
)

// ErrNoMembers is returned when the roster is empty. A snapshot cannot
// be computed without at least one member to divide the total over.
var ErrNoMembers = errors.New("household has no members")

// Compute derives the monthly financial snapshot for a household.
//
// members must be in roster order: rounding remainders are assigned to
// the earliest members, so a reordered roster produces different shares.
//
// Transactions whose payer is no longer on the roster, and payments that
// reference unknown IDs, are not dropped: the unknown ID (the empty
// string included) gets its own paid/balance entry with a share of zero.
// This keeps the balance zero-sum invariant intact when members leave
// mid-month.
func Compute(members []string, transactions []models.Transaction, payments []models.Payment) (*models.Snapshot, error) {
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	var total int64
	for _, t := range transactions {
		total += t.Amount
	}

	// Fair share division. Exact share is total/n; the first total%n
	// members in roster order carry one extra minor unit each, so the
	// shares sum to the total exactly.
	n := int64(len(members))
	quot, rem := total/n, total%n
	shares := make(map[string]int64, len(members))
	for i, m := range members {
		share := quot
		if int64(i) < rem {
			share++
		}
		shares[m] = share
	}

	// order tracks every ID we have seen, roster first, then unknown IDs
	// in encounter order. Maps iterate randomly in Go; the transfer plan
	// must be deterministic, so all iteration below walks this slice.
	order := make([]string, 0, len(members))
	seen := make(map[string]bool, len(members))
	track := func(id string) {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	for _, m := range members {
		track(m)
	}

	paid := make(map[string]int64, len(members))
	for _, m := range members {
		paid[m] = 0
	}
	for _, t := range transactions {
		track(t.PayerID)
		paid[t.PayerID] += t.Amount
	}

	balances := make(map[string]int64, len(members))
	for _, id := range order {
		balances[id] = paid[id] - shares[id]
	}

	// Fold in settled payments: the payer owes less, the payee is owed
	// less. Insert-if-absent semantics keep the sum at zero even for
	// IDs outside the roster.
	for _, p := range payments {
		track(p.From)
		track(p.To)
		balances[p.From] += p.Amount
		balances[p.To] -= p.Amount
	}

	return &models.Snapshot{
		Members:        append([]string(nil), members...),
		TotalAmount:    total,
		PerMemberShare: quot,
		Shares:         shares,
		Paid:           paid,
		Balances:       balances,
		Transfers:      suggestTransfers(order, balances),
	}, nil
}

// suggestTransfers produces a greedy settlement plan: each debtor, in
// order, pays creditors in order until its debt is gone. The result is
// not guaranteed minimal (that would be a bin-packing problem) but is
// deterministic, zeroes every balance, and emits at most one transfer
// per debtor/creditor pair.
func suggestTransfers(order []string, balances map[string]int64) []models.Transfer {
	var creditors []string
	var debtors []string
	for _, id := range order {
		switch {
		case balances[id] > 0:
			creditors = append(creditors, id)
		case balances[id] < 0:
			debtors = append(debtors, id)
		}
	}

	owed := make(map[string]int64, len(creditors))
	for _, c := range creditors {
		owed[c] = balances[c]
	}

	var transfers []models.Transfer
	for _, d := range debtors {
		remaining := -balances[d]
		for _, c := range creditors {
			if remaining <= 0 {
				break
			}
			if owed[c] <= 0 {
				continue
			}
			pay := min(remaining, owed[c])
			transfers = append(transfers, models.Transfer{From: d, To: c, Amount: pay})
			remaining -= pay
			owed[c] -= pay
		}
	}
	return transfers
}
