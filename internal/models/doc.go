// Package models defines the core domain models for FlatmateHarmony.
//
// # Conventions
//
// All monetary amounts are int64 values in the minor currency unit
// (e.g., cents). The settlement engine requires exact integer
// arithmetic, so no model ever stores money as a float.
//
// All timestamps are int64 Unix milliseconds, matching the wire format
// the mobile client already uses.
//
// # Model groups
//
//   - Household, Member: a shared residence and its roster. Roster order
//     is membership insertion order and is load-bearing: the settlement
//     engine distributes rounding remainders by that order.
//   - Transaction, Payment, Transfer, Snapshot: the shared-expense ledger.
//     Snapshot is derived, never persisted.
//   - ChoreTask, ChoreAssignment, ChoreDay, ShoppingItem: the chore roster.
//   - ChatMessage: household chat.
//   - User: a registered account. Members and users are distinct: a member
//     row belongs to a household and may or may not be linked to a user.
//
// # Design principles
//
//  1. Relationships use ID strings, not pointers, to avoid circular
//     references between packages.
//  2. Models carry no JSON tags; the API layer owns the external contract
//     through its DTO types.
package models
