// MIT License
//
// Copyright (c) 2026 Moneta Labs
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package journal records every mutation an account actor applies, in the
// exact order the actor processed it. The per-account sequence is the single
// total order the actor model guarantees; replaying it against the opening balance
// must reproduce the final balance exactly.
package journal

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tochemey/goakt/v4/extension"
)

// ExtensionID is the key account actors use to fetch the journal from their
// actor system.
const ExtensionID = "OperationJournal"

// Kind labels one applied operation.
type Kind string

const (
	KindOpen         Kind = "open"
	KindDeposit      Kind = "deposit"
	KindWithdraw     Kind = "withdraw"
	KindDebit        Kind = "transfer-debit"
	KindCredit       Kind = "transfer-credit"
	KindCompensation Kind = "compensation"
)

// Entry is one applied mutation: what happened, by how much, and the balance
// it produced.
type Entry struct {
	Account    string
	Kind       Kind
	Amount     decimal.Decimal
	NewBalance decimal.Decimal
	TransferID string
	At         time.Time
}

// Journal is an in-memory, append-only operation log keyed by account number.
// Safe for concurrent use; each account's worker is its only appender, so the
// per-account slice order is the worker's processing order.
type Journal struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

var _ extension.Extension = (*Journal)(nil)

// New creates an empty journal.
func New() *Journal {
	return &Journal{entries: make(map[string][]Entry)}
}

// ID implements extension.Extension.
func (j *Journal) ID() string { return ExtensionID }

// Record appends one applied operation.
func (j *Journal) Record(entry Entry) {
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	j.mu.Lock()
	j.entries[entry.Account] = append(j.entries[entry.Account], entry)
	j.mu.Unlock()
}

// Entries returns a copy of the account's applied operations in processing
// order.
func (j *Journal) Entries(account string) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	src := j.entries[account]
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}

// Len reports how many operations were applied to the account.
func (j *Journal) Len(account string) int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries[account])
}

// Replay recomputes the account's balance by applying its journal in order.
// The result must equal the balance the actor reports; any divergence means
// the serialized history was violated.
func (j *Journal) Replay(account string) decimal.Decimal {
	balance := decimal.Zero
	for _, entry := range j.Entries(account) {
		switch entry.Kind {
		case KindOpen, KindDeposit, KindCredit, KindCompensation:
			balance = balance.Add(entry.Amount)
		case KindWithdraw, KindDebit:
			balance = balance.Sub(entry.Amount)
		}
	}
	return balance
}

// Reset drops all recorded entries.
func (j *Journal) Reset() {
	j.mu.Lock()
	j.entries = make(map[string][]Entry)
	j.mu.Unlock()
}
