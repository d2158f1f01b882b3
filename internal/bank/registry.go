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

package bank

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrDuplicateAccount reports an account number already present in the
// registry.
var ErrDuplicateAccount = errors.New("account number already exists")

// ErrUnknownAccount reports a lookup for an account number the registry has
// never seen.
var ErrUnknownAccount = errors.New("unknown account")

// Registry is the arena of lock-based accounts, indexed by account number.
// The canonical lock-acquisition order derives from that index, never from
// pointer identity. Accounts live for the registry's lifetime; they are never
// removed mid-run.
type Registry struct {
	rules Rules

	mu       sync.RWMutex
	accounts map[string]*Account
}

// NewRegistry creates an empty account registry governed by rules.
func NewRegistry(rules Rules) *Registry {
	return &Registry{
		rules:    rules,
		accounts: make(map[string]*Account),
	}
}

// CreateAccount opens a new account. It fails with ErrInvalidAmount for a
// negative opening balance and with ErrDuplicateAccount for a reused number.
func (r *Registry) CreateAccount(number, owner string, opening decimal.Decimal) (*Account, error) {
	account, err := NewAccount(number, owner, opening, r.rules)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[number]; exists {
		return nil, errors.Wrap(ErrDuplicateAccount, number)
	}
	r.accounts[number] = account
	return account, nil
}

// Lookup resolves an account by number.
func (r *Registry) Lookup(number string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[number]
	if !ok {
		return nil, errors.Wrap(ErrUnknownAccount, number)
	}
	return account, nil
}

// Transfer moves amount between two registered accounts.
func (r *Registry) Transfer(src, dst string, amount decimal.Decimal) error {
	source, err := r.Lookup(src)
	if err != nil {
		return err
	}
	dest, err := r.Lookup(dst)
	if err != nil {
		return err
	}
	return source.TransferTo(dest, amount)
}

// Accounts returns all accounts in canonical (ascending number) order.
func (r *Registry) Accounts() []*Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].number < out[j].number })
	return out
}

// TotalBalance sums every balance. Reads go through each account's lock, so
// the sum never includes a half-applied single-account mutation; a transfer
// in another goroutine may still land between two reads.
func (r *Registry) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, account := range r.Accounts() {
		total = total.Add(account.Balance())
	}
	return r.rules.Round(total)
}
