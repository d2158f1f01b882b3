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

// Package bank implements the lock-based bank account. Every account is
// passive data guarded by its own mutex; multi-account transfers acquire both
// locks in ascending account-number order, which rules out wait-for cycles
// among any set of concurrent transfers.
package bank

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Account is a bank account protected by a mutual-exclusion lock. The account
// number is the canonical, immutable ordering key; the balance is only ever
// read or written with the lock held.
//
// Go mutexes are not reentrant, so exported methods lock exactly once and
// delegate to unexported *Locked helpers that assume the lock is held. No
// code path re-enters a held lock.
type Account struct {
	number string
	owner  string
	rules  Rules

	mu      sync.Mutex
	balance decimal.Decimal
}

// NewAccount creates a lock-based account with the given opening balance.
func NewAccount(number, owner string, opening decimal.Decimal, rules Rules) (*Account, error) {
	balance, err := rules.ValidateOpening(opening)
	if err != nil {
		return nil, err
	}
	return &Account{
		number:  number,
		owner:   owner,
		rules:   rules,
		balance: balance,
	}, nil
}

// Number returns the unique account number.
func (a *Account) Number() string { return a.number }

// Owner returns the informational owner metadata.
func (a *Account) Owner() string { return a.owner }

func (a *Account) String() string {
	return fmt.Sprintf("Account(%s, balance=%s)", a.number, a.Balance())
}

// Balance reads the balance through the same synchronization as writes.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Deposit adds amount to the balance and returns the new balance. It fails
// with ErrInvalidAmount when the amount violates the configured limits or the
// balance cap.
func (a *Account) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	amt, err := a.rules.ValidateAmount(amount)
	if err != nil {
		return decimal.Zero, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.creditLocked(amt); err != nil {
		return decimal.Zero, err
	}
	return a.balance, nil
}

// Withdraw subtracts amount from the balance and returns the new balance.
// The funds check and the mutation happen inside one critical section; there
// is no window for another operation to invalidate the check.
func (a *Account) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	amt, err := a.rules.ValidateAmount(amount)
	if err != nil {
		return decimal.Zero, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.debitLocked(amt); err != nil {
		return decimal.Zero, err
	}
	return a.balance, nil
}

// TransferTo moves amount from this account to other. Both locks are taken in
// ascending account-number order and released in reverse on every exit path,
// so both balances change atomically with respect to any other lock-abiding
// operation and no cycle of lock waits can form.
func (a *Account) TransferTo(other *Account, amount decimal.Decimal) error {
	amt, err := a.rules.ValidateAmount(amount)
	if err != nil {
		return err
	}
	if other == nil || a.number == other.number {
		return errors.Wrap(ErrInvalidAmount, "cannot transfer to the same account")
	}

	first, second := a, other
	if other.number < a.number {
		first, second = other, a
	}

	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	// re-validate with both locks held
	if a.balance.LessThan(amt) {
		return errors.Wrap(ErrInsufficientFunds, "insufficient funds for transfer")
	}
	if err := other.rules.CheckCredit(other.balance, amt); err != nil {
		return err
	}

	a.applyDelay()
	a.balance = a.rules.Round(a.balance.Sub(amt))
	other.balance = other.rules.Round(other.balance.Add(amt))
	return nil
}

// creditLocked applies a validated credit. Caller must hold a.mu.
func (a *Account) creditLocked(amt decimal.Decimal) error {
	if err := a.rules.CheckCredit(a.balance, amt); err != nil {
		return err
	}
	a.applyDelay()
	a.balance = a.rules.Round(a.balance.Add(amt))
	return nil
}

// debitLocked applies a validated debit. Caller must hold a.mu.
func (a *Account) debitLocked(amt decimal.Decimal) error {
	if a.balance.LessThan(amt) {
		return errors.Wrap(ErrInsufficientFunds, "insufficient funds")
	}
	a.applyDelay()
	a.balance = a.rules.Round(a.balance.Sub(amt))
	return nil
}

// applyDelay widens the critical section when configured, to make lost-update
// races observable in demonstrations. Caller must hold a.mu.
func (a *Account) applyDelay() {
	if a.rules.CritDelay > 0 {
		time.Sleep(a.rules.CritDelay)
	}
}
