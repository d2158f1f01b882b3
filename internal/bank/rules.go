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
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/moneta-labs/banksim/internal/money"
)

// Rules is the single source of truth for the business limits every account
// operation is validated against. Both the lock-based and the actor-based
// accounts consume the same instance.
type Rules struct {
	// Scale is the number of fractional digits amounts are rounded to.
	Scale int32
	// MinTransaction and MaxTransaction bound every deposit, withdrawal and
	// transfer amount, inclusive.
	MinTransaction decimal.Decimal
	MaxTransaction decimal.Decimal
	// MaxAccountBalance optionally caps any single account's balance. A
	// credit that would exceed it is rejected as invalid. Zero value means
	// uncapped.
	MaxAccountBalance decimal.Decimal
	// CritDelay widens the critical section for race demonstrations. Zero in
	// production use.
	CritDelay time.Duration
}

// DefaultRules mirrors the stock configuration: two fractional digits,
// transactions between 0.01 and 1,000,000.00, no balance cap.
func DefaultRules() Rules {
	return Rules{
		Scale:          money.DefaultScale,
		MinTransaction: money.MustParse("0.01"),
		MaxTransaction: money.MustParse("1000000.00"),
	}
}

// Round normalizes an amount to the configured scale.
func (r Rules) Round(d decimal.Decimal) decimal.Decimal {
	return money.Round(d, r.Scale)
}

// ValidateAmount checks a transaction amount against the configured limits
// and returns it normalized. Validation is pure: no lock is needed and no
// account state is read.
func (r Rules) ValidateAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	amt := r.Round(amount)
	if amt.LessThan(r.MinTransaction) {
		return decimal.Zero, errors.Wrapf(ErrInvalidAmount, "amount must be >= %s", r.MinTransaction)
	}
	if amt.GreaterThan(r.MaxTransaction) {
		return decimal.Zero, errors.Wrapf(ErrInvalidAmount, "amount must be <= %s", r.MaxTransaction)
	}
	return amt, nil
}

// ValidateOpening checks an opening balance, which may be zero but never
// negative, and returns it normalized.
func (r Rules) ValidateOpening(balance decimal.Decimal) (decimal.Decimal, error) {
	opening := r.Round(balance)
	if opening.IsNegative() {
		return decimal.Zero, errors.Wrap(ErrInvalidAmount, "opening balance must be >= 0")
	}
	return opening, nil
}

// CheckCredit rejects a credit that would push balance over the configured
// account cap. Must be evaluated against the balance it will be applied to,
// inside the same critical section or worker step as the mutation.
func (r Rules) CheckCredit(balance, amount decimal.Decimal) error {
	if r.MaxAccountBalance.IsZero() {
		return nil
	}
	if balance.Add(amount).GreaterThan(r.MaxAccountBalance) {
		return errors.Wrapf(ErrInvalidAmount, "credit would exceed balance cap %s", r.MaxAccountBalance)
	}
	return nil
}
