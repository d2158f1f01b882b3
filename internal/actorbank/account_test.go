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

package actorbank

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tochemey/goakt/v4/log"

	"github.com/moneta-labs/banksim/internal/bank"
	"github.com/moneta-labs/banksim/internal/journal"
	"github.com/moneta-labs/banksim/internal/money"
)

func newTestBank(t *testing.T, rules bank.Rules) *Bank {
	t.Helper()
	ctx := context.TODO()
	b, err := New(ctx, rules, 5*time.Second, log.DiscardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Stop(context.TODO()) })
	return b
}

func TestActorAccount_DepositWithdrawBalance(t *testing.T) {
	ctx := context.TODO()
	b := newTestBank(t, bank.DefaultRules())

	require.NoError(t, b.CreateAccount(ctx, "ACT-0001", "alice", money.MustParse("100.00")))

	balance, err := b.Deposit(ctx, "ACT-0001", money.MustParse("25.50"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(money.MustParse("125.50")))

	balance, err = b.Withdraw(ctx, "ACT-0001", money.MustParse("0.50"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(money.MustParse("125.00")))

	balance, err = b.Balance(ctx, "ACT-0001")
	require.NoError(t, err)
	assert.True(t, balance.Equal(money.MustParse("125.00")))
}

func TestActorAccount_TypedFaultsKeepWorkerAlive(t *testing.T) {
	ctx := context.TODO()
	b := newTestBank(t, bank.DefaultRules())

	require.NoError(t, b.CreateAccount(ctx, "ACT-0001", "alice", money.MustParse("10.00")))

	_, err := b.Withdraw(ctx, "ACT-0001", money.MustParse("50.00"))
	require.ErrorIs(t, err, bank.ErrInsufficientFunds)

	_, err = b.Deposit(ctx, "ACT-0001", money.MustParse("-5.00"))
	require.ErrorIs(t, err, bank.ErrInvalidAmount)

	// failures are replies, not crashes: the same worker keeps serving
	balance, err := b.Balance(ctx, "ACT-0001")
	require.NoError(t, err)
	assert.True(t, balance.Equal(money.MustParse("10.00")))
}

func TestActorAccount_CreateValidation(t *testing.T) {
	ctx := context.TODO()
	b := newTestBank(t, bank.DefaultRules())

	require.ErrorIs(t, b.CreateAccount(ctx, "ACT-0001", "alice", money.MustParse("-1.00")), bank.ErrInvalidAmount)

	require.NoError(t, b.CreateAccount(ctx, "ACT-0001", "alice", decimal.Zero))
	require.ErrorIs(t, b.CreateAccount(ctx, "ACT-0001", "mallory", decimal.Zero), bank.ErrDuplicateAccount)
}

func TestActorAccount_UnknownAccount(t *testing.T) {
	ctx := context.TODO()
	b := newTestBank(t, bank.DefaultRules())

	_, err := b.Balance(ctx, "ACT-9999")
	require.ErrorIs(t, err, bank.ErrUnknownAccount)
}

// TestActorAccount_SequentialConsistency floods one account with concurrent
// deposits and withdrawals from many callers. The mailbox serializes them
// into one total order; replaying the journal in that order must land on
// exactly the balance the actor reports.
func TestActorAccount_SequentialConsistency(t *testing.T) {
	ctx := context.TODO()
	b := newTestBank(t, bank.DefaultRules())

	require.NoError(t, b.CreateAccount(ctx, "ACT-0001", "alice", money.MustParse("500.00")))

	const (
		callers       = 20
		opsPerCaller  = 25
		depositEvery  = 2
		depositAmount = "3.00"
		withdrawPull  = "10.00"
	)

	var wg sync.WaitGroup
	wg.Add(callers)
	for c := 0; c < callers; c++ {
		go func(c int) {
			defer wg.Done()
			for i := 0; i < opsPerCaller; i++ {
				if (c+i)%depositEvery == 0 {
					_, err := b.Deposit(ctx, "ACT-0001", money.MustParse(depositAmount))
					assert.NoError(t, err)
				} else if _, err := b.Withdraw(ctx, "ACT-0001", money.MustParse(withdrawPull)); err != nil {
					assert.ErrorIs(t, err, bank.ErrInsufficientFunds)
				}
			}
		}(c)
	}
	wg.Wait()

	final, err := b.Balance(ctx, "ACT-0001")
	require.NoError(t, err)
	assert.False(t, final.IsNegative())

	replayed := b.Journal().Replay("ACT-0001")
	assert.True(t, replayed.Equal(final),
		"journal replay %s != reported balance %s", replayed, final)

	// nothing but applied operations may appear in the journal
	for _, entry := range b.Journal().Entries("ACT-0001") {
		assert.Contains(t, []journal.Kind{journal.KindOpen, journal.KindDeposit, journal.KindWithdraw}, entry.Kind)
	}
}
