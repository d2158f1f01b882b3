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
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-labs/banksim/internal/money"
)

func TestAccount_DepositAndWithdraw(t *testing.T) {
	account, err := NewAccount("ACC-0001", "alice", money.MustParse("100.00"), DefaultRules())
	require.NoError(t, err)

	balance, err := account.Deposit(money.MustParse("25.50"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(money.MustParse("125.50")))

	balance, err = account.Withdraw(money.MustParse("0.50"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(money.MustParse("125.00")))
}

func TestAccount_WithdrawInsufficientFunds(t *testing.T) {
	account, err := NewAccount("ACC-0001", "alice", money.MustParse("10.00"), DefaultRules())
	require.NoError(t, err)

	_, err = account.Withdraw(money.MustParse("50.00"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, account.Balance().Equal(money.MustParse("10.00")), "failed withdrawal must not move the balance")
}

func TestAccount_InvalidAmounts(t *testing.T) {
	account, err := NewAccount("ACC-0001", "alice", money.MustParse("10.00"), DefaultRules())
	require.NoError(t, err)

	for _, amount := range []string{"-5.00", "0", "0.001", "1000000.01"} {
		_, err := account.Deposit(money.MustParse(amount))
		require.ErrorIs(t, err, ErrInvalidAmount, "deposit %s", amount)
		_, err = account.Withdraw(money.MustParse(amount))
		require.ErrorIs(t, err, ErrInvalidAmount, "withdraw %s", amount)
	}
	assert.True(t, account.Balance().Equal(money.MustParse("10.00")))
}

func TestAccount_NegativeOpeningBalance(t *testing.T) {
	_, err := NewAccount("ACC-0001", "alice", money.MustParse("-1.00"), DefaultRules())
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAccount_BalanceCap(t *testing.T) {
	rules := DefaultRules()
	rules.MaxAccountBalance = money.MustParse("150.00")

	account, err := NewAccount("ACC-0001", "alice", money.MustParse("100.00"), rules)
	require.NoError(t, err)

	_, err = account.Deposit(money.MustParse("60.00"))
	require.ErrorIs(t, err, ErrInvalidAmount)
	assert.True(t, account.Balance().Equal(money.MustParse("100.00")))

	_, err = account.Deposit(money.MustParse("50.00"))
	require.NoError(t, err)
}

func TestAccount_Transfer(t *testing.T) {
	rules := DefaultRules()
	a, err := NewAccount("ACC-0001", "alice", money.MustParse("100.00"), rules)
	require.NoError(t, err)
	b, err := NewAccount("ACC-0002", "bob", money.MustParse("50.00"), rules)
	require.NoError(t, err)

	require.NoError(t, a.TransferTo(b, money.MustParse("30.00")))
	assert.True(t, a.Balance().Equal(money.MustParse("70.00")))
	assert.True(t, b.Balance().Equal(money.MustParse("80.00")))

	// funds check happens with both locks held
	err = a.TransferTo(b, money.MustParse("1000.00"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, a.Balance().Equal(money.MustParse("70.00")))
	assert.True(t, b.Balance().Equal(money.MustParse("80.00")))
}

func TestAccount_SelfTransferRejected(t *testing.T) {
	a, err := NewAccount("ACC-0001", "alice", money.MustParse("100.00"), DefaultRules())
	require.NoError(t, err)

	require.ErrorIs(t, a.TransferTo(a, money.MustParse("10.00")), ErrInvalidAmount)
	require.ErrorIs(t, a.TransferTo(nil, money.MustParse("10.00")), ErrInvalidAmount)
}

func TestAccount_ConcurrentDeposits(t *testing.T) {
	account, err := NewAccount("ACC-0001", "alice", decimal.Zero, DefaultRules())
	require.NoError(t, err)

	const workers = 1000
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := account.Deposit(money.MustParse("1.00"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, account.Balance().Equal(decimal.NewFromInt(workers)), "lost update: got %s", account.Balance())
}

func TestAccount_NoNegativeBalanceUnderContention(t *testing.T) {
	account, err := NewAccount("ACC-0001", "alice", money.MustParse("50.00"), DefaultRules())
	require.NoError(t, err)

	const workers = 100
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			// each withdrawal either fully succeeds or leaves the balance alone
			if _, err := account.Withdraw(money.MustParse("7.00")); err != nil {
				assert.True(t, errors.Is(err, ErrInsufficientFunds))
			}
		}()
	}
	wg.Wait()

	assert.False(t, account.Balance().IsNegative(), "balance went negative: %s", account.Balance())
	// 50.00 / 7.00 allows exactly 7 withdrawals: 50 - 49 = 1.00 left
	assert.True(t, account.Balance().Equal(money.MustParse("1.00")))
}

// TestTransfer_DeadlockFreedom issues many randomly-directed transfers over a
// fixed set of accounts from many goroutines. With the canonical
// lock-acquisition order no wait-for cycle can form, so the run must finish
// well within the deadline, and the closed economy must conserve money
// exactly.
func TestTransfer_DeadlockFreedom(t *testing.T) {
	const (
		numAccounts      = 8
		workers          = 16
		transfersPerUser = 200
	)

	rules := DefaultRules()
	registry := NewRegistry(rules)
	for i := 0; i < numAccounts; i++ {
		_, err := registry.CreateAccount(fmt.Sprintf("ACC-%04d", i+1), "user", money.MustParse("100.00"))
		require.NoError(t, err)
	}
	initialTotal := registry.TotalBalance()

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			rng := rand.New(rand.NewSource(int64(w) + 42))
			go func(rng *rand.Rand) {
				defer wg.Done()
				accounts := registry.Accounts()
				for i := 0; i < transfersPerUser; i++ {
					src := accounts[rng.Intn(len(accounts))]
					dst := accounts[rng.Intn(len(accounts))]
					if src.Number() == dst.Number() {
						continue
					}
					amount := decimal.New(int64(rng.Intn(2000)+1), -2)
					if err := src.TransferTo(dst, amount); err != nil {
						assert.True(t, errors.Is(err, ErrInsufficientFunds), "unexpected transfer error: %v", err)
					}
				}
			}(rng)
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("transfers did not finish: possible deadlock")
	}

	assert.True(t, registry.TotalBalance().Equal(initialTotal),
		"money drift: started with %s, ended with %s", initialTotal, registry.TotalBalance())
	for _, account := range registry.Accounts() {
		assert.False(t, account.Balance().IsNegative(), "account %s went negative", account.Number())
	}
}
