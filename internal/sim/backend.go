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

// Package sim is the load-generation harness. It drives many concurrent
// operations against either account implementation through one backend
// interface and measures whether the correctness invariants hold under load.
package sim

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/moneta-labs/banksim/internal/actorbank"
	"github.com/moneta-labs/banksim/internal/bank"
)

// Handle is one account as seen by the harness: deposit, withdraw and
// balance, regardless of the concurrency strategy behind it.
type Handle interface {
	Number() string
	Deposit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error)
	Balance(ctx context.Context) (decimal.Decimal, error)
}

// Backend is a full account implementation under test.
type Backend interface {
	Name() string
	CreateAccount(ctx context.Context, number, owner string, opening decimal.Decimal) (Handle, error)
	Transfer(ctx context.Context, src, dst string, amount decimal.Decimal) error
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
	Close(ctx context.Context) error
}

// LockBackend adapts the lock-based registry.
type LockBackend struct {
	registry *bank.Registry
}

var _ Backend = (*LockBackend)(nil)

// NewLockBackend wraps a registry as a harness backend.
func NewLockBackend(registry *bank.Registry) *LockBackend {
	return &LockBackend{registry: registry}
}

func (b *LockBackend) Name() string { return "lock" }

func (b *LockBackend) CreateAccount(_ context.Context, number, owner string, opening decimal.Decimal) (Handle, error) {
	account, err := b.registry.CreateAccount(number, owner, opening)
	if err != nil {
		return nil, err
	}
	return &lockHandle{account: account}, nil
}

func (b *LockBackend) Transfer(_ context.Context, src, dst string, amount decimal.Decimal) error {
	return b.registry.Transfer(src, dst, amount)
}

func (b *LockBackend) TotalBalance(context.Context) (decimal.Decimal, error) {
	return b.registry.TotalBalance(), nil
}

func (b *LockBackend) Close(context.Context) error { return nil }

type lockHandle struct {
	account *bank.Account
}

func (h *lockHandle) Number() string { return h.account.Number() }

func (h *lockHandle) Deposit(_ context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	return h.account.Deposit(amount)
}

func (h *lockHandle) Withdraw(_ context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	return h.account.Withdraw(amount)
}

func (h *lockHandle) Balance(context.Context) (decimal.Decimal, error) {
	return h.account.Balance(), nil
}

// ActorBackend adapts the actor-based bank.
type ActorBackend struct {
	bank *actorbank.Bank

	mu      sync.Mutex
	numbers []string
}

var _ Backend = (*ActorBackend)(nil)

// NewActorBackend wraps an actor bank as a harness backend.
func NewActorBackend(b *actorbank.Bank) *ActorBackend {
	return &ActorBackend{bank: b}
}

func (b *ActorBackend) Name() string { return "actor" }

func (b *ActorBackend) CreateAccount(ctx context.Context, number, owner string, opening decimal.Decimal) (Handle, error) {
	if err := b.bank.CreateAccount(ctx, number, owner, opening); err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.numbers = append(b.numbers, number)
	b.mu.Unlock()
	return &actorHandle{bank: b.bank, number: number}, nil
}

func (b *ActorBackend) Transfer(ctx context.Context, src, dst string, amount decimal.Decimal) error {
	return b.bank.Transfer(ctx, src, dst, amount)
}

func (b *ActorBackend) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	b.mu.Lock()
	numbers := make([]string, len(b.numbers))
	copy(numbers, b.numbers)
	b.mu.Unlock()
	return b.bank.TotalBalance(ctx, numbers)
}

func (b *ActorBackend) Close(ctx context.Context) error {
	return b.bank.Stop(ctx)
}

type actorHandle struct {
	bank   *actorbank.Bank
	number string
}

func (h *actorHandle) Number() string { return h.number }

func (h *actorHandle) Deposit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	return h.bank.Deposit(ctx, h.number, amount)
}

func (h *actorHandle) Withdraw(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	return h.bank.Withdraw(ctx, h.number, amount)
}

func (h *actorHandle) Balance(ctx context.Context) (decimal.Decimal, error) {
	return h.bank.Balance(ctx, h.number)
}
