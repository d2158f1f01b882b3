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
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	goakt "github.com/tochemey/goakt/v4/actor"
	gerrors "github.com/tochemey/goakt/v4/errors"
	"github.com/tochemey/goakt/v4/log"
	"github.com/tochemey/goakt/v4/supervisor"

	"github.com/moneta-labs/banksim/internal/bank"
	"github.com/moneta-labs/banksim/internal/journal"
)

const systemName = "BankSystem"

// Bank owns the actor system and one long-lived account actor per account.
// External callers reach an account only through its mailbox; the Ask reply
// is the per-request completion signal the caller suspends on.
type Bank struct {
	system  goakt.ActorSystem
	rules   bank.Rules
	journal *journal.Journal
	timeout time.Duration
	logger  log.Logger
}

// New creates and starts the actor system backing the bank. askTimeout bounds
// every mailbox round trip so a lost reply fails the call instead of hanging
// it.
func New(ctx context.Context, rules bank.Rules, askTimeout time.Duration, logger log.Logger) (*Bank, error) {
	opsJournal := journal.New()
	system, err := goakt.NewActorSystem(
		systemName,
		goakt.WithLogger(logger),
		goakt.WithActorInitMaxRetries(3),
		goakt.WithExtensions(opsJournal),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create actor system")
	}
	if err := system.Start(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to start actor system")
	}
	return &Bank{
		system:  system,
		rules:   rules,
		journal: opsJournal,
		timeout: askTimeout,
		logger:  logger,
	}, nil
}

// Journal exposes the operation journal for verification and reporting.
func (b *Bank) Journal() *journal.Journal { return b.journal }

// Stop drains and stops every account actor, then the system. In-flight
// messages finish; further sends are rejected.
func (b *Bank) Stop(ctx context.Context) error {
	return b.system.Stop(ctx)
}

// CreateAccount spawns the account's actor. The worker starts at creation and
// remains the sole writer of the balance for the account's lifetime: it is
// spawned long-lived, and its supervisor resumes it on a panic so one failed
// message never terminates the processing loop.
func (b *Bank) CreateAccount(ctx context.Context, number, owner string, opening decimal.Decimal) error {
	validated, err := b.rules.ValidateOpening(opening)
	if err != nil {
		return err
	}
	if _, err := b.system.ActorOf(ctx, number); err == nil {
		return errors.Wrap(bank.ErrDuplicateAccount, number)
	}

	entity := NewAccountEntity(number, owner, validated, b.rules)
	_, err = b.system.Spawn(ctx, number, entity,
		goakt.WithLongLived(),
		goakt.WithSupervisor(
			supervisor.NewSupervisor(
				supervisor.WithStrategy(supervisor.OneForOneStrategy),
				supervisor.WithAnyErrorDirective(supervisor.ResumeDirective),
			)))
	if err != nil {
		return errors.Wrapf(err, "failed to spawn account %s", number)
	}
	return nil
}

// Deposit credits the account and returns the new balance.
func (b *Bank) Deposit(ctx context.Context, number string, amount decimal.Decimal) (decimal.Decimal, error) {
	return b.ask(ctx, number, &Deposit{Amount: amount})
}

// Withdraw debits the account and returns the new balance.
func (b *Bank) Withdraw(ctx context.Context, number string, amount decimal.Decimal) (decimal.Decimal, error) {
	return b.ask(ctx, number, &Withdraw{Amount: amount})
}

// Balance reads the balance through the account's mailbox, never around it.
func (b *Bank) Balance(ctx context.Context, number string) (decimal.Decimal, error) {
	return b.ask(ctx, number, &GetBalance{})
}

// Transfer moves amount between two accounts via the compensating saga and
// resolves once the saga reaches a terminal state.
func (b *Bank) Transfer(ctx context.Context, src, dst string, amount decimal.Decimal) error {
	_, err := b.RunTransfer(ctx, src, dst, amount)
	return err
}

// RunTransfer runs a transfer saga and returns it with its terminal state
// for callers that want to inspect the protocol outcome.
func (b *Bank) RunTransfer(ctx context.Context, src, dst string, amount decimal.Decimal) (*TransferSaga, error) {
	amt, err := b.rules.ValidateAmount(amount)
	if err != nil {
		return nil, err
	}
	if src == dst {
		return nil, errors.Wrap(bank.ErrInvalidAmount, "cannot transfer to the same account")
	}

	source, err := b.pidOf(ctx, src)
	if err != nil {
		return nil, err
	}
	dest, err := b.pidOf(ctx, dst)
	if err != nil {
		return nil, err
	}

	saga := NewTransferSaga(source, dest, amt, b.timeout, b.logger)
	return saga, saga.Run(ctx)
}

// TotalBalance sums the balances of the given accounts, each read through its
// own mailbox.
func (b *Bank) TotalBalance(ctx context.Context, numbers []string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, number := range numbers {
		balance, err := b.Balance(ctx, number)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(balance)
	}
	return b.rules.Round(total), nil
}

func (b *Bank) ask(ctx context.Context, number string, cmd Command) (decimal.Decimal, error) {
	pid, err := b.pidOf(ctx, number)
	if err != nil {
		return decimal.Zero, err
	}
	reply, err := askAccount(ctx, pid, cmd, b.timeout)
	if err != nil {
		return decimal.Zero, err
	}
	return reply.Amount, nil
}

func (b *Bank) pidOf(ctx context.Context, number string) (*goakt.PID, error) {
	pid, err := b.system.ActorOf(ctx, number)
	if err != nil {
		if errors.Is(err, gerrors.ErrActorNotFound) {
			return nil, errors.Wrap(bank.ErrUnknownAccount, number)
		}
		return nil, errors.Wrapf(err, "failed to locate account %s", number)
	}
	return pid, nil
}
