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

// Package actorbank implements the actor-based bank account. Each account is
// an isolated sequential processor: its balance is touched only by its own
// actor, one mailbox message at a time, so no lock exists anywhere in this
// package.
package actorbank

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tochemey/goakt/v4/actor"

	"github.com/moneta-labs/banksim/internal/bank"
	"github.com/moneta-labs/banksim/internal/journal"
)

// AccountEntity is the actor behind one account. The mailbox gives a single
// global sequential history per account: messages from one caller are
// processed in issue order, messages from different callers in arrival order.
// Business failures are answered as *Fault replies and never stop the actor.
type AccountEntity struct {
	number  string
	owner   string
	opening decimal.Decimal
	rules   bank.Rules

	balance decimal.Decimal
	// pendingDebits holds transfer debits that have not completed yet, keyed
	// by saga correlation id. A compensation is applied only when its debit
	// is present, and the entry is dropped afterwards, so a duplicate
	// compensation is a no-op.
	pendingDebits map[string]decimal.Decimal

	journal *journal.Journal
}

var _ actor.Actor = (*AccountEntity)(nil)

// NewAccountEntity creates the actor for an account with the given opening
// balance. The opening balance is validated by the spawning side.
func NewAccountEntity(number, owner string, opening decimal.Decimal, rules bank.Rules) *AccountEntity {
	return &AccountEntity{
		number:  number,
		owner:   owner,
		opening: opening,
		rules:   rules,
	}
}

// PreStart initializes the account state before the first message is taken.
func (x *AccountEntity) PreStart(ctx *actor.Context) error {
	x.balance = x.rules.Round(x.opening)
	x.pendingDebits = make(map[string]decimal.Decimal)
	if ext := ctx.Extension(journal.ExtensionID); ext != nil {
		x.journal = ext.(*journal.Journal)
		x.journal.Record(journal.Entry{
			Account:    x.number,
			Kind:       journal.KindOpen,
			Amount:     x.balance,
			NewBalance: x.balance,
		})
	}
	return nil
}

// Receive processes one message to completion before the next is taken. This
// serialization is the sole correctness mechanism of the actor account.
func (x *AccountEntity) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *actor.PostStart:
		ctx.Logger().Infof("account=%s started with balance=%s", x.number, x.balance)

	case *Deposit:
		x.handleDeposit(ctx, msg)

	case *Withdraw:
		x.handleWithdraw(ctx, msg)

	case *GetBalance:
		ctx.Response(x.balanceReply())

	case *DebitForTransfer:
		x.handleDebitForTransfer(ctx, msg)

	case *CreditForTransfer:
		x.handleCreditForTransfer(ctx, msg)

	case *CompensateCredit:
		x.handleCompensateCredit(ctx, msg)

	case *CompleteTransfer:
		delete(x.pendingDebits, msg.TransferID)

	default:
		ctx.Unhandled()
	}
}

// PostStop runs after the mailbox is drained and the actor stops.
func (x *AccountEntity) PostStop(*actor.Context) error {
	return nil
}

func (x *AccountEntity) handleDeposit(ctx *actor.ReceiveContext, msg *Deposit) {
	amt, err := x.rules.ValidateAmount(msg.Amount)
	if err != nil {
		ctx.Response(newFault(err))
		return
	}
	if err := x.rules.CheckCredit(x.balance, amt); err != nil {
		ctx.Response(newFault(err))
		return
	}
	x.credit(amt, journal.KindDeposit, "")
	ctx.Response(x.balanceReply())
}

func (x *AccountEntity) handleWithdraw(ctx *actor.ReceiveContext, msg *Withdraw) {
	amt, err := x.rules.ValidateAmount(msg.Amount)
	if err != nil {
		ctx.Response(newFault(err))
		return
	}
	if x.balance.LessThan(amt) {
		ctx.Response(newFault(bank.ErrInsufficientFunds))
		return
	}
	x.debit(amt, journal.KindWithdraw, "")
	ctx.Response(x.balanceReply())
}

func (x *AccountEntity) handleDebitForTransfer(ctx *actor.ReceiveContext, msg *DebitForTransfer) {
	amt, err := x.rules.ValidateAmount(msg.Amount)
	if err != nil {
		ctx.Response(newFault(err))
		return
	}
	if x.balance.LessThan(amt) {
		ctx.Response(newFault(bank.ErrInsufficientFunds))
		return
	}
	x.debit(amt, journal.KindDebit, msg.TransferID)
	x.pendingDebits[msg.TransferID] = amt
	ctx.Response(x.balanceReply())
}

func (x *AccountEntity) handleCreditForTransfer(ctx *actor.ReceiveContext, msg *CreditForTransfer) {
	amt, err := x.rules.ValidateAmount(msg.Amount)
	if err != nil {
		ctx.Response(newFault(err))
		return
	}
	if err := x.rules.CheckCredit(x.balance, amt); err != nil {
		ctx.Response(newFault(err))
		return
	}
	x.credit(amt, journal.KindCredit, msg.TransferID)
	ctx.Response(x.balanceReply())
}

// handleCompensateCredit restores a debited amount after a failed credit
// step. No limit validation applies: the amount was already debited from this
// very account and must go back, whatever the configured caps say.
func (x *AccountEntity) handleCompensateCredit(ctx *actor.ReceiveContext, msg *CompensateCredit) {
	amt, pending := x.pendingDebits[msg.TransferID]
	if !pending {
		// duplicate or unmatched compensation: drop it, report the balance
		ctx.Logger().Warnf("account=%s ignoring unmatched compensation for transfer=%s", x.number, msg.TransferID)
		ctx.Response(x.balanceReply())
		return
	}
	delete(x.pendingDebits, msg.TransferID)
	x.credit(amt, journal.KindCompensation, msg.TransferID)
	ctx.Response(x.balanceReply())
}

func (x *AccountEntity) credit(amt decimal.Decimal, kind journal.Kind, transferID string) {
	x.applyDelay()
	x.balance = x.rules.Round(x.balance.Add(amt))
	x.record(kind, amt, transferID)
}

func (x *AccountEntity) debit(amt decimal.Decimal, kind journal.Kind, transferID string) {
	x.applyDelay()
	x.balance = x.rules.Round(x.balance.Sub(amt))
	x.record(kind, amt, transferID)
}

func (x *AccountEntity) record(kind journal.Kind, amt decimal.Decimal, transferID string) {
	if x.journal == nil {
		return
	}
	x.journal.Record(journal.Entry{
		Account:    x.number,
		Kind:       kind,
		Amount:     amt,
		NewBalance: x.balance,
		TransferID: transferID,
	})
}

func (x *AccountEntity) applyDelay() {
	if x.rules.CritDelay > 0 {
		time.Sleep(x.rules.CritDelay)
	}
}

func (x *AccountEntity) balanceReply() *Balance {
	return &Balance{AccountNumber: x.number, Amount: x.balance}
}
