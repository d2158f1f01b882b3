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
	"github.com/shopspring/decimal"

	"github.com/moneta-labs/banksim/internal/bank"
)

// Command is the common interface implemented by every message an account
// actor understands. The worker processes commands strictly in mailbox order.
type Command interface {
	command()
}

// Deposit credits the account with Amount.
type Deposit struct {
	Amount decimal.Decimal `cbor:"amount"`
}

func (*Deposit) command() {}

// Withdraw debits the account by Amount, failing when funds are short.
type Withdraw struct {
	Amount decimal.Decimal `cbor:"amount"`
}

func (*Withdraw) command() {}

// GetBalance asks for the current balance. Reads travel the same mailbox as
// writes; there is no unsynchronized read path.
type GetBalance struct{}

func (*GetBalance) command() {}

// DebitForTransfer is the saga's first step: debit the source account and
// remember the debit under TransferID so it can be compensated later.
type DebitForTransfer struct {
	Amount     decimal.Decimal `cbor:"amount"`
	TransferID string          `cbor:"transfer_id"`
}

func (*DebitForTransfer) command() {}

// CreditForTransfer is the saga's second step: credit the destination.
type CreditForTransfer struct {
	Amount     decimal.Decimal `cbor:"amount"`
	TransferID string          `cbor:"transfer_id"`
}

func (*CreditForTransfer) command() {}

// CompensateCredit restores a debited amount to the source after a failed
// credit step. Correlated by TransferID; applied at most once and only when
// the matching debit actually happened.
type CompensateCredit struct {
	Amount     decimal.Decimal `cbor:"amount"`
	TransferID string          `cbor:"transfer_id"`
}

func (*CompensateCredit) command() {}

// CompleteTransfer tells the source account that the saga finished, so the
// pending-debit record for TransferID can be dropped. Fire-and-forget.
type CompleteTransfer struct {
	TransferID string `cbor:"transfer_id"`
}

func (*CompleteTransfer) command() {}

// Balance is the success reply to every account command.
type Balance struct {
	AccountNumber string          `cbor:"account_number"`
	Amount        decimal.Decimal `cbor:"amount"`
}

func (*Balance) command() {}

// Fault is the typed failure reply. The worker answers a Fault and keeps
// draining its mailbox; a business failure never stops the account.
type Fault struct {
	Code   bank.FaultCode `cbor:"code"`
	Reason string         `cbor:"reason"`
}

func (*Fault) command() {}

// Err converts the fault back into the caller-side error taxonomy.
func (f *Fault) Err() error {
	return bank.ErrorFromCode(f.Code, f.Reason)
}

func newFault(err error) *Fault {
	return &Fault{Code: bank.CodeOf(err), Reason: err.Error()}
}
