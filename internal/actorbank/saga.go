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
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tochemey/goakt/v4/actor"
	"github.com/tochemey/goakt/v4/log"
)

// SagaState is one step of the transfer protocol.
type SagaState int

const (
	SagaStarted SagaState = iota
	SagaDebitPending
	SagaDebitOk
	SagaCreditPending
	SagaCompleted
	SagaCompensationPending
	SagaCompensated
	SagaFailed
)

func (s SagaState) String() string {
	switch s {
	case SagaStarted:
		return "Started"
	case SagaDebitPending:
		return "DebitPending"
	case SagaDebitOk:
		return "DebitOk"
	case SagaCreditPending:
		return "CreditPending"
	case SagaCompleted:
		return "Completed"
	case SagaCompensationPending:
		return "CompensationPending"
	case SagaCompensated:
		return "Compensated"
	case SagaFailed:
		return "Failed"
	default:
		return fmt.Sprintf("SagaState(%d)", int(s))
	}
}

// Terminal reports whether the saga cannot move anymore.
func (s SagaState) Terminal() bool {
	return s == SagaCompleted || s == SagaCompensated || s == SagaFailed
}

// TransferSaga moves an amount between two account actors as a compensating
// multi-step workflow: debit the source, credit the destination, and credit
// the debited amount back to the source if the destination step fails.
//
// No step ever waits on a lock, so no deadlock can form. Between a successful
// debit and the matching credit or compensation, the sum of the two balances
// is transiently short by the amount in flight; that is the disclosed
// trade-off against the lock-based method's instantaneous atomicity.
type TransferSaga struct {
	id      string
	source  *actor.PID
	dest    *actor.PID
	amount  decimal.Decimal
	timeout time.Duration
	logger  log.Logger

	state SagaState
}

// NewTransferSaga builds a saga with a fresh correlation id. Each saga
// instance runs exactly once.
func NewTransferSaga(source, dest *actor.PID, amount decimal.Decimal, timeout time.Duration, logger log.Logger) *TransferSaga {
	return &TransferSaga{
		id:      uuid.NewString(),
		source:  source,
		dest:    dest,
		amount:  amount,
		timeout: timeout,
		logger:  logger,
		state:   SagaStarted,
	}
}

// ID returns the saga's correlation id.
func (s *TransferSaga) ID() string { return s.id }

// State returns the saga's current state.
func (s *TransferSaga) State() SagaState { return s.state }

// Run drives the saga to a terminal state and returns the transfer outcome.
// A failed credit is reported with its original reason even though the
// balances have already been restored by compensation; callers never need to
// know a compensation happened to trust the result.
func (s *TransferSaga) Run(ctx context.Context) error {
	s.state = SagaDebitPending
	if _, err := askAccount(ctx, s.source, &DebitForTransfer{Amount: s.amount, TransferID: s.id}, s.timeout); err != nil {
		// nothing was mutated, no compensation needed
		s.state = SagaFailed
		return err
	}
	s.state = SagaDebitOk

	s.state = SagaCreditPending
	_, creditErr := askAccount(ctx, s.dest, &CreditForTransfer{Amount: s.amount, TransferID: s.id}, s.timeout)
	if creditErr == nil {
		s.state = SagaCompleted
		// let the source drop its pending-debit record
		if err := actor.Tell(ctx, s.source, &CompleteTransfer{TransferID: s.id}); err != nil {
			s.logger.Warnf("transfer=%s completion notice failed: %v", s.id, err)
		}
		return nil
	}

	s.state = SagaCompensationPending
	if _, err := askAccount(ctx, s.source, &CompensateCredit{Amount: s.amount, TransferID: s.id}, s.timeout); err != nil {
		s.logger.Errorf("transfer=%s compensation failed: %v", s.id, err)
		s.state = SagaFailed
		return errors.Wrapf(creditErr, "compensation failed: %v", err)
	}
	s.state = SagaCompensated
	return creditErr
}

// askAccount sends one command and maps the reply onto the error taxonomy: a
// *Balance is success, a *Fault carries a typed business failure, anything
// else is a protocol error.
func askAccount(ctx context.Context, pid *actor.PID, cmd Command, timeout time.Duration) (*Balance, error) {
	reply, err := actor.Ask(ctx, pid, cmd, timeout)
	if err != nil {
		return nil, errors.Wrap(err, "account did not answer")
	}
	switch r := reply.(type) {
	case *Balance:
		return r, nil
	case *Fault:
		return nil, r.Err()
	default:
		return nil, errors.Errorf("unexpected reply type %T", reply)
	}
}
