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

import "github.com/pkg/errors"

// The two business failures every account operation can surface. Both are
// recoverable and caller-visible; nothing is ever silently clamped.
var (
	// ErrInvalidAmount reports an amount that is non-positive, outside the
	// configured transaction limits, over the account balance cap, or
	// otherwise malformed. Self-transfers fall under it as well.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds reports a withdrawal or transfer debit that
	// exceeds the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// FaultCode is the wire form of the error taxonomy, carried by actor replies.
type FaultCode string

const (
	FaultInvalidAmount     FaultCode = "INVALID_AMOUNT"
	FaultInsufficientFunds FaultCode = "INSUFFICIENT_FUNDS"
	FaultInternal          FaultCode = "INTERNAL"
)

// CodeOf classifies an error into its wire code.
func CodeOf(err error) FaultCode {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return FaultInvalidAmount
	case errors.Is(err, ErrInsufficientFunds):
		return FaultInsufficientFunds
	default:
		return FaultInternal
	}
}

// ErrorFromCode rebuilds a typed error from a wire code and reason. The
// sentinel survives the round trip so callers can keep using errors.Is.
func ErrorFromCode(code FaultCode, reason string) error {
	switch code {
	case FaultInvalidAmount:
		return errors.Wrap(ErrInvalidAmount, reason)
	case FaultInsufficientFunds:
		return errors.Wrap(ErrInsufficientFunds, reason)
	default:
		return errors.New(reason)
	}
}
