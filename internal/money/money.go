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

// Package money holds the monetary arithmetic used by every account
// implementation. Amounts are arbitrary-precision decimals normalized to a
// fixed scale with banker's rounding; floats never enter the picture.
package money

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultScale is the number of fractional digits kept by default (currency
// minor units).
const DefaultScale int32 = 2

var symbols = map[string]string{
	"GBP": "£",
	"TRY": "₺",
	"USD": "$",
	"EUR": "€",
}

// Round normalizes an amount to the given scale using round-half-to-even.
// Every arithmetic step that can produce a non-representable fraction must go
// through here.
func Round(d decimal.Decimal, scale int32) decimal.Decimal {
	return d.RoundBank(scale)
}

// Parse parses a decimal amount from its string form. It rejects anything the
// decimal parser rejects; callers wrap the error into the banking taxonomy.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "malformed amount %q", s)
	}
	return d, nil
}

// MustParse parses a decimal amount and panics on failure. Reserved for
// constants and tests.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Format renders an amount with the currency symbol at the given scale,
// e.g. "£1234.50". Unknown currencies fall back to the dollar sign.
func Format(d decimal.Decimal, currency string, scale int32) string {
	symbol, ok := symbols[currency]
	if !ok {
		symbol = "$"
	}
	return fmt.Sprintf("%s%s", symbol, d.StringFixedBank(scale))
}
