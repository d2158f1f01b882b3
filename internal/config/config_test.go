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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-labs/banksim/internal/money"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "GBP", cfg.Currency)
	assert.Equal(t, "0.01", cfg.MinTransaction)
	assert.Equal(t, "1000000.00", cfg.MaxTransaction)
	assert.Empty(t, cfg.MaxAccountBalance)
	assert.EqualValues(t, 2, cfg.MoneyScale)
	assert.Equal(t, 5*time.Second, cfg.AskTimeout)
	assert.Equal(t, time.Duration(0), cfg.CritDelay)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CURRENCY", "EUR")
	t.Setenv("MAX_ACCOUNT_BALANCE", "500.00")
	t.Setenv("ASK_TIMEOUT", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, "500.00", cfg.MaxAccountBalance)
	assert.Equal(t, 250*time.Millisecond, cfg.AskTimeout)

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.True(t, rules.MaxAccountBalance.Equal(money.MustParse("500.00")))
}

func TestRules_Validation(t *testing.T) {
	cfg := &Config{
		MinTransaction: "100.00",
		MaxTransaction: "1.00",
		MoneyScale:     2,
	}
	_, err := cfg.Rules()
	require.Error(t, err)

	cfg = &Config{
		MinTransaction: "not-a-number",
		MaxTransaction: "1.00",
		MoneyScale:     2,
	}
	_, err = cfg.Rules()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIN_TRANSACTION")
}
