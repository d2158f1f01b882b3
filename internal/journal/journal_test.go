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

package journal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestJournal_RecordAndReplay(t *testing.T) {
	j := New()
	j.Record(Entry{Account: "ACC-0001", Kind: KindOpen, Amount: amt("100.00"), NewBalance: amt("100.00")})
	j.Record(Entry{Account: "ACC-0001", Kind: KindDeposit, Amount: amt("25.00"), NewBalance: amt("125.00")})
	j.Record(Entry{Account: "ACC-0001", Kind: KindWithdraw, Amount: amt("5.00"), NewBalance: amt("120.00")})
	j.Record(Entry{Account: "ACC-0001", Kind: KindDebit, Amount: amt("20.00"), NewBalance: amt("100.00"), TransferID: "t1"})
	j.Record(Entry{Account: "ACC-0001", Kind: KindCompensation, Amount: amt("20.00"), NewBalance: amt("120.00"), TransferID: "t1"})

	require.Equal(t, 5, j.Len("ACC-0001"))
	assert.True(t, j.Replay("ACC-0001").Equal(amt("120.00")))

	entries := j.Entries("ACC-0001")
	require.Len(t, entries, 5)
	assert.Equal(t, KindOpen, entries[0].Kind)
	assert.Equal(t, "t1", entries[4].TransferID)
	assert.False(t, entries[0].At.IsZero(), "Record must stamp entries")
}

func TestJournal_IsolatesAccounts(t *testing.T) {
	j := New()
	j.Record(Entry{Account: "A", Kind: KindOpen, Amount: amt("1.00")})
	j.Record(Entry{Account: "B", Kind: KindOpen, Amount: amt("2.00")})

	assert.Equal(t, 1, j.Len("A"))
	assert.Equal(t, 1, j.Len("B"))
	assert.Equal(t, 0, j.Len("C"))

	j.Reset()
	assert.Equal(t, 0, j.Len("A"))
}
