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

package sim

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/atomic"

	"github.com/moneta-labs/banksim/internal/bank"
)

// Failure reasons tracked by the harness.
const (
	ReasonInsufficientFunds = "insufficient_funds"
	ReasonInvalidAmount     = "invalid_amount"
	ReasonSameAccount       = "same_account"
	ReasonOther             = "other"
)

// Options configures one load run.
type Options struct {
	// Users is the number of concurrent workers.
	Users int
	// OpsPerUser is how many operations each worker issues.
	OpsPerUser int
	// TransferProb is the probability in [0,1] that an operation is a
	// transfer rather than a deposit/withdrawal.
	TransferProb float64
	// TransferOnly forces a closed economy: only transfers, so the total
	// balance must not drift at all.
	TransferOnly bool
	// Seed makes runs reproducible. Zero means time-based.
	Seed int64
	// MaxAmountCents bounds the random per-operation amount, in minor units.
	// Defaults to 5000 (50.00).
	MaxAmountCents int
}

// Stats is the outcome of one load run.
type Stats struct {
	Method       string
	Attempted    int64
	Succeeded    int64
	Failed       int64
	FailedReason map[string]int64
	Elapsed      time.Duration
	OpsPerSec    float64
	AvgLatency   time.Duration
	P95Latency   time.Duration
	// TotalDrift is final total minus initial total. Exactly zero in
	// transfer-only runs; any other value there is a correctness bug.
	TotalDrift decimal.Decimal
}

// Simulator drives concurrent workloads over a set of accounts on one
// backend and measures correctness and performance.
type Simulator struct {
	backend Backend
	handles []Handle
	opts    Options
	metrics *Metrics

	attempted atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64

	mu        sync.Mutex
	byReason  map[string]int64
	latencies []time.Duration
}

// New creates a simulator over the given accounts. At least one account and
// one worker are required.
func New(backend Backend, handles []Handle, opts Options) (*Simulator, error) {
	if len(handles) == 0 {
		return nil, errors.New("no accounts to simulate against")
	}
	if opts.Users <= 0 || opts.OpsPerUser <= 0 {
		return nil, errors.New("users and ops-per-user must be positive")
	}
	if opts.TransferProb < 0 || opts.TransferProb > 1 {
		return nil, errors.New("transfer probability must be in [0,1]")
	}
	if opts.MaxAmountCents <= 0 {
		opts.MaxAmountCents = 5000
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return &Simulator{
		backend:  backend,
		handles:  handles,
		opts:     opts,
		metrics:  NewMetrics(backend.Name()),
		byReason: make(map[string]int64),
	}, nil
}

// Metrics returns the run's Prometheus collectors.
func (s *Simulator) Metrics() *Metrics { return s.metrics }

// Run launches the workers, waits for them, and returns the collected stats.
func (s *Simulator) Run(ctx context.Context) (*Stats, error) {
	startTotal, err := s.backend.TotalBalance(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read initial total")
	}

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		rng := rand.New(rand.NewSource(s.opts.Seed + int64(i)))
		go func(rng *rand.Rand) {
			defer wg.Done()
			s.worker(ctx, rng)
		}(rng)
	}
	wg.Wait()
	elapsed := time.Since(start)

	endTotal, err := s.backend.TotalBalance(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read final total")
	}

	return s.buildStats(elapsed, endTotal.Sub(startTotal)), nil
}

func (s *Simulator) worker(ctx context.Context, rng *rand.Rand) {
	for i := 0; i < s.opts.OpsPerUser; i++ {
		transfer := s.opts.TransferOnly || rng.Float64() < s.opts.TransferProb
		if transfer {
			s.doTransfer(ctx, rng)
		} else {
			s.doDepositWithdraw(ctx, rng)
		}
	}
}

func (s *Simulator) doTransfer(ctx context.Context, rng *rand.Rand) {
	src, dst := s.pickTwo(rng)
	if src.Number() == dst.Number() {
		s.recordFailure(ReasonSameAccount, 0)
		return
	}
	amount := s.randomAmount(rng)
	began := time.Now()
	err := s.backend.Transfer(ctx, src.Number(), dst.Number(), amount)
	s.record(err, time.Since(began))
}

func (s *Simulator) doDepositWithdraw(ctx context.Context, rng *rand.Rand) {
	handle := s.handles[rng.Intn(len(s.handles))]
	amount := s.randomAmount(rng)
	began := time.Now()
	var err error
	if rng.Float64() < 0.5 {
		_, err = handle.Deposit(ctx, amount)
	} else {
		_, err = handle.Withdraw(ctx, amount)
	}
	s.record(err, time.Since(began))
}

// pickTwo picks two distinct accounts when possible; with a single account it
// returns it twice and the caller counts a same-account failure, matching the
// harness contract.
func (s *Simulator) pickTwo(rng *rand.Rand) (Handle, Handle) {
	if len(s.handles) < 2 {
		return s.handles[0], s.handles[0]
	}
	i := rng.Intn(len(s.handles))
	j := rng.Intn(len(s.handles) - 1)
	if j >= i {
		j++
	}
	return s.handles[i], s.handles[j]
}

// randomAmount draws between 0.01 and MaxAmountCents minor units, already at
// scale, so no later rounding can change it.
func (s *Simulator) randomAmount(rng *rand.Rand) decimal.Decimal {
	cents := int64(rng.Intn(s.opts.MaxAmountCents) + 1)
	return decimal.New(cents, -2)
}

func (s *Simulator) record(err error, latency time.Duration) {
	if err == nil {
		s.attempted.Inc()
		s.succeeded.Inc()
		s.mu.Lock()
		s.latencies = append(s.latencies, latency)
		s.mu.Unlock()
		s.metrics.observe(true, "", latency.Seconds())
		return
	}
	s.recordFailure(classify(err), latency)
}

func (s *Simulator) recordFailure(reason string, latency time.Duration) {
	s.attempted.Inc()
	s.failed.Inc()
	s.mu.Lock()
	s.byReason[reason]++
	s.latencies = append(s.latencies, latency)
	s.mu.Unlock()
	s.metrics.observe(false, reason, latency.Seconds())
}

func classify(err error) string {
	switch {
	case errors.Is(err, bank.ErrInsufficientFunds):
		return ReasonInsufficientFunds
	case errors.Is(err, bank.ErrInvalidAmount):
		return ReasonInvalidAmount
	default:
		return ReasonOther
	}
}

func (s *Simulator) buildStats(elapsed time.Duration, drift decimal.Decimal) *Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	byReason := make(map[string]int64, len(s.byReason))
	for reason, count := range s.byReason {
		byReason[reason] = count
	}

	var avg, p95 time.Duration
	if len(s.latencies) > 0 {
		sorted := make([]time.Duration, len(s.latencies))
		copy(sorted, s.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		var sum time.Duration
		for _, l := range sorted {
			sum += l
		}
		avg = sum / time.Duration(len(sorted))
		p95 = sorted[int(0.95*float64(len(sorted)-1))]
	}

	attempted := s.attempted.Load()
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		seconds = 1e-9
	}

	return &Stats{
		Method:       s.backend.Name(),
		Attempted:    attempted,
		Succeeded:    s.succeeded.Load(),
		Failed:       s.failed.Load(),
		FailedReason: byReason,
		Elapsed:      elapsed,
		OpsPerSec:    float64(attempted) / seconds,
		AvgLatency:   avg,
		P95Latency:   p95,
		TotalDrift:   drift,
	}
}
