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

package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tochemey/goakt/v4/log"

	"github.com/moneta-labs/banksim/internal/actorbank"
	"github.com/moneta-labs/banksim/internal/bank"
	"github.com/moneta-labs/banksim/internal/config"
	"github.com/moneta-labs/banksim/internal/money"
	"github.com/moneta-labs/banksim/internal/sim"
)

var simulateFlags struct {
	method       string
	accounts     int
	users        int
	opsPerUser   int
	transferProb float64
	transferOnly bool
	opening      string
	seed         int64
	csvPath      string
	metricsPort  int
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a concurrent load scenario against one account implementation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		rules, err := cfg.Rules()
		if err != nil {
			return err
		}
		opening, err := money.Parse(simulateFlags.opening)
		if err != nil {
			return err
		}

		backend, err := buildBackend(ctx, simulateFlags.method, rules, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = backend.Close(ctx) }()

		handles := make([]sim.Handle, 0, simulateFlags.accounts)
		for i := 0; i < simulateFlags.accounts; i++ {
			number := fmt.Sprintf("ACC-%04d", i+1)
			handle, err := backend.CreateAccount(ctx, number, fmt.Sprintf("user-%d", i+1), opening)
			if err != nil {
				return err
			}
			handles = append(handles, handle)
		}

		simulator, err := sim.New(backend, handles, sim.Options{
			Users:        simulateFlags.users,
			OpsPerUser:   simulateFlags.opsPerUser,
			TransferProb: simulateFlags.transferProb,
			TransferOnly: simulateFlags.transferOnly,
			Seed:         simulateFlags.seed,
		})
		if err != nil {
			return err
		}

		if simulateFlags.metricsPort > 0 {
			mux := http.NewServeMux()
			mux.Handle("/metrics", simulator.Metrics().Handler())
			go func() {
				_ = http.ListenAndServe(fmt.Sprintf(":%d", simulateFlags.metricsPort), mux)
			}()
			fmt.Fprintf(os.Stdout, "metrics on :%d/metrics\n", simulateFlags.metricsPort)
		}

		fmt.Fprintf(os.Stdout, "[%s] %d accounts, %d users x %d ops, transfer prob %.2f\n",
			backend.Name(), simulateFlags.accounts, simulateFlags.users,
			simulateFlags.opsPerUser, simulateFlags.transferProb)

		stats, err := simulator.Run(ctx)
		if err != nil {
			return err
		}

		printStats(stats, cfg.Currency, rules.Scale, simulateFlags.transferOnly)

		if simulateFlags.csvPath != "" {
			report := sim.Report{
				Scenario:     "simulate",
				NumAccounts:  simulateFlags.accounts,
				Users:        simulateFlags.users,
				OpsPerUser:   simulateFlags.opsPerUser,
				TransferOnly: simulateFlags.transferOnly,
				Stats:        stats,
			}
			if err := sim.AppendCSV(simulateFlags.csvPath, report); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "report appended to %s\n", simulateFlags.csvPath)
		}
		return nil
	},
}

func buildBackend(ctx context.Context, method string, rules bank.Rules, cfg *config.Config) (sim.Backend, error) {
	switch method {
	case "lock":
		return sim.NewLockBackend(bank.NewRegistry(rules)), nil
	case "actor":
		actorBank, err := actorbank.New(ctx, rules, cfg.AskTimeout, log.DiscardLogger)
		if err != nil {
			return nil, err
		}
		return sim.NewActorBackend(actorBank), nil
	default:
		return nil, errors.Errorf("unknown method %q (want lock or actor)", method)
	}
}

func printStats(stats *sim.Stats, currency string, scale int32, transferOnly bool) {
	fmt.Println("\n--- Simulation Results ---")
	fmt.Printf("%-28s: %d/%d\n", "Succeeded / Attempted Ops", stats.Succeeded, stats.Attempted)
	for reason, count := range stats.FailedReason {
		fmt.Printf("%-28s: %d\n", "  failed "+reason, count)
	}
	fmt.Printf("%-28s: %.0f\n", "Throughput (Ops/Sec)", stats.OpsPerSec)
	fmt.Printf("%-28s: %s avg, %s p95\n", "Latency", stats.AvgLatency, stats.P95Latency)
	fmt.Printf("%-28s: %s\n", "Total Money Drift", money.Format(stats.TotalDrift, currency, scale))
	if transferOnly {
		fmt.Println("(transfer-only run: any non-zero drift is a correctness bug)")
	}
}

func init() {
	simulateCmd.Flags().StringVar(&simulateFlags.method, "method", "lock", "account implementation: lock or actor")
	simulateCmd.Flags().IntVar(&simulateFlags.accounts, "accounts", 10, "number of accounts")
	simulateCmd.Flags().IntVar(&simulateFlags.users, "users", 8, "concurrent workers")
	simulateCmd.Flags().IntVar(&simulateFlags.opsPerUser, "ops", 200, "operations per worker")
	simulateCmd.Flags().Float64Var(&simulateFlags.transferProb, "transfer-prob", 0.5, "probability an operation is a transfer")
	simulateCmd.Flags().BoolVar(&simulateFlags.transferOnly, "transfer-only", false, "closed economy: transfers only, drift must be zero")
	simulateCmd.Flags().StringVar(&simulateFlags.opening, "opening", "100.00", "opening balance per account")
	simulateCmd.Flags().Int64Var(&simulateFlags.seed, "seed", 0, "random seed (0 = time-based)")
	simulateCmd.Flags().StringVar(&simulateFlags.csvPath, "csv", "reports/sim_results.csv", "CSV report path (empty to disable)")
	simulateCmd.Flags().IntVar(&simulateFlags.metricsPort, "metrics-port", 0, "serve Prometheus metrics on this port (0 = off)")
	rootCmd.AddCommand(simulateCmd)
}
