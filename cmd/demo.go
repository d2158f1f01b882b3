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

	"github.com/spf13/cobra"
	"github.com/tochemey/goakt/v4/log"

	"github.com/moneta-labs/banksim/internal/actorbank"
	"github.com/moneta-labs/banksim/internal/bank"
	"github.com/moneta-labs/banksim/internal/config"
	"github.com/moneta-labs/banksim/internal/money"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through the canonical scenarios on both implementations",
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

		if err := demoLock(cfg, rules); err != nil {
			return err
		}
		return demoActor(ctx, cfg, rules)
	},
}

func demoLock(cfg *config.Config, rules bank.Rules) error {
	fmt.Println("== lock-based accounts ==")
	registry := bank.NewRegistry(rules)

	a, err := registry.CreateAccount("ACC-0001", "alice", money.MustParse("100.00"))
	if err != nil {
		return err
	}
	b, err := registry.CreateAccount("ACC-0002", "bob", money.MustParse("50.00"))
	if err != nil {
		return err
	}

	if err := a.TransferTo(b, money.MustParse("30.00")); err != nil {
		return err
	}
	fmt.Printf("transfer 30.00: A=%s B=%s (both updates atomic)\n",
		money.Format(a.Balance(), cfg.Currency, rules.Scale),
		money.Format(b.Balance(), cfg.Currency, rules.Scale))

	if _, err := a.Withdraw(money.MustParse("500.00")); err != nil {
		fmt.Printf("withdraw 500.00: rejected (%v), balance still %s\n",
			err, money.Format(a.Balance(), cfg.Currency, rules.Scale))
	}
	if _, err := a.Deposit(money.MustParse("-5.00")); err != nil {
		fmt.Printf("deposit -5.00: rejected (%v)\n", err)
	}
	return nil
}

func demoActor(ctx context.Context, cfg *config.Config, rules bank.Rules) error {
	fmt.Println("\n== actor accounts with transfer saga ==")
	actorBank, err := actorbank.New(ctx, rules, cfg.AskTimeout, log.DiscardLogger)
	if err != nil {
		return err
	}
	defer func() { _ = actorBank.Stop(ctx) }()

	if err := actorBank.CreateAccount(ctx, "ACT-0001", "alice", money.MustParse("100.00")); err != nil {
		return err
	}
	if err := actorBank.CreateAccount(ctx, "ACT-0002", "bob", money.MustParse("50.00")); err != nil {
		return err
	}

	saga, err := actorBank.RunTransfer(ctx, "ACT-0001", "ACT-0002", money.MustParse("30.00"))
	if err != nil {
		return err
	}
	balanceA, _ := actorBank.Balance(ctx, "ACT-0001")
	balanceB, _ := actorBank.Balance(ctx, "ACT-0002")
	fmt.Printf("transfer 30.00: saga=%s A=%s B=%s\n", saga.State(),
		money.Format(balanceA, cfg.Currency, rules.Scale),
		money.Format(balanceB, cfg.Currency, rules.Scale))

	if _, err := actorBank.Withdraw(ctx, "ACT-0001", money.MustParse("500.00")); err != nil {
		fmt.Printf("withdraw 500.00: rejected (%v), worker keeps serving\n", err)
	}
	if _, err := actorBank.Deposit(ctx, "ACT-0001", money.MustParse("-5.00")); err != nil {
		fmt.Printf("deposit -5.00: rejected (%v)\n", err)
	}

	// journal shows the serialized per-account history
	for _, number := range []string{"ACT-0001", "ACT-0002"} {
		fmt.Printf("journal[%s]: %d applied operations\n", number, actorBank.Journal().Len(number))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
