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

// Package config loads the static business configuration from the
// environment (optionally seeded from a .env file). The core consumes these
// values; it never produces them.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/moneta-labs/banksim/internal/bank"
	"github.com/moneta-labs/banksim/internal/money"
)

// Config defines the simulator configuration.
type Config struct {
	Currency          string        `env:"CURRENCY" envDefault:"GBP"`
	MinTransaction    string        `env:"MIN_TRANSACTION" envDefault:"0.01"`
	MaxTransaction    string        `env:"MAX_TRANSACTION" envDefault:"1000000.00"`
	MaxAccountBalance string        `env:"MAX_ACCOUNT_BALANCE" envDefault:""`
	MoneyScale        int32         `env:"MONEY_SCALE" envDefault:"2"`
	AskTimeout        time.Duration `env:"ASK_TIMEOUT" envDefault:"5s"`
	CritDelay         time.Duration `env:"CRIT_DELAY" envDefault:"0s"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{}); err != nil {
		return nil, errors.Wrap(err, "failed to parse configuration")
	}
	return cfg, nil
}

// Rules converts the raw configuration into the validated business rules both
// account implementations consume.
func (c *Config) Rules() (bank.Rules, error) {
	minTx, err := money.Parse(c.MinTransaction)
	if err != nil {
		return bank.Rules{}, errors.Wrap(err, "MIN_TRANSACTION")
	}
	maxTx, err := money.Parse(c.MaxTransaction)
	if err != nil {
		return bank.Rules{}, errors.Wrap(err, "MAX_TRANSACTION")
	}
	rules := bank.Rules{
		Scale:          c.MoneyScale,
		MinTransaction: minTx,
		MaxTransaction: maxTx,
		CritDelay:      c.CritDelay,
	}
	if c.MaxAccountBalance != "" {
		balanceCap, err := money.Parse(c.MaxAccountBalance)
		if err != nil {
			return bank.Rules{}, errors.Wrap(err, "MAX_ACCOUNT_BALANCE")
		}
		rules.MaxAccountBalance = balanceCap
	}
	if minTx.GreaterThan(maxTx) {
		return bank.Rules{}, errors.New("MIN_TRANSACTION exceeds MAX_TRANSACTION")
	}
	return rules, nil
}
