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
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

var reportHeader = []string{
	"timestamp", "scenario", "method", "num_accounts", "users", "ops_per_user",
	"attempted", "succeeded", "failed",
	"failed_insufficient", "failed_invalid", "failed_same_account", "failed_other",
	"ops_per_sec", "avg_latency_ms", "p95_latency_ms",
	"total_drift", "transfer_only",
}

// Report describes one finished run for the CSV audit trail.
type Report struct {
	Scenario     string
	NumAccounts  int
	Users        int
	OpsPerUser   int
	TransferOnly bool
	Stats        *Stats
}

// AppendCSV appends the report as one row to path, writing the header first
// when the file is new. The parent directory is created as needed.
func AppendCSV(path string, report Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create report directory")
	}

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "failed to open report file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(reportHeader); err != nil {
			return errors.Wrap(err, "failed to write report header")
		}
	}

	stats := report.Stats
	row := []string{
		time.Now().UTC().Format(time.RFC3339),
		report.Scenario,
		stats.Method,
		strconv.Itoa(report.NumAccounts),
		strconv.Itoa(report.Users),
		strconv.Itoa(report.OpsPerUser),
		strconv.FormatInt(stats.Attempted, 10),
		strconv.FormatInt(stats.Succeeded, 10),
		strconv.FormatInt(stats.Failed, 10),
		strconv.FormatInt(stats.FailedReason[ReasonInsufficientFunds], 10),
		strconv.FormatInt(stats.FailedReason[ReasonInvalidAmount], 10),
		strconv.FormatInt(stats.FailedReason[ReasonSameAccount], 10),
		strconv.FormatInt(stats.FailedReason[ReasonOther], 10),
		fmt.Sprintf("%.0f", stats.OpsPerSec),
		fmt.Sprintf("%.3f", float64(stats.AvgLatency.Microseconds())/1000),
		fmt.Sprintf("%.3f", float64(stats.P95Latency.Microseconds())/1000),
		stats.TotalDrift.StringFixedBank(2),
		strconv.FormatBool(report.TransferOnly),
	}
	if err := w.Write(row); err != nil {
		return errors.Wrap(err, "failed to write report row")
	}
	w.Flush()
	return errors.Wrap(w.Error(), "failed to flush report")
}
