// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package aggregator produces the final ordered result set consumed by
// presenters (report, JUnit, webhook), per spec.md §4.8.
package aggregator

import (
	"github.com/lorikeet-run/lorikeet/internal/scheduler"
)

// Record is one step's presenter-facing outcome.
type Record struct {
	Name        string
	Description string
	Pass        bool
	Output      *string
	Error       *string
	Duration    float64 // seconds
}

// Result is the run-level result set.
type Result struct {
	Records   []Record
	HasErrors bool
}

// Aggregate builds the final Result from the scheduler's per-step results,
// in the order Run already returned (plan declaration order).
func Aggregate(results []scheduler.StepResult) Result {
	records := make([]Record, len(results))
	hasErrors := false

	for i, r := range results {
		rec := Record{
			Name:        r.Name,
			Description: r.Description,
			Pass:        r.Pass,
			Duration:    r.Duration.Seconds(),
		}
		if r.HasOutput {
			out := r.Output
			rec.Output = &out
		}
		if !r.Pass {
			errMsg := r.Error
			rec.Error = &errMsg
			hasErrors = true
		}
		records[i] = rec
	}

	return Result{Records: records, HasErrors: hasErrors}
}

// Synthetic builds the single-step result set used for plan-load failures
// (template, parse, or DAG-build errors), per spec.md §7 kind 1: a
// synthetic failed step named "lorikeet" carrying the error message.
func Synthetic(err error) Result {
	errMsg := err.Error()
	return Result{
		Records: []Record{
			{Name: "lorikeet", Pass: false, Error: &errMsg},
		},
		HasErrors: true,
	}
}
