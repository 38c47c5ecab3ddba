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

// Package runner wires the orchestration engine's data flow end to end:
// plan-text + context -> expander -> parser -> DAG builder -> scheduler ->
// aggregator, per spec.md §2. Any failure before the scheduler runs
// (expansion, parsing, or DAG validation) surfaces as the single synthetic
// "lorikeet" failed step from spec.md §7 kind 1, rather than aborting the
// run outright.
package runner

import (
	"context"
	"log/slog"

	"github.com/lorikeet-run/lorikeet/internal/aggregator"
	"github.com/lorikeet-run/lorikeet/internal/dag"
	"github.com/lorikeet-run/lorikeet/internal/expander"
	"github.com/lorikeet-run/lorikeet/internal/plan"
	httpprobe "github.com/lorikeet-run/lorikeet/internal/probe/http"
	"github.com/lorikeet-run/lorikeet/internal/scheduler"
)

// Options configures a single run.
type Options struct {
	// PlanText is the unexpanded plan document.
	PlanText string
	// Context is the decoded config document handed to the expander.
	Context interface{}

	Workers    int
	HTTPConfig *httpprobe.Config
	Logger     *slog.Logger
}

// Run executes one plan end to end and returns the presenter-facing result
// set. It never returns a non-nil error for a plan-load failure: that is
// represented as the synthetic "lorikeet" step inside the returned Result.
func Run(ctx context.Context, opts Options) aggregator.Result {
	expanded, err := expander.Expand(opts.PlanText, opts.Context)
	if err != nil {
		return aggregator.Synthetic(err)
	}

	parsed, err := plan.Parse(expanded)
	if err != nil {
		return aggregator.Synthetic(err)
	}

	graph, err := dag.Build(parsed)
	if err != nil {
		return aggregator.Synthetic(err)
	}

	var schedOpts []scheduler.Option
	if opts.Workers > 0 {
		schedOpts = append(schedOpts, scheduler.WithWorkers(opts.Workers))
	}
	if opts.HTTPConfig != nil {
		schedOpts = append(schedOpts, scheduler.WithHTTPConfig(opts.HTTPConfig))
	}
	if opts.Logger != nil {
		schedOpts = append(schedOpts, scheduler.WithLogger(opts.Logger))
	}

	results, err := scheduler.New(graph, schedOpts...).Run(ctx)
	if err != nil {
		return aggregator.Synthetic(err)
	}

	return aggregator.Aggregate(results)
}
