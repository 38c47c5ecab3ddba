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

// Package scheduler runs a dependency graph's steps with bounded
// concurrency, honoring retry/delay semantics and propagating dependency
// failure by marking descendants Skipped, per spec.md §4.7 and §5.
package scheduler

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lorikeet-run/lorikeet/internal/dag"
	"github.com/lorikeet-run/lorikeet/internal/expect"
	"github.com/lorikeet-run/lorikeet/internal/filter"
	lklog "github.com/lorikeet-run/lorikeet/internal/log"
	"github.com/lorikeet-run/lorikeet/internal/plan"
	httpprobe "github.com/lorikeet-run/lorikeet/internal/probe/http"
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWorkers overrides the worker pool size. The default is the host's
// logical CPU count, per spec.md §4.7.
func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithHTTPConfig overrides the http probe driver's configuration.
func WithHTTPConfig(cfg *httpprobe.Config) Option {
	return func(s *Scheduler) { s.httpConfig = cfg }
}

// WithLogger overrides the scheduler's structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// Scheduler runs one graph's steps to completion.
type Scheduler struct {
	graph      *dag.Graph
	workers    int
	httpConfig *httpprobe.Config
	logger     *slog.Logger
}

// New builds a Scheduler for graph.
func New(graph *dag.Graph, opts ...Option) *Scheduler {
	s := &Scheduler{
		graph:   graph,
		workers: runtime.NumCPU(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers <= 0 {
		s.workers = 1
	}
	return s
}

// StepResult is one step's outcome in plan declaration order.
type StepResult struct {
	Name         string
	Description  string
	Pass         bool
	Output       string
	HasOutput    bool
	Error        string
	Duration     time.Duration
	AttemptsMade int
}

// Run executes every node in the graph, blocking until all have reached a
// terminal state (or ctx is cancelled), and returns results in plan
// declaration order.
func (s *Scheduler) Run(ctx context.Context) ([]StepResult, error) {
	nodes := make([]*node, len(s.graph.Nodes))
	for i, n := range s.graph.Nodes {
		nodes[i] = newNode(i, n.Def.Name)
	}

	lookup := func(name string) (string, bool) {
		idx, ok := s.graph.IndexOf(name)
		if !ok {
			return "", false
		}
		state, result, _ := nodes[idx].snapshot()
		if state != Passed {
			return "", false
		}
		return result.Output, true
	}

	probes, err := newProbeSet(s.httpConfig, lookup)
	if err != nil {
		return nil, err
	}

	sem := make(chan struct{}, s.workers)

	group, groupCtx := errgroup.WithContext(ctx)
	for i := range s.graph.Nodes {
		i := i
		group.Go(func() error {
			s.runNode(groupCtx, nodes, i, probes, sem)
			return nil
		})
	}
	_ = group.Wait()

	results := make([]StepResult, len(nodes))
	for i, n := range nodes {
		state, result, attempts := n.snapshot()
		results[i] = StepResult{
			Name:         n.name,
			Description:  s.graph.Nodes[i].Def.Description,
			Pass:         state == Passed,
			Output:       result.Output,
			HasOutput:    result.ReportOutput,
			Error:        result.Error,
			Duration:     result.Duration,
			AttemptsMade: attempts,
		}
	}
	return results, nil
}

// runNode waits for n's parents, resolves Skipped propagation and
// cancellation, then executes the attempt loop and signals completion.
func (s *Scheduler) runNode(ctx context.Context, nodes []*node, i int, probes *probeSet, sem chan struct{}) {
	n := nodes[i]
	def := s.graph.Nodes[i].Def
	logger := lklog.WithStep(s.logger, def.Name)

	for _, p := range s.graph.Nodes[i].Parents {
		select {
		case <-nodes[p].done:
		case <-ctx.Done():
			n.finish(Skipped, Result{Error: "run cancelled"}, 0)
			return
		}
	}

	for _, p := range s.graph.Nodes[i].Parents {
		if state, _, _ := nodes[p].snapshot(); state == Failed || state == Skipped {
			n.setState(Skipped)
			n.finish(Skipped, Result{Error: "dependency failed"}, 0)
			return
		}
	}

	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		n.finish(Skipped, Result{Error: "run cancelled"}, 0)
		return
	}
	defer func() { <-sem }()

	n.setState(Ready)
	if err := sleep(ctx, time.Duration(def.DelayMS)*time.Millisecond); err != nil {
		n.finish(Skipped, Result{Error: "run cancelled"}, 0)
		return
	}

	n.setState(Running)
	start := time.Now()

	var (
		output       string
		reportOutput bool
		attemptErr   error
		attempts     int
	)

	maxAttempts := def.RetryCount + 1
	for a := 1; a <= maxAttempts; a++ {
		attempts = a
		output, reportOutput, attemptErr = attempt(ctx, probes, def)
		if attemptErr == nil {
			break
		}
		logger.Debug("step attempt failed", "attempt", a, "error", attemptErr)
		if a < maxAttempts {
			if err := sleep(ctx, time.Duration(def.RetryDelayMS)*time.Millisecond); err != nil {
				attemptErr = err
				break
			}
		}
	}

	duration := time.Since(start)

	if attemptErr != nil {
		n.finish(Failed, Result{Error: attemptErr.Error(), Duration: duration}, attempts)
		return
	}
	n.finish(Passed, Result{Output: output, ReportOutput: reportOutput, Duration: duration}, attempts)
}

// attempt runs one probe/filter/expectation cycle for def. The expectation
// is evaluated against the real filtered text regardless of suppression: a
// no-output filter only hides the value from the report and webhook
// payload, it does not change what later filters, the expectation
// evaluator, or a step-reference lookup see.
func attempt(ctx context.Context, probes *probeSet, def plan.Step) (output string, reportOutput bool, err error) {
	raw, probeSuppressed, err := probes.run(ctx, def)
	if err != nil {
		return "", false, err
	}

	filtered, filterSuppressed, err := filter.Apply(def.Filters, raw)
	if err != nil {
		return "", false, err
	}

	if err := expect.Evaluate(def.Expectation, filtered); err != nil {
		return "", false, err
	}

	report := !probeSuppressed && !filterSuppressed
	return filtered, report, nil
}

// sleep blocks for d or returns an error if ctx is cancelled first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
