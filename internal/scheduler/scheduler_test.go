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

package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lorikeet-run/lorikeet/internal/dag"
	"github.com/lorikeet-run/lorikeet/internal/plan"
	"github.com/lorikeet-run/lorikeet/internal/scheduler"
)

func mustGraph(t *testing.T, p *plan.Plan) *dag.Graph {
	t.Helper()
	g, err := dag.Build(p)
	require.NoError(t, err)
	return g
}

// Scenario 1: a: { value: hello, matches: hello } -> one step, Pass, output hello.
func TestRun_ValueWithMatchingExpectation(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{
		{Name: "a", ProbeKind: plan.ProbeValue, Value: "hello", Expectation: &plan.Expectation{Kind: plan.ExpectRegexMatch, Pattern: "hello"}},
	}}
	results, err := scheduler.New(mustGraph(t, p)).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Pass)
	require.Equal(t, "hello", results[0].Output)
	require.True(t, results[0].HasOutput)
}

// Scenario 2: a: {value: hello}, b: {step: a, matches: hello} -> both Pass.
func TestRun_StepReferenceSeesParentOutput(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{
		{Name: "a", ProbeKind: plan.ProbeValue, Value: "hello"},
		{Name: "b", ProbeKind: plan.ProbeStepRef, StepRef: "a", Expectation: &plan.Expectation{Kind: plan.ExpectRegexMatch, Pattern: "hello"}},
	}}
	results, err := scheduler.New(mustGraph(t, p)).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.True(t, results[0].Pass)
	require.True(t, results[1].Pass)
	require.Equal(t, "hello", results[1].Output)
}

// Scenario 3: failing expectation with retries accumulates duration and attempts.
func TestRun_RetriesOnExpectationFailure(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{
		{
			Name:         "a",
			ProbeKind:    plan.ProbeValue,
			Value:        "hello",
			Expectation:  &plan.Expectation{Kind: plan.ExpectRegexMatch, Pattern: "goodbye"},
			RetryCount:   2,
			RetryDelayMS: 10,
		},
	}}
	start := time.Now()
	results, err := scheduler.New(mustGraph(t, p)).Run(context.Background())
	elapsed := time.Since(start)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.False(t, results[0].Pass)
	require.Equal(t, "Not matched against `goodbye`", results[0].Error)
	require.Equal(t, 3, results[0].AttemptsMade)
	require.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

// Scenario 5: a chain where the root fails propagates Skipped to descendants.
func TestRun_DependencyFailurePropagatesSkipped(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{
		{Name: "a", ProbeKind: plan.ProbeValue, Value: "x", Expectation: &plan.Expectation{Kind: plan.ExpectRegexMatch, Pattern: "q"}},
		{Name: "b", ProbeKind: plan.ProbeValue, Value: "y", Require: []string{"a"}},
		{Name: "c", ProbeKind: plan.ProbeValue, Value: "z", Require: []string{"b"}},
	}}
	results, err := scheduler.New(mustGraph(t, p)).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.False(t, results[0].Pass)
	require.False(t, results[1].Pass)
	require.Equal(t, "dependency failed", results[1].Error)
	require.False(t, results[2].Pass)
	require.Equal(t, "dependency failed", results[2].Error)
}

func TestRun_ResultOrderMatchesDeclarationOrder(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{
		{Name: "z", ProbeKind: plan.ProbeValue, Value: "1"},
		{Name: "a", ProbeKind: plan.ProbeValue, Value: "2", Require: []string{"z"}},
		{Name: "m", ProbeKind: plan.ProbeValue, Value: "3"},
	}}
	results, err := scheduler.New(mustGraph(t, p)).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"z", "a", "m"}, []string{results[0].Name, results[1].Name, results[2].Name})
}

func TestRun_Empty(t *testing.T) {
	results, err := scheduler.New(mustGraph(t, &plan.Plan{})).Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestRun_NoOutputFilterSuppressesReporting(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{
		{Name: "a", ProbeKind: plan.ProbeValue, Value: "hello", Filters: []plan.Filter{{Kind: plan.FilterNoOutput}}},
	}}
	results, err := scheduler.New(mustGraph(t, p)).Run(context.Background())
	require.NoError(t, err)
	require.True(t, results[0].Pass)
	require.False(t, results[0].HasOutput)
}

func TestRun_NoOutputFilterDoesNotHideTextFromExpectation(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{
		{
			Name:        "a",
			ProbeKind:   plan.ProbeValue,
			Value:       "hello",
			Filters:     []plan.Filter{{Kind: plan.FilterNoOutput}},
			Expectation: &plan.Expectation{Kind: plan.ExpectRegexMatch, Pattern: "hello"},
		},
	}}
	results, err := scheduler.New(mustGraph(t, p)).Run(context.Background())
	require.NoError(t, err)
	require.True(t, results[0].Pass)
	require.False(t, results[0].HasOutput)
}

func TestRun_NoOutputFilterDoesNotHideTextFromLaterFilterOrStepReference(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{
		{
			Name:      "a",
			ProbeKind: plan.ProbeValue,
			Value:     `{"x":1}`,
			Filters: []plan.Filter{
				{Kind: plan.FilterNoOutput},
				{Kind: plan.FilterJMESPath, JMESPathExpr: "x"},
			},
		},
		{Name: "b", ProbeKind: plan.ProbeStepRef, StepRef: "a", Expectation: &plan.Expectation{Kind: plan.ExpectRegexMatch, Pattern: "1"}},
	}}
	results, err := scheduler.New(mustGraph(t, p)).Run(context.Background())
	require.NoError(t, err)
	require.True(t, results[0].Pass)
	require.False(t, results[0].HasOutput)
	require.True(t, results[1].Pass)
	require.Equal(t, "1", results[1].Output)
}

func TestRun_IndependentStepsRunConcurrently(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{
		{Name: "a", ProbeKind: plan.ProbeShell, Shell: plan.ShellAttrs{Command: "sleep 0.05", GetOutput: true}},
		{Name: "b", ProbeKind: plan.ProbeShell, Shell: plan.ShellAttrs{Command: "sleep 0.05", GetOutput: true}},
	}}
	start := time.Now()
	results, err := scheduler.New(mustGraph(t, p), scheduler.WithWorkers(2)).Run(context.Background())
	elapsed := time.Since(start)
	require.NoError(t, err)
	require.True(t, results[0].Pass)
	require.True(t, results[1].Pass)
	require.Less(t, elapsed, 95*time.Millisecond)
}
