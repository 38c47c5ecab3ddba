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

package runner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lorikeet-run/lorikeet/internal/runner"
)

func TestRun_CyclicPlanYieldsSingleLorikeetStep(t *testing.T) {
	planText := "a:\n  value: x\n  require: b\nb:\n  value: y\n  require: a\n"

	result := runner.Run(context.Background(), runner.Options{PlanText: planText})

	require.True(t, result.HasErrors)
	require.Len(t, result.Records, 1)
	require.Equal(t, "lorikeet", result.Records[0].Name)
	require.False(t, result.Records[0].Pass)
}

func TestRun_TemplateErrorYieldsSingleLorikeetStep(t *testing.T) {
	result := runner.Run(context.Background(), runner.Options{PlanText: "{{ .unterminated"})

	require.True(t, result.HasErrors)
	require.Len(t, result.Records, 1)
	require.Equal(t, "lorikeet", result.Records[0].Name)
}

func TestRun_SimplePlanPasses(t *testing.T) {
	planText := "a:\n  value: hello\n  matches: hello\n"

	result := runner.Run(context.Background(), runner.Options{PlanText: planText})

	require.False(t, result.HasErrors)
	require.Len(t, result.Records, 1)
	require.True(t, result.Records[0].Pass)
	require.Equal(t, "hello", *result.Records[0].Output)
}

func TestRun_EmptyPlan(t *testing.T) {
	result := runner.Run(context.Background(), runner.Options{PlanText: "{}\n"})

	require.False(t, result.HasErrors)
	require.Empty(t, result.Records)
}

func TestRun_TemplatedPlanWithContext(t *testing.T) {
	planText := "a:\n  value: {{ .greeting }}\n  matches: {{ .greeting }}\n"

	result := runner.Run(context.Background(), runner.Options{
		PlanText: planText,
		Context:  map[string]interface{}{"greeting": "hi"},
	})

	require.False(t, result.HasErrors)
	require.Equal(t, "hi", *result.Records[0].Output)
}
