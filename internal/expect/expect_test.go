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

package expect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lorikeet-run/lorikeet/internal/expect"
	"github.com/lorikeet-run/lorikeet/internal/plan"
)

func TestEvaluate_Nil(t *testing.T) {
	require.NoError(t, expect.Evaluate(nil, "anything"))
}

func TestEvaluate_RegexMatchPasses(t *testing.T) {
	err := expect.Evaluate(&plan.Expectation{Kind: plan.ExpectRegexMatch, Pattern: "hello"}, "hello world")
	require.NoError(t, err)
}

func TestEvaluate_RegexMatchFails(t *testing.T) {
	err := expect.Evaluate(&plan.Expectation{Kind: plan.ExpectRegexMatch, Pattern: "goodbye"}, "hello")
	require.Error(t, err)
	require.Equal(t, "Not matched against `goodbye`", err.Error())
}

func TestEvaluate_GreaterThanPasses(t *testing.T) {
	err := expect.Evaluate(&plan.Expectation{Kind: plan.ExpectGreaterThan, Threshold: 5}, "10")
	require.NoError(t, err)
}

func TestEvaluate_GreaterThanFails(t *testing.T) {
	err := expect.Evaluate(&plan.Expectation{Kind: plan.ExpectGreaterThan, Threshold: 5}, "3")
	require.Error(t, err)
	require.Equal(t, "3 was not greater than 5", err.Error())
}

func TestEvaluate_LessThanPasses(t *testing.T) {
	err := expect.Evaluate(&plan.Expectation{Kind: plan.ExpectLessThan, Threshold: 5}, "3")
	require.NoError(t, err)
}

func TestEvaluate_LessThanFails(t *testing.T) {
	err := expect.Evaluate(&plan.Expectation{Kind: plan.ExpectLessThan, Threshold: 5}, "10")
	require.Error(t, err)
	require.Equal(t, "10 was not less than 5", err.Error())
}

func TestEvaluate_NonNumericOutput(t *testing.T) {
	err := expect.Evaluate(&plan.Expectation{Kind: plan.ExpectGreaterThan, Threshold: 5}, "not a number")
	require.Error(t, err)
}
