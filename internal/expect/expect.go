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

// Package expect evaluates a step's single expectation against its
// filtered output, per spec.md §4.6.
package expect

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/lorikeet-run/lorikeet/internal/plan"
)

// Evaluate decides pass/fail for output against expectation. A nil
// expectation passes unconditionally (the caller is responsible for having
// already failed the step on a probe or filter error).
func Evaluate(expectation *plan.Expectation, output string) error {
	if expectation == nil {
		return nil
	}

	switch expectation.Kind {
	case plan.ExpectRegexMatch:
		return evalRegexMatch(expectation.Pattern, output)
	case plan.ExpectGreaterThan:
		return evalCompare(output, expectation.Threshold, true)
	case plan.ExpectLessThan:
		return evalCompare(output, expectation.Threshold, false)
	default:
		return nil
	}
}

func evalRegexMatch(pattern, output string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return &CompileError{Pattern: pattern, Cause: err}
	}
	if !re.MatchString(output) {
		return &NotMatchedError{Pattern: pattern}
	}
	return nil
}

func evalCompare(output string, threshold float64, greater bool) error {
	value, err := strconv.ParseFloat(output, 64)
	if err != nil {
		return &NotNumericError{Output: output, Cause: err}
	}
	if greater {
		if value > threshold {
			return nil
		}
		return &ComparisonError{Value: value, Threshold: threshold, Op: ">"}
	}
	if value < threshold {
		return nil
	}
	return &ComparisonError{Value: value, Threshold: threshold, Op: "<"}
}

// CompileError represents a malformed regex-match pattern.
type CompileError struct {
	Pattern string
	Cause   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Cause)
}

func (e *CompileError) Unwrap() error { return e.Cause }

// NotMatchedError represents output that failed a regex-match expectation.
type NotMatchedError struct {
	Pattern string
}

func (e *NotMatchedError) Error() string {
	return fmt.Sprintf("Not matched against `%s`", e.Pattern)
}

// NotNumericError represents output that could not be parsed as a float for
// a numeric comparison expectation.
type NotNumericError struct {
	Output string
	Cause  error
}

func (e *NotNumericError) Error() string {
	return fmt.Sprintf("could not parse %q as a number: %v", e.Output, e.Cause)
}

func (e *NotNumericError) Unwrap() error { return e.Cause }

// ComparisonError represents a numeric expectation that evaluated false.
type ComparisonError struct {
	Value     float64
	Threshold float64
	Op        string // ">" or "<"
}

func (e *ComparisonError) Error() string {
	verb := "greater than"
	if e.Op == "<" {
		verb = "less than"
	}
	return fmt.Sprintf("%s was not %s %s", formatFloat(e.Value), verb, formatFloat(e.Threshold))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
