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

// Package filter applies a step's ordered filter chain to raw probe output,
// per spec.md §4.5.
package filter

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/jmespath/go-jmespath"

	"github.com/lorikeet-run/lorikeet/internal/plan"
)

// Apply runs the filter chain against raw output in order, per spec.md
// §4.5, and stops at the first filter error. A no-output entry sets suppress
// to true but does not otherwise transform the text: subsequent filters in
// the chain still run against the real, pre-suppression text, and the
// returned text is what the expectation evaluator and any step-reference
// lookup see. suppress only tells the caller not to display or report it.
func Apply(filters []plan.Filter, raw string) (text string, suppress bool, err error) {
	out := raw
	for _, f := range filters {
		next, noOutput, err := applyOne(f, out)
		if err != nil {
			return "", false, err
		}
		out = next
		suppress = suppress || noOutput
	}
	return out, suppress, nil
}

func applyOne(f plan.Filter, in string) (text string, noOutput bool, err error) {
	switch f.Kind {
	case plan.FilterRegex:
		text, err = applyRegex(f, in)
		return text, false, err
	case plan.FilterJMESPath:
		text, err = applyJMESPath(f, in)
		return text, false, err
	case plan.FilterNoOutput:
		return in, true, nil
	default:
		return "", false, fmt.Errorf("unknown filter kind %v", f.Kind)
	}
}

func applyRegex(f plan.Filter, in string) (string, error) {
	re, err := regexp.Compile(f.RegexPattern)
	if err != nil {
		return "", &CompileError{Pattern: f.RegexPattern, Cause: err}
	}

	m := re.FindStringSubmatch(in)
	if m == nil {
		return "", &NoMatchError{}
	}
	if f.RegexGroup == "" {
		return m[0], nil
	}

	for i, n := range re.SubexpNames() {
		if n == f.RegexGroup {
			return m[i], nil
		}
	}
	return "", &NoMatchError{}
}

func applyJMESPath(f plan.Filter, in string) (string, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(in), &doc); err != nil {
		return "", &DocumentError{Cause: err}
	}

	result, err := jmespath.Search(f.JMESPathExpr, doc)
	if err != nil {
		return "", &ExpressionError{Expr: f.JMESPathExpr, Cause: err}
	}
	if result == nil {
		return "", &NoResultError{Expr: f.JMESPathExpr}
	}

	return stringify(result), nil
}

// stringify renders a jmespath result the way a shell-facing tool would: a
// JSON string search unwraps to the bare string, numbers/bools render
// plainly, everything else falls back to its JSON encoding.
func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64, bool:
		return fmt.Sprintf("%v", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
