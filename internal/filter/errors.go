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

package filter

import "fmt"

// CompileError represents a regex pattern that failed to compile.
type CompileError struct {
	Pattern string
	Cause   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid regex %q: %v", e.Pattern, e.Cause)
}

func (e *CompileError) Unwrap() error { return e.Cause }

// NoMatchError represents a regex filter that found no match, per spec.md
// §4.5's "could not find match".
type NoMatchError struct{}

func (e *NoMatchError) Error() string {
	return "could not find match"
}

// DocumentError represents output that could not be parsed as a structured
// document for jmespath evaluation.
type DocumentError struct {
	Cause error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("could not parse output as a document: %v", e.Cause)
}

func (e *DocumentError) Unwrap() error { return e.Cause }

// ExpressionError represents a jmespath expression that failed to evaluate.
type ExpressionError struct {
	Expr  string
	Cause error
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("jmespath %q: %v", e.Expr, e.Cause)
}

func (e *ExpressionError) Unwrap() error { return e.Cause }

// NoResultError represents a jmespath expression that evaluated to null,
// meaning the searched-for path is absent from the document.
type NoResultError struct {
	Expr string
}

func (e *NoResultError) Error() string {
	return fmt.Sprintf("could not find jmespath expression `%s` in output", e.Expr)
}
