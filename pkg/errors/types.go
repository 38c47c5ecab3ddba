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

package errors

import "fmt"

// ValidationError represents a plan or input validation failure.
// Use this for malformed step definitions, duplicate names, or constraint
// violations discovered while building the plan or the dependency graph.
type ValidationError struct {
	// Field identifies which input field failed validation.
	Field string

	// Message is the human-readable error description.
	Message string

	// Suggestion provides actionable guidance for fixing the error.
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NotFoundError represents a reference to a step or resource that does not exist.
type NotFoundError struct {
	// Resource is the type of resource (e.g., "step").
	Resource string

	// ID is the identifier that was not found.
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConfigError represents a problem loading or rendering the plan or context document.
type ConfigError struct {
	// Key identifies the configuration area with the problem (e.g., "template", "plan").
	Key string

	// Reason explains what's wrong with the configuration.
	Reason string

	// Cause is the underlying error (e.g., file read error, parse error).
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}
