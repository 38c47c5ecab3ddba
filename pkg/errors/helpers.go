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

import (
	"errors"
	"fmt"
)

// Wrap adds context to err, returning nil if err is nil. The underlying
// error stays reachable via errors.Unwrap/errors.As; the shell probe driver
// uses this for failures to run a command other than a nonzero exit.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message, for context that needs an
// interpolated value such as a URL or a step name.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is is errors.Is, re-exported so callers that already import this package
// for ValidationError/NotFoundError/ConfigError don't need a second import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As, re-exported for the same reason as Is.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap is errors.Unwrap, re-exported for the same reason as Is.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// New is errors.New, re-exported for the same reason as Is.
func New(message string) error {
	return errors.New(message)
}
