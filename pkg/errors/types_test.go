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

package errors_test

import (
	"errors"
	"testing"

	lkerrors "github.com/lorikeet-run/lorikeet/pkg/errors"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *lkerrors.ValidationError
		wantMsg string
	}{
		{
			name: "with field",
			err: &lkerrors.ValidationError{
				Field:   "require",
				Message: "references unknown step \"b\"",
			},
			wantMsg: "validation failed on require: references unknown step \"b\"",
		},
		{
			name: "without field",
			err: &lkerrors.ValidationError{
				Message: "circular dependency detected",
			},
			wantMsg: "validation failed: circular dependency detected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestNotFoundError_Error(t *testing.T) {
	err := &lkerrors.NotFoundError{Resource: "step", ID: "missing"}
	want := "step not found: missing"
	if got := err.Error(); got != want {
		t.Errorf("NotFoundError.Error() = %q, want %q", got, want)
	}
}

func TestConfigError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &lkerrors.ConfigError{Key: "plan", Reason: "could not expand template", Cause: cause}

	if got := err.Error(); got != "config error at plan: could not expand template" {
		t.Errorf("ConfigError.Error() = %q", got)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should match the wrapped cause")
	}
}
