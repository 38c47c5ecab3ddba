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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lkerrors "github.com/lorikeet-run/lorikeet/pkg/errors"
)

func TestWrap(t *testing.T) {
	original := errors.New("exit status 1")
	wrapped := lkerrors.Wrap(original, "exit code 1")

	require.Error(t, wrapped)
	assert.Contains(t, wrapped.Error(), "exit code 1")
	assert.Contains(t, wrapped.Error(), "exit status 1")
	assert.True(t, errors.Is(wrapped, original))
	assert.Equal(t, original, errors.Unwrap(wrapped))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, lkerrors.Wrap(nil, "context"))
}

func TestWrapf(t *testing.T) {
	original := errors.New("connection refused")
	wrapped := lkerrors.Wrapf(original, "posting to %s", "http://example.test/hook")

	require.Error(t, wrapped)
	assert.Contains(t, wrapped.Error(), "posting to http://example.test/hook")
	assert.True(t, errors.Is(wrapped, original))
}

func TestWrapf_NilReturnsNil(t *testing.T) {
	assert.Nil(t, lkerrors.Wrapf(nil, "posting to %s", "http://example.test/hook"))
}

func TestIs(t *testing.T) {
	target := &lkerrors.NotFoundError{Resource: "step", ID: "missing"}
	wrapped := lkerrors.Wrap(target, "step reference")

	assert.True(t, lkerrors.Is(wrapped, target))
	assert.False(t, lkerrors.Is(wrapped, &lkerrors.ValidationError{}))
}

func TestAs(t *testing.T) {
	original := &lkerrors.ConfigError{Key: "template", Reason: "unterminated action"}
	wrapped := lkerrors.Wrap(original, "expanding plan")

	var target *lkerrors.ConfigError
	require.True(t, lkerrors.As(wrapped, &target))
	assert.Equal(t, "template", target.Key)

	var mismatch *lkerrors.NotFoundError
	assert.False(t, lkerrors.As(wrapped, &mismatch))
}

func TestUnwrap(t *testing.T) {
	original := errors.New("root cause")
	wrapped := lkerrors.Wrap(original, "context")

	assert.Equal(t, original, lkerrors.Unwrap(wrapped))
	assert.Nil(t, lkerrors.Unwrap(original))
}

func TestNew(t *testing.T) {
	err := lkerrors.New("plan has no steps")
	require.Error(t, err)
	assert.Equal(t, "plan has no steps", err.Error())
}
