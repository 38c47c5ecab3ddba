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

// Package value drives the value probe: a literal that passes straight
// through as output.
package value

import "context"

// Driver returns its configured literal unchanged.
type Driver struct{}

// NewDriver returns a Driver.
func NewDriver() *Driver {
	return &Driver{}
}

// Probe returns literal verbatim; the value probe cannot fail.
func (d *Driver) Probe(_ context.Context, literal string) (string, error) {
	return literal, nil
}
