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

// Package stepref drives the step-reference probe: it hands back another
// step's recorded output verbatim. The scheduler guarantees the referent has
// already reached a terminal state (and is Skipped before this driver would
// ever run against a non-Passed referent), so in a normal run the driver does
// not fail; a lookup miss returns a NotFoundError.
package stepref

import (
	"context"

	lkerrors "github.com/lorikeet-run/lorikeet/pkg/errors"
)

// Lookup resolves a referenced step's name to its recorded output. The
// scheduler supplies this, backed by the DAG's node table.
type Lookup func(name string) (output string, ok bool)

// Driver returns the referenced step's output.
type Driver struct {
	lookup Lookup
}

// NewDriver returns a Driver backed by lookup.
func NewDriver(lookup Lookup) *Driver {
	return &Driver{lookup: lookup}
}

// Probe returns the referent's output verbatim. The DAG builder and
// scheduler guarantee the referent has already run, so a lookup miss here
// only happens if that guarantee is ever violated.
func (d *Driver) Probe(_ context.Context, name string) (string, error) {
	out, ok := d.lookup(name)
	if !ok {
		return "", &lkerrors.NotFoundError{Resource: "step", ID: name}
	}
	return out, nil
}
