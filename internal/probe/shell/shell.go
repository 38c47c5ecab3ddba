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

// Package shell drives the shell probe: it runs one command per step and
// reports combined stdout as output.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	lkerrors "github.com/lorikeet-run/lorikeet/pkg/errors"
)

// Request describes one step's shell probe attributes.
type Request struct {
	Command   string
	GetOutput bool
}

// Driver runs shell probes. It carries no run-wide state; a single Driver
// value may be shared across steps.
type Driver struct{}

// NewDriver returns a Driver. Shell probes have no configuration beyond the
// per-step command, so this mirrors the other probe drivers' constructor
// shape without adding an unused Config.
func NewDriver() *Driver {
	return &Driver{}
}

// Probe spawns a shell interpreter with req.Command as a single argument and
// captures combined stdout/stderr as output, per spec.md §4.4.
func (d *Driver) Probe(ctx context.Context, req Request) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", req.Command)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("exit code %d", exitErr.ExitCode())
		}
		return "", lkerrors.Wrap(err, "exit code 1")
	}

	if !req.GetOutput {
		return "", nil
	}
	return strings.TrimRight(out.String(), "\n"), nil
}
