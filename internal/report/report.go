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

// Package report renders a result set as the human-readable presenter from
// spec.md §6: an ordered sequence of records with name, pass, output (when
// present), error (when present), and duration in milliseconds.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/lorikeet-run/lorikeet/internal/aggregator"
)

var (
	pass  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // green
	fail  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // red
	muted = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	bold  = lipgloss.NewStyle().Bold(true)
)

const (
	symbolPass = "✓"
	symbolFail = "✗"
)

// Write renders result to w in plan declaration order: one line per record,
// followed by an output line and an error line when those are present.
func Write(w io.Writer, result aggregator.Result) error {
	for _, rec := range result.Records {
		symbol, style := symbolPass, pass
		if !rec.Pass {
			symbol, style = symbolFail, fail
		}

		line := fmt.Sprintf("%s %s", style.Render(symbol), bold.Render(rec.Name))
		line += muted.Render(fmt.Sprintf(" (%.0fms)", rec.Duration*1000))

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}

		if rec.Output != nil {
			if _, err := fmt.Fprintln(w, muted.Render("    output: "+*rec.Output)); err != nil {
				return err
			}
		}
		if rec.Error != nil {
			if _, err := fmt.Fprintln(w, fail.Render("    error: "+*rec.Error)); err != nil {
				return err
			}
		}
	}
	return nil
}
