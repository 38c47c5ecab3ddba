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

// Package expander renders plan text with a provided context value before
// parsing, per spec.md §4.1. It is built on text/template: {{ variable }}
// substitution, {{ if }}/{{ range }} block directives (the "for" construct),
// and {{ x | filter }} pipelines are all available from plan text, extended
// with a small Jinja-flavored function set (see funcs.go).
package expander

import (
	"bytes"
	"text/template"

	lkerrors "github.com/lorikeet-run/lorikeet/pkg/errors"
)

// Expand renders planText against context, which is typically the decoded
// value of a config document (or nil for an empty context). A nil context
// renders as an empty map so `{{ if .foo }}` style directives see an absent
// key rather than a template execution error.
func Expand(planText string, context interface{}) (string, error) {
	if context == nil {
		context = map[string]interface{}{}
	}

	tmpl, err := template.New("plan").Funcs(FuncMap()).Option("missingkey=zero").Parse(planText)
	if err != nil {
		return "", &lkerrors.ConfigError{Key: "template", Reason: "could not parse plan template", Cause: err}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, context); err != nil {
		return "", &lkerrors.ConfigError{Key: "template", Reason: "could not render plan template", Cause: err}
	}

	return buf.String(), nil
}
