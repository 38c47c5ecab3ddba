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

package plan

import (
	"fmt"

	"gopkg.in/yaml.v3"

	lkerrors "github.com/lorikeet-run/lorikeet/pkg/errors"
)

// rawMultipart decodes one multipart field: either a bare scalar value or a
// {file: path} mapping.
type rawMultipart struct {
	Value string
	File  string
}

func (m *rawMultipart) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&m.Value)
	}
	var aux struct {
		File string `yaml:"file"`
	}
	if err := node.Decode(&aux); err != nil {
		return err
	}
	m.File = aux.File
	return nil
}

// rawFilter decodes one entry of a step's explicit `filters` list.
type rawFilter struct {
	Regex    yaml.Node `yaml:"regex"`
	JMESPath *string   `yaml:"jmespath"`
	DoOutput *bool     `yaml:"do_output"`
	NoOutput *bool     `yaml:"nooutput"`
}

// rawStep is the intermediate decode target for one step's YAML body,
// covering every probe, filter-shorthand, and expectation field so that
// "more than one probe" / "more than one expectation" can be detected
// explicitly rather than silently picking one.
type rawStep struct {
	Description string `yaml:"description"`

	Command string `yaml:"command"`

	URL         string                  `yaml:"url"`
	Method      string                  `yaml:"method"`
	Headers     map[string]string       `yaml:"headers"`
	Status      int                     `yaml:"status"`
	User        string                  `yaml:"user"`
	Pass        string                  `yaml:"pass"`
	Form        map[string]string       `yaml:"form"`
	Multipart   map[string]rawMultipart `yaml:"multipart"`
	Body        string                  `yaml:"body"`
	SaveCookies *bool                   `yaml:"save_cookies"`
	VerifySSL   *bool                   `yaml:"verify_ssl"`

	System string `yaml:"system"`

	Value *string `yaml:"value"`

	Step *string `yaml:"step"`

	GetOutput *bool `yaml:"get_output"`

	Regex    yaml.Node   `yaml:"regex"`
	JMESPath *string     `yaml:"jmespath"`
	DoOutput *bool       `yaml:"do_output"`
	NoOutput *bool       `yaml:"nooutput"`
	Filters  []rawFilter `yaml:"filters"`

	Matches     *string  `yaml:"matches"`
	GreaterThan *float64 `yaml:"greater_than"`
	LessThan    *float64 `yaml:"less_than"`

	Require    yaml.Node `yaml:"require"`
	RequiredBy yaml.Node `yaml:"required_by"`

	RetryCount   int `yaml:"retry_count"`
	RetryDelayMS int `yaml:"retry_delay_ms"`
	DelayMS      int `yaml:"delay_ms"`
}

// Parse deserializes expanded plan text into an ordered Plan, desugaring
// shorthand forms per spec.md §4.2.
func Parse(text string) (*Plan, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, &lkerrors.ConfigError{Key: "plan", Reason: "invalid YAML", Cause: err}
	}
	if len(root.Content) == 0 {
		return &Plan{}, nil
	}

	body := root.Content[0]
	if body.Kind == 0 {
		return &Plan{}, nil
	}
	if body.Kind != yaml.MappingNode {
		return nil, &lkerrors.ConfigError{Key: "plan", Reason: "top-level document must be a mapping of step name to step definition"}
	}

	seen := make(map[string]bool, len(body.Content)/2)
	steps := make([]Step, 0, len(body.Content)/2)

	for i := 0; i+1 < len(body.Content); i += 2 {
		keyNode, valNode := body.Content[i], body.Content[i+1]
		name := keyNode.Value
		if seen[name] {
			return nil, &lkerrors.ValidationError{Field: "name", Message: fmt.Sprintf("duplicate step name %q", name)}
		}
		seen[name] = true

		var raw rawStep
		if err := valNode.Decode(&raw); err != nil {
			return nil, &lkerrors.ConfigError{Key: name, Reason: "invalid step definition", Cause: err}
		}

		step, err := buildStep(name, &raw)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	return &Plan{Steps: steps}, nil
}

func buildStep(name string, raw *rawStep) (Step, error) {
	step := Step{Name: name, Description: raw.Description}

	if err := assignProbe(&step, raw); err != nil {
		return Step{}, err
	}
	if err := assignFilters(&step, raw); err != nil {
		return Step{}, err
	}
	if err := assignExpectation(&step, raw); err != nil {
		return Step{}, err
	}

	require, err := normalizeStringSet(&raw.Require)
	if err != nil {
		return Step{}, &lkerrors.ValidationError{Field: "require", Message: err.Error()}
	}
	requiredBy, err := normalizeStringSet(&raw.RequiredBy)
	if err != nil {
		return Step{}, &lkerrors.ValidationError{Field: "required_by", Message: err.Error()}
	}
	step.Require = require
	step.RequiredBy = requiredBy

	step.RetryCount = raw.RetryCount
	step.RetryDelayMS = raw.RetryDelayMS
	step.DelayMS = raw.DelayMS

	return step, nil
}

func assignProbe(step *Step, raw *rawStep) error {
	var kinds []ProbeKind

	if raw.Command != "" {
		kinds = append(kinds, ProbeShell)
		step.Shell = ShellAttrs{Command: raw.Command, GetOutput: boolOrDefault(raw.GetOutput, true)}
	}
	if raw.URL != "" {
		kinds = append(kinds, ProbeHTTP)
		if raw.Form != nil && raw.Multipart != nil {
			return &lkerrors.ValidationError{Field: "multipart", Message: fmt.Sprintf("step %q sets both form and multipart", step.Name), Suggestion: "a request body has exactly one encoding"}
		}
		step.HTTP = HTTPAttrs{
			URL:         raw.URL,
			Method:      raw.Method,
			Headers:     raw.Headers,
			Status:      raw.Status,
			User:        raw.User,
			Pass:        raw.Pass,
			Form:        raw.Form,
			Multipart:   convertMultipart(raw.Multipart),
			Body:        raw.Body,
			SaveCookies: boolOrDefault(raw.SaveCookies, false),
			VerifySSL:   boolOrDefault(raw.VerifySSL, true),
			GetOutput:   boolOrDefault(raw.GetOutput, true),
		}
	}
	if raw.System != "" {
		kinds = append(kinds, ProbeSystem)
		step.System = SystemAttrs{Selector: raw.System}
	}
	if raw.Value != nil {
		kinds = append(kinds, ProbeValue)
		step.Value = *raw.Value
	}
	if raw.Step != nil {
		kinds = append(kinds, ProbeStepRef)
		step.StepRef = *raw.Step
	}

	if len(kinds) > 1 {
		return &lkerrors.ValidationError{Field: "probe", Message: fmt.Sprintf("step %q declares more than one probe type", step.Name)}
	}
	if len(kinds) == 1 {
		step.ProbeKind = kinds[0]
	}
	return nil
}

func convertMultipart(raw map[string]rawMultipart) map[string]MultipartField {
	if raw == nil {
		return nil
	}
	out := make(map[string]MultipartField, len(raw))
	for k, v := range raw {
		out[k] = MultipartField{Value: v.Value, File: v.File}
	}
	return out
}

func assignFilters(step *Step, raw *rawStep) error {
	if len(raw.Filters) > 0 {
		filters := make([]Filter, 0, len(raw.Filters))
		for _, rf := range raw.Filters {
			f, err := filterFromShorthand(rf.Regex, rf.JMESPath, rf.DoOutput, rf.NoOutput)
			if err != nil {
				return err
			}
			if f == nil {
				return &lkerrors.ValidationError{Field: "filters", Message: "empty filter entry"}
			}
			filters = append(filters, *f)
		}
		step.Filters = filters
		return nil
	}

	// Sibling shorthand keys desugar into a single-element filter list.
	f, err := filterFromShorthand(raw.Regex, raw.JMESPath, raw.DoOutput, raw.NoOutput)
	if err != nil {
		return err
	}
	if f != nil {
		step.Filters = []Filter{*f}
	}
	return nil
}

func filterFromShorthand(regex yaml.Node, jmespath *string, doOutput, noOutput *bool) (*Filter, error) {
	if regex.Kind != 0 {
		switch regex.Kind {
		case yaml.ScalarNode:
			return &Filter{Kind: FilterRegex, RegexPattern: regex.Value}, nil
		case yaml.MappingNode:
			var capture struct {
				Matches string `yaml:"matches"`
				Group   string `yaml:"group"`
			}
			if err := regex.Decode(&capture); err != nil {
				return nil, &lkerrors.ValidationError{Field: "regex", Message: "invalid regex filter", Suggestion: "use a pattern string or {matches, group}"}
			}
			return &Filter{Kind: FilterRegex, RegexPattern: capture.Matches, RegexGroup: capture.Group}, nil
		default:
			return nil, &lkerrors.ValidationError{Field: "regex", Message: "regex filter must be a string or a {matches, group} mapping"}
		}
	}
	if jmespath != nil {
		return &Filter{Kind: FilterJMESPath, JMESPathExpr: *jmespath}, nil
	}
	if (doOutput != nil && !*doOutput) || (noOutput != nil && *noOutput) {
		return &Filter{Kind: FilterNoOutput}, nil
	}
	return nil, nil
}

func assignExpectation(step *Step, raw *rawStep) error {
	var count int
	var expect Expectation

	if raw.Matches != nil {
		count++
		expect = Expectation{Kind: ExpectRegexMatch, Pattern: *raw.Matches}
	}
	if raw.GreaterThan != nil {
		count++
		expect = Expectation{Kind: ExpectGreaterThan, Threshold: *raw.GreaterThan}
	}
	if raw.LessThan != nil {
		count++
		expect = Expectation{Kind: ExpectLessThan, Threshold: *raw.LessThan}
	}

	if count > 1 {
		return &lkerrors.ValidationError{Field: "expectation", Message: fmt.Sprintf("step %q declares more than one expectation", step.Name)}
	}
	if count == 1 {
		step.Expectation = &expect
	}
	return nil
}

// normalizeStringSet accepts a YAML node that is absent, a bare scalar, or a
// sequence, and normalizes it to a string slice.
func normalizeStringSet(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		var out []string
		if err := node.Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a string or a list of strings")
	}
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
