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

// Package plan deserializes a test plan document into an ordered list of
// step definitions, desugaring shorthand forms along the way.
package plan

// ProbeKind tags which probe a step runs. At most one is set per step; a
// step that declares no probe keeps ProbeNone.
type ProbeKind int

const (
	ProbeNone ProbeKind = iota
	ProbeShell
	ProbeHTTP
	ProbeSystem
	ProbeValue
	ProbeStepRef
)

// MultipartField mirrors internal/probe/http.MultipartField at the plan
// layer, so this package has no import dependency on the probe drivers.
type MultipartField struct {
	Value string
	File  string
}

// HTTPAttrs holds the attributes of an http probe.
type HTTPAttrs struct {
	URL         string
	Method      string
	Headers     map[string]string
	Status      int
	User        string
	Pass        string
	Form        map[string]string
	Multipart   map[string]MultipartField
	Body        string
	SaveCookies bool
	VerifySSL   bool
	GetOutput   bool
}

// ShellAttrs holds the attributes of a shell probe.
type ShellAttrs struct {
	Command   string
	GetOutput bool
}

// SystemAttrs holds the attributes of a system probe.
type SystemAttrs struct {
	Selector string
}

// FilterKind tags one filter chain entry.
type FilterKind int

const (
	FilterRegex FilterKind = iota
	FilterJMESPath
	FilterNoOutput
)

// Filter is one entry in a step's filter chain.
type Filter struct {
	Kind FilterKind

	// RegexPattern and RegexGroup apply when Kind == FilterRegex.
	RegexPattern string
	RegexGroup   string

	// JMESPathExpr applies when Kind == FilterJMESPath.
	JMESPathExpr string
}

// ExpectKind tags a step's expectation.
type ExpectKind int

const (
	ExpectNone ExpectKind = iota
	ExpectRegexMatch
	ExpectGreaterThan
	ExpectLessThan
)

// Expectation is a step's single assertion, evaluated against filtered
// output.
type Expectation struct {
	Kind ExpectKind

	Pattern   string  // ExpectRegexMatch
	Threshold float64 // ExpectGreaterThan / ExpectLessThan
}

// Step is one step's parsed definition, prior to DAG construction.
type Step struct {
	Name        string
	Description string

	ProbeKind ProbeKind
	Shell     ShellAttrs
	HTTP      HTTPAttrs
	System    SystemAttrs
	Value     string
	StepRef   string

	Filters     []Filter
	Expectation *Expectation

	Require    []string
	RequiredBy []string

	RetryCount   int
	RetryDelayMS int
	DelayMS      int
}

// Plan is the ordered set of step definitions produced by Parse, in plan
// declaration order.
type Plan struct {
	Steps []Step
}
