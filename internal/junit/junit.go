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

// Package junit emits a result set as a single JUnit <testsuite>, per
// spec.md §6.
package junit

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/lorikeet-run/lorikeet/internal/aggregator"
)

// testsuite mirrors the subset of the JUnit XML schema spec.md §6 requires:
// one testsuite containing one testcase per step, with a failure element on
// failed steps.
type testsuite struct {
	XMLName   xml.Name   `xml:"testsuite"`
	Tests     int        `xml:"tests,attr"`
	Failures  int        `xml:"failures,attr"`
	Testcases []testcase `xml:"testcase"`
}

type testcase struct {
	Name    string   `xml:"name,attr"`
	Time    string   `xml:"time,attr"`
	Failure *failure `xml:"failure,omitempty"`
}

type failure struct {
	Message string `xml:"message,attr"`
}

// Write renders result as JUnit XML to w.
func Write(w io.Writer, result aggregator.Result) error {
	suite := build(result)

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(suite); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func build(result aggregator.Result) testsuite {
	suite := testsuite{
		Tests:     len(result.Records),
		Testcases: make([]testcase, len(result.Records)),
	}

	for i, rec := range result.Records {
		tc := testcase{
			Name: rec.Name,
			Time: strconv.FormatFloat(rec.Duration, 'f', -1, 64),
		}
		if rec.Error != nil {
			tc.Failure = &failure{Message: *rec.Error}
			suite.Failures++
		}
		suite.Testcases[i] = tc
	}

	return suite
}
