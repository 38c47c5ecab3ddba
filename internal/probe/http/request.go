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

package http

import "strings"

// MultipartField is one entry of a multipart request body. A File field
// uploads the contents of the named path; otherwise Value is sent as a plain
// form field.
type MultipartField struct {
	Value string
	File  string
}

// Request describes one step's http probe attributes, desugared from the
// plan's step definition.
type Request struct {
	URL    string
	Method string

	Headers    map[string]string
	Status     int
	User, Pass string

	Form      map[string]string
	Multipart map[string]MultipartField
	Body      string

	SaveCookies bool
	VerifySSL   bool
	GetOutput   bool
}

// usesBody reports whether the request carries a body, in which case a bare
// GET is upgraded to POST per spec.
func (r Request) usesBody() bool {
	return r.Body != "" || len(r.Form) > 0 || len(r.Multipart) > 0
}

// effectiveMethod returns the method that will actually be sent, applying the
// GET-to-POST auto-upgrade. This fires whenever the effective method is GET
// (whether defaulted or set explicitly) and the request carries a body.
func (r Request) effectiveMethod() string {
	method := r.Method
	if method == "" {
		method = "GET"
	}
	if strings.EqualFold(method, "GET") && r.usesBody() {
		return "POST"
	}
	return method
}

// expectedStatus returns the status code the response is checked against,
// defaulting to 200.
func (r Request) expectedStatus() int {
	if r.Status == 0 {
		return 200
	}
	return r.Status
}
