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

// Package config decodes the context document (an arbitrary structured
// document, per spec.md §6) into the value handed to the template expander.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	lkerrors "github.com/lorikeet-run/lorikeet/pkg/errors"
)

// Decode parses text as YAML into a generic value tree suitable for use as
// a template context. Empty text decodes to nil, which the expander treats
// as an empty context.
func Decode(text string) (interface{}, error) {
	if len(text) == 0 {
		return nil, nil
	}

	var value interface{}
	if err := yaml.Unmarshal([]byte(text), &value); err != nil {
		return nil, &lkerrors.ConfigError{Key: "context", Reason: "invalid YAML", Cause: err}
	}

	return normalize(value), nil
}

// normalize recursively converts map[interface{}]interface{} (yaml.v3's
// mapping representation for non-string keys) into map[string]interface{}
// so the template engine's field lookups work uniformly.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
