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

package expander

import (
	"fmt"
	"strings"
	"text/template"
)

// FuncMap returns the Jinja-flavored function set available to plan
// templates, covering the string and boolean helpers a smoke-test plan
// typically needs on top of {{ if }} / {{ range }} / pipelines.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"default": defaultFunc,
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"join":    joinFunc,
		"trim":    strings.TrimSpace,

		"eq": eqFunc,
		"ne": func(a, b interface{}) bool { return !eqFunc(a, b) },
		"lt": ltFunc,
		"gt": func(a, b interface{}) (bool, error) {
			less, err := ltFunc(b, a)
			return less, err
		},
		"and": func(a, b bool) bool { return a && b },
		"or":  func(a, b bool) bool { return a || b },
		"not": func(a bool) bool { return !a },
	}
}

// defaultFunc returns fallback when value is nil, an empty string, or false,
// in the spirit of Jinja's `default`. Any other value, including a zero
// number, is returned unchanged.
func defaultFunc(fallback, value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return fallback
	case string:
		if v == "" {
			return fallback
		}
	case bool:
		if !v {
			return fallback
		}
	}
	return value
}

func joinFunc(sep string, items interface{}) (string, error) {
	switch v := items.(type) {
	case []string:
		return strings.Join(v, sep), nil
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprintf("%v", item)
		}
		return strings.Join(parts, sep), nil
	default:
		return "", fmt.Errorf("join: cannot join %T", items)
	}
}

func eqFunc(a, b interface{}) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func ltFunc(a, b interface{}) (bool, error) {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af < bf, nil
	}
	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b), nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
