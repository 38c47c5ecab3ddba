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

// Package http drives the http probe: it issues one HTTP request per step
// and reports the response body (or a probe error) back to the scheduler.
package http

import "time"

// Config holds the driver-wide settings shared by every http probe in a run.
type Config struct {
	// Timeout bounds a single request, including redirects (default: 30s).
	Timeout time.Duration

	// MaxRedirects limits the number of redirects the client will follow.
	MaxRedirects int
}

// DefaultConfig returns the driver defaults used when a run does not
// override them.
func DefaultConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		MaxRedirects: 10,
	}
}
