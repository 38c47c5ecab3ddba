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

// Package webhook POSTs a result set to one or more URLs, per spec.md §6.
// Delivery failures are logged but never change the run's exit code.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lorikeet-run/lorikeet/internal/aggregator"
	lkerrors "github.com/lorikeet-run/lorikeet/pkg/errors"
)

// Payload is the bit-exact JSON body spec.md §6 defines.
type Payload struct {
	Hostname  string  `json:"hostname"`
	HasErrors bool    `json:"has_errors"`
	Tests     []Test  `json:"tests"`
}

// Test is one step's entry in the webhook payload.
type Test struct {
	Name     string   `json:"name"`
	Pass     bool     `json:"pass"`
	Output   *string  `json:"output"`
	Error    *string  `json:"error"`
	Duration float64  `json:"duration"`
}

// BuildPayload converts an aggregator.Result into the wire payload.
func BuildPayload(result aggregator.Result) Payload {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	tests := make([]Test, len(result.Records))
	for i, rec := range result.Records {
		tests[i] = Test{
			Name:     rec.Name,
			Pass:     rec.Pass,
			Output:   rec.Output,
			Error:    rec.Error,
			Duration: rec.Duration,
		}
	}

	return Payload{Hostname: hostname, HasErrors: result.HasErrors, Tests: tests}
}

// Client POSTs payloads to webhook URLs.
type Client struct {
	http   *http.Client
	logger *slog.Logger
}

// NewClient returns a Client with a sane request timeout.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// DeliverAll POSTs payload to every URL, logging (not returning) delivery
// failures, matching spec.md §6's "delivery failures ... do not change exit
// code."
func (c *Client) DeliverAll(ctx context.Context, urls []string, payload Payload) {
	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("failed to encode webhook payload", "error", err)
		return
	}

	for _, url := range urls {
		if err := c.deliver(ctx, url, body); err != nil {
			c.logger.Error("webhook delivery failed", "url", url, "error", err)
		}
	}
}

func (c *Client) deliver(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return lkerrors.Wrapf(err, "building request to %s", url)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return lkerrors.Wrapf(err, "posting to %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
