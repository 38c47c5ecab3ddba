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

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/publicsuffix"
)

// Driver issues http probes for a single run. It owns the run-wide cookie
// jar and a pair of clients (TLS-verifying and not). The clients carry no jar
// of their own: Probe attaches the jar's cookies to each request and stores
// response cookies itself, so both clients see the same cookies. This matches the "construct at scheduler start, drop at scheduler end"
// lifetime from the design notes.
type Driver struct {
	cfg *Config
	jar *cookiejar.Jar

	strict   *http.Client
	insecure *http.Client
}

// NewDriver builds a Driver with a fresh, empty cookie jar partitioned by
// registrable domain.
func NewDriver(cfg *Config) (*Driver, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("building cookie jar: %w", err)
	}

	d := &Driver{cfg: cfg, jar: jar}
	d.strict = d.newClient(false)
	d.insecure = d.newClient(true)
	return d, nil
}

func (d *Driver) newClient(skipVerify bool) *http.Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: skipVerify}, //nolint:gosec // verify_ssl:false is an opt-in, documented hazard
	}
	return &http.Client{
		Timeout:   d.cfg.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= d.cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", d.cfg.MaxRedirects)
			}
			return nil
		},
	}
}

// Probe performs the request described by req and returns its body (or a
// probe error) per spec.md §4.4.
func (d *Driver) Probe(ctx context.Context, req Request) (string, error) {
	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Host == "" {
		return "", &InvalidURLError{URL: req.URL, Reason: "could not parse URL"}
	}

	body, contentType, err := buildBody(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.effectiveMethod(), req.URL, body)
	if err != nil {
		return "", &InvalidURLError{URL: req.URL, Reason: err.Error()}
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.User != "" || req.Pass != "" {
		httpReq.SetBasicAuth(req.User, req.Pass)
	}

	for _, c := range d.jar.Cookies(parsed) {
		httpReq.AddCookie(c)
	}

	client := d.strict
	if !req.VerifySSL {
		client = d.insecure
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || os.IsTimeout(err) {
			return "", &TimeoutError{URL: req.URL, Timeout: d.cfg.Timeout.String()}
		}
		return "", &NetworkError{URL: req.URL, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if req.SaveCookies {
		if cookies := resp.Cookies(); len(cookies) > 0 {
			d.jar.SetCookies(parsed, cookies)
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{URL: req.URL, Reason: err.Error()}
	}

	if resp.StatusCode != req.expectedStatus() {
		return "", &StatusMismatchError{Got: resp.StatusCode}
	}

	if !req.GetOutput {
		return "", nil
	}
	return toValidUTF8(raw), nil
}

// buildBody constructs the request body and its Content-Type, exactly one of
// body, form, or multipart (or none).
func buildBody(req Request) (io.Reader, string, error) {
	switch {
	case req.Multipart != nil:
		var buf strings.Builder
		w := multipart.NewWriter(&buf)
		for field, mf := range req.Multipart {
			if mf.File != "" {
				data, err := os.ReadFile(mf.File)
				if err != nil {
					return nil, "", fmt.Errorf("reading multipart file %s: %w", mf.File, err)
				}
				fw, err := w.CreateFormFile(field, mf.File)
				if err != nil {
					return nil, "", err
				}
				if _, err := fw.Write(data); err != nil {
					return nil, "", err
				}
				continue
			}
			if err := w.WriteField(field, mf.Value); err != nil {
				return nil, "", err
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return strings.NewReader(buf.String()), w.FormDataContentType(), nil

	case req.Form != nil:
		values := url.Values{}
		for k, v := range req.Form {
			values.Set(k, v)
		}
		return strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", nil

	case req.Body != "":
		return strings.NewReader(req.Body), "application/json", nil

	default:
		return nil, "", nil
	}
}

// toValidUTF8 replaces invalid byte sequences with the Unicode replacement
// character, matching the "UTF-8 with replacement" requirement in spec.md §4.4.
func toValidUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}
