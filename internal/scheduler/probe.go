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

package scheduler

import (
	"context"
	"fmt"

	"github.com/lorikeet-run/lorikeet/internal/plan"
	httpprobe "github.com/lorikeet-run/lorikeet/internal/probe/http"
	"github.com/lorikeet-run/lorikeet/internal/probe/shell"
	"github.com/lorikeet-run/lorikeet/internal/probe/stepref"
	"github.com/lorikeet-run/lorikeet/internal/probe/system"
	"github.com/lorikeet-run/lorikeet/internal/probe/value"
)

// probeSet bundles one driver per probe kind. A Scheduler owns exactly one,
// constructed at Run start and dropped at Run end, per the design notes'
// "run-scoped, not process-scoped" rule for shared resources.
type probeSet struct {
	shell   *shell.Driver
	http    *httpprobe.Driver
	system  *system.Driver
	value   *value.Driver
	stepref *stepref.Driver
}

func newProbeSet(httpCfg *httpprobe.Config, lookup stepref.Lookup) (*probeSet, error) {
	httpDriver, err := httpprobe.NewDriver(httpCfg)
	if err != nil {
		return nil, fmt.Errorf("building http driver: %w", err)
	}
	return &probeSet{
		shell:   shell.NewDriver(),
		http:    httpDriver,
		system:  system.NewDriver(),
		value:   value.NewDriver(),
		stepref: stepref.NewDriver(lookup),
	}, nil
}

// run dispatches to the driver for step's probe kind and reports whether the
// probe itself suppressed output (distinct from a later no-output filter).
func (p *probeSet) run(ctx context.Context, step plan.Step) (output string, suppressed bool, err error) {
	switch step.ProbeKind {
	case plan.ProbeShell:
		out, err := p.shell.Probe(ctx, shell.Request{Command: step.Shell.Command, GetOutput: step.Shell.GetOutput})
		return out, !step.Shell.GetOutput, err

	case plan.ProbeHTTP:
		out, err := p.http.Probe(ctx, httpprobe.Request{
			URL:         step.HTTP.URL,
			Method:      step.HTTP.Method,
			Headers:     step.HTTP.Headers,
			Status:      step.HTTP.Status,
			User:        step.HTTP.User,
			Pass:        step.HTTP.Pass,
			Form:        step.HTTP.Form,
			Multipart:   convertMultipart(step.HTTP.Multipart),
			Body:        step.HTTP.Body,
			SaveCookies: step.HTTP.SaveCookies,
			VerifySSL:   step.HTTP.VerifySSL,
			GetOutput:   step.HTTP.GetOutput,
		})
		return out, !step.HTTP.GetOutput, err

	case plan.ProbeSystem:
		out, err := p.system.Probe(ctx, system.Request{Selector: system.Selector(step.System.Selector)})
		return out, false, err

	case plan.ProbeValue:
		out, _ := p.value.Probe(ctx, step.Value)
		return out, false, nil

	case plan.ProbeStepRef:
		out, err := p.stepref.Probe(ctx, step.StepRef)
		return out, false, err

	default:
		return "", false, fmt.Errorf("step %q declares no probe", step.Name)
	}
}

func convertMultipart(in map[string]plan.MultipartField) map[string]httpprobe.MultipartField {
	if in == nil {
		return nil
	}
	out := make(map[string]httpprobe.MultipartField, len(in))
	for k, v := range in {
		out[k] = httpprobe.MultipartField{Value: v.Value, File: v.File}
	}
	return out
}
