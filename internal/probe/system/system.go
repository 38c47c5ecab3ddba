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

// Package system drives the system probe: it samples a single host metric
// and reports it as a decimal string.
package system

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Selector names one of the host metrics a system probe can sample.
type Selector string

const (
	LoadAvg1m    Selector = "load_avg_1m"
	LoadAvg5m    Selector = "load_avg_5m"
	LoadAvg15m   Selector = "load_avg_15m"
	MemAvailable Selector = "mem_available"
	MemFree      Selector = "mem_free"
	MemTotal     Selector = "mem_total"
	DiskFree     Selector = "disk_free"
	DiskTotal    Selector = "disk_total"
)

// Request names which metric a step's system probe samples.
type Request struct {
	Selector Selector
	// Path is the filesystem to sample for disk selectors; defaults to "/".
	Path string
}

// Driver samples host metrics. Like the shell driver, it carries no run-wide
// state.
type Driver struct{}

// NewDriver returns a Driver.
func NewDriver() *Driver {
	return &Driver{}
}

// Probe samples the requested metric and returns its value as a decimal
// string, per spec.md §4.4.
func (d *Driver) Probe(ctx context.Context, req Request) (string, error) {
	switch req.Selector {
	case LoadAvg1m, LoadAvg5m, LoadAvg15m:
		avg, err := load.AvgWithContext(ctx)
		if err != nil {
			return "", fmt.Errorf("sampling load average: %w", err)
		}
		switch req.Selector {
		case LoadAvg1m:
			return strconv.FormatFloat(avg.Load1, 'f', -1, 64), nil
		case LoadAvg5m:
			return strconv.FormatFloat(avg.Load5, 'f', -1, 64), nil
		default:
			return strconv.FormatFloat(avg.Load15, 'f', -1, 64), nil
		}

	case MemAvailable, MemFree, MemTotal:
		vm, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			return "", fmt.Errorf("sampling memory: %w", err)
		}
		switch req.Selector {
		case MemAvailable:
			return strconv.FormatUint(vm.Available, 10), nil
		case MemFree:
			return strconv.FormatUint(vm.Free, 10), nil
		default:
			return strconv.FormatUint(vm.Total, 10), nil
		}

	case DiskFree, DiskTotal:
		path := req.Path
		if path == "" {
			path = "/"
		}
		usage, err := disk.UsageWithContext(ctx, path)
		if err != nil {
			return "", fmt.Errorf("sampling disk usage: %w", err)
		}
		if req.Selector == DiskFree {
			return strconv.FormatUint(usage.Free, 10), nil
		}
		return strconv.FormatUint(usage.Total, 10), nil

	default:
		return "", fmt.Errorf("unknown system selector %q", req.Selector)
	}
}
