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

// Command lorikeet runs a declarative test plan and reports pass/fail per
// step, per spec.md §6.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lorikeet-run/lorikeet/internal/aggregator"
	"github.com/lorikeet-run/lorikeet/internal/config"
	"github.com/lorikeet-run/lorikeet/internal/junit"
	lklog "github.com/lorikeet-run/lorikeet/internal/log"
	"github.com/lorikeet-run/lorikeet/internal/report"
	"github.com/lorikeet-run/lorikeet/internal/runner"
	"github.com/lorikeet-run/lorikeet/internal/webhook"
)

// errTestsFailed signals a clean exit code 1: the plan ran, but at least one
// step did not pass. It carries no message because the report (or junit,
// or webhook) has already told the user what failed.
var errTestsFailed = errors.New("")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	junitPath  string
	webhooks   []string
	quiet      bool
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:           "lorikeet [test_plan]",
		Short:         "Run a declarative, parallel smoke-test plan",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			planPath := "test.yml"
			if len(args) == 1 {
				planPath = args[0]
			}
			return runPlan(cmd, planPath, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to the context document")
	cmd.Flags().StringVarP(&flags.junitPath, "junit", "j", "", "write a JUnit XML report to this path")
	cmd.Flags().StringArrayVarP(&flags.webhooks, "webhook", "w", nil, "POST the result set to this URL (repeatable)")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress the human-readable report")

	return cmd
}

func runPlan(cmd *cobra.Command, planPath string, flags rootFlags) error {
	logger := lklog.New(lklog.FromEnv())

	planBytes, err := os.ReadFile(planPath)
	if err != nil {
		return fmt.Errorf("reading plan %s: %w", planPath, err)
	}

	var templateContext interface{}
	if flags.configPath != "" {
		configBytes, err := os.ReadFile(flags.configPath)
		if err != nil {
			return fmt.Errorf("reading config %s: %w", flags.configPath, err)
		}
		templateContext, err = config.Decode(string(configBytes))
		if err != nil {
			return fmt.Errorf("decoding config %s: %w", flags.configPath, err)
		}
	}

	result := runner.Run(cmd.Context(), runner.Options{
		PlanText: string(planBytes),
		Context:  templateContext,
		Logger:   logger,
	})

	if !flags.quiet {
		if err := report.Write(cmd.OutOrStdout(), result); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	if flags.junitPath != "" {
		if err := writeJUnitReport(flags.junitPath, result); err != nil {
			return err
		}
	}

	if len(flags.webhooks) > 0 {
		client := webhook.NewClient(logger)
		client.DeliverAll(cmd.Context(), flags.webhooks, webhook.BuildPayload(result))
	}

	if result.HasErrors {
		return errTestsFailed
	}
	return nil
}

func writeJUnitReport(path string, result aggregator.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating junit report %s: %w", path, err)
	}
	defer f.Close()

	if err := junit.Write(f, result); err != nil {
		return fmt.Errorf("writing junit report: %w", err)
	}
	return nil
}
