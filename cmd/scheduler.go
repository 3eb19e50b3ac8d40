// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/types"
	"github.com/canonical/lead-access-service/pkg/scheduler"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Control the customer monitoring scheduler",
}

var schedulerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the scheduler state and its last run",
	RunE: func(cmd *cobra.Command, args []string) error {
		status := new(scheduler.Status)
		if err := newAPIClient().do(cmd.Context(), http.MethodGet, "/scheduler", nil, status); err != nil {
			return fmt.Errorf("failed to get scheduler status: %w", err)
		}

		return printJSON(cmd, status)
	},
}

func schedulerTransitionCmd(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: fmt.Sprintf("%s the periodic monitoring cycle", action),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := new(scheduler.TransitionResponse)
			if err := newAPIClient().do(cmd.Context(), http.MethodPost, "/scheduler/"+action, nil, resp); err != nil {
				return fmt.Errorf("failed to %s scheduler: %w", action, err)
			}

			if !resp.Changed {
				fmt.Fprintf(cmd.OutOrStdout(), "scheduler already %s\n", resp.Status.State)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "scheduler %s\n", resp.Status.State)
			return nil
		},
	}
}

var runLocal bool

var schedulerRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one monitoring cycle now",
	Long: `Run one monitoring cycle now, either through a running server or,
with --local, in this process against the configured database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		run := new(types.CycleRun)

		if !runLocal {
			if err := newAPIClient().do(cmd.Context(), http.MethodPost, "/scheduler/run", nil, run); err != nil {
				return fmt.Errorf("failed to run monitoring cycle: %w", err)
			}
			return printJSON(cmd, run)
		}

		specs := loadSpecs()
		logger := logging.NewLogger(specs.LogLevel)
		defer logger.Sync()

		c, err := newCore(specs, monitoring.NewNoopMonitor(serviceName, logger), logger)
		if err != nil {
			return err
		}
		defer c.Close()

		run, err = c.newScheduler().RunOnce(cmd.Context())
		if run != nil {
			if err := printJSON(cmd, run); err != nil {
				return err
			}
		}

		return err
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
	schedulerCmd.AddCommand(schedulerTransitionCmd("start"))
	schedulerCmd.AddCommand(schedulerTransitionCmd("stop"))
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerRunCmd.Flags().BoolVar(&runLocal, "local", false, "Run the cycle in process instead of calling the server")
}
