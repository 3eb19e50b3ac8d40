// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	endpoint    string
	accessToken string
	tenantScope string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "app",
	Short: "Lead Access Service",
	Long:  `Lead Access Service CLI for serving the API and administering tenants and the monitoring scheduler.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "http://localhost:8080", "HTTP server endpoint")
	rootCmd.PersistentFlags().StringVar(&accessToken, "token", os.Getenv("LEAD_ACCESS_TOKEN"), "Bearer token used against the API")
	rootCmd.PersistentFlags().StringVar(&tenantScope, "tenant", "", "Tenant to act on, super admins only")
}
