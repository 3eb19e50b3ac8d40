// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canonical/lead-access-service/internal/types"
	"github.com/canonical/lead-access-service/pkg/tenant"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage tenants",
}

var (
	tenantDomain      string
	tenantTier        string
	tenantMaxUsers    int64
	tenantMaxLeads    int64
	tenantMaxCustomer int64
)

var createTenantCmd = &cobra.Command{
	Use:   "create [company name]",
	Short: "Create a new tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &tenant.CreateTenantRequest{
			CompanyName:      args[0],
			Domain:           tenantDomain,
			SubscriptionTier: tenantTier,
			MaxUsers:         tenantMaxUsers,
			MaxLeadsPerMonth: tenantMaxLeads,
			MaxCustomers:     tenantMaxCustomer,
		}

		t := new(types.Tenant)
		if err := newAPIClient().do(cmd.Context(), http.MethodPost, "/tenants", req, t); err != nil {
			return fmt.Errorf("failed to create tenant: %w", err)
		}

		fmt.Printf("Tenant created: %s (ID: %s)\n", t.CompanyName, t.ID)
		return nil
	},
}

var listTenantsCmd = &cobra.Command{
	Use:   "list",
	Short: "List tenants",
	RunE: func(cmd *cobra.Command, args []string) error {
		var tenants []*types.Tenant
		if err := newAPIClient().do(cmd.Context(), http.MethodGet, "/tenants", nil, &tenants); err != nil {
			return fmt.Errorf("failed to list tenants: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tCOMPANY\tTIER\tACTIVE\tUSERS\tLEADS/MONTH\tCUSTOMERS")
		for _, t := range tenants {
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\t%s\t%s\n",
				t.ID, t.CompanyName, t.SubscriptionTier, t.IsActive,
				limit(t.MaxUsers), limit(t.MaxLeadsPerMonth), limit(t.MaxCustomers),
			)
		}
		return w.Flush()
	},
}

func setTenantStatusCmd(use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [id]",
		Short: fmt.Sprintf("%s a tenant", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &tenant.TenantStatusRequest{Active: &active}
			if err := newAPIClient().do(cmd.Context(), http.MethodPatch, "/tenants/"+args[0]+"/status", req, nil); err != nil {
				return fmt.Errorf("failed to %s tenant: %w", use, err)
			}

			fmt.Printf("Tenant %sd: %s\n", use, args[0])
			return nil
		},
	}
}

func limit(v int64) string {
	if v == 0 {
		return "unlimited"
	}
	return fmt.Sprint(v)
}

func init() {
	rootCmd.AddCommand(tenantCmd)
	tenantCmd.AddCommand(createTenantCmd)
	tenantCmd.AddCommand(listTenantsCmd)
	tenantCmd.AddCommand(setTenantStatusCmd("activate", true))
	tenantCmd.AddCommand(setTenantStatusCmd("deactivate", false))

	createTenantCmd.Flags().StringVar(&tenantDomain, "domain", "", "Company domain")
	createTenantCmd.Flags().StringVar(&tenantTier, "tier", "", "Subscription tier")
	createTenantCmd.Flags().Int64Var(&tenantMaxUsers, "max-users", 0, "Maximum active users, 0 for unlimited")
	createTenantCmd.Flags().Int64Var(&tenantMaxLeads, "max-leads", 0, "Maximum leads per month, 0 for unlimited")
	createTenantCmd.Flags().Int64Var(&tenantMaxCustomer, "max-customers", 0, "Maximum customers, 0 for unlimited")
}
