// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	clientID     string
	clientSecret string
	tokenURL     string
	issuerURL    string
	scopes       []string
	showExpiry   bool
)

// tokenCmd fetches a machine token to use with --token on the other commands.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Get an access token using Client Credentials flow",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if tokenURL == "" {
			if issuerURL == "" {
				return errors.New("either --token-url or --issuer-url must be provided")
			}

			// Discovery endpoint
			provider, err := oidc.NewProvider(ctx, issuerURL)
			if err != nil {
				return fmt.Errorf("failed to create OIDC provider from issuer: %v", err)
			}
			tokenURL = provider.Endpoint().TokenURL
		}

		config := &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       scopes,
		}

		token, err := config.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to get token: %v", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token.AccessToken)
		if showExpiry && !token.Expiry.IsZero() {
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", token.Expiry.Format(time.RFC3339))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&clientID, "client-id", "", "Client ID")
	tokenCmd.Flags().StringVar(&clientSecret, "client-secret", "", "Client Secret")
	tokenCmd.Flags().StringVar(&tokenURL, "token-url", "", "Token URL")
	tokenCmd.Flags().StringVar(&issuerURL, "issuer-url", "", "Issuer URL (for OIDC discovery)")
	tokenCmd.Flags().StringSliceVar(&scopes, "scopes", []string{}, "Scopes (comma-separated)")
	tokenCmd.Flags().BoolVar(&showExpiry, "show-expiry", false, "Print the token expiry on stderr")

	_ = tokenCmd.MarkFlagRequired("client-id")
	_ = tokenCmd.MarkFlagRequired("client-secret")
}
