// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canonical/tenant-proxy/internal/couch"
	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/tracing"
)

// databasesCmd lists the databases the store currently holds
var databasesCmd = &cobra.Command{
	Use:   "databases",
	Short: "List the document store's databases",
	Long:  `List the document store's databases`,
	Run: func(cmd *cobra.Command, args []string) {
		storeURL, _ := cmd.Flags().GetString("store-url")
		storeUser, _ := cmd.Flags().GetString("store-user")
		storePassword, _ := cmd.Flags().GetString("store-password")
		format, _ := cmd.Flags().GetString("format")

		client, err := couch.NewClient(storeURL, storeUser, storePassword, tracing.NewNoopTracer(), monitoring.NewNoopMonitor(), logging.NewNoopLogger())
		if err != nil {
			cmd.PrintErr(err)
			return
		}

		dbs, err := client.AllDBs(cmd.Context())
		if err != nil {
			cmd.PrintErr(err)
			return
		}

		out := cmd.OutOrStdout()
		if format == "json" {
			if err := json.NewEncoder(out).Encode(map[string]interface{}{"databases": dbs}); err != nil {
				cmd.PrintErr(err)
			}
			return
		}

		for _, db := range dbs {
			fmt.Fprintln(out, db)
		}
	},
}

func init() {
	databasesCmd.Flags().String("store-url", "", "Document store base URL")
	databasesCmd.Flags().String("store-user", "", "Document store admin user")
	databasesCmd.Flags().String("store-password", "", "Document store admin password")
	databasesCmd.Flags().StringP("format", "f", "text", "Output format (text or json)")
	_ = databasesCmd.MarkFlagRequired("store-url")
	_ = databasesCmd.MarkFlagRequired("store-user")
	_ = databasesCmd.MarkFlagRequired("store-password")

	rootCmd.AddCommand(databasesCmd)
}
