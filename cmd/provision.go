// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/canonical/tenant-proxy/internal/couch"
	"github.com/canonical/tenant-proxy/internal/logging"
	"github.com/canonical/tenant-proxy/internal/monitoring"
	"github.com/canonical/tenant-proxy/internal/tracing"
)

// registryIndexes back the Mango selectors the directory and invitation
// lookups run. CouchDB treats index creation as idempotent, so provisioning
// can be re-run at every deploy.
var registryIndexes = []struct {
	ddoc   string
	name   string
	fields []string
}{
	{"registry-indexes", "tenants-by-member", []string{"type", "members"}},
	{"registry-indexes", "invitations-by-tenant", []string{"type", "tenant_id"}},
}

// provisionCmd creates the databases and indexes the proxy expects
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create the databases and indexes the proxy needs",
	Long:  `Create the registry and data databases and the registry's Mango indexes. Safe to re-run.`,
	Run:   runProvision(),
}

func runProvision() func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		storeURL, _ := cmd.Flags().GetString("store-url")
		storeUser, _ := cmd.Flags().GetString("store-user")
		storePassword, _ := cmd.Flags().GetString("store-password")
		registryDB, _ := cmd.Flags().GetString("registry-db")
		dataDBs, _ := cmd.Flags().GetStringSlice("data-dbs")
		format, _ := cmd.Flags().GetString("format")

		if err := provision(cmd.Context(), cmd.OutOrStdout(), storeURL, storeUser, storePassword, registryDB, dataDBs, format); err != nil {
			cmd.PrintErr(err)
			os.Exit(1)
		}
	}
}

func init() {
	provisionCmd.Flags().String("store-url", "", "Document store base URL")
	provisionCmd.Flags().String("store-user", "", "Document store admin user")
	provisionCmd.Flags().String("store-password", "", "Document store admin password")
	provisionCmd.Flags().String("registry-db", "registry", "Registry database name")
	provisionCmd.Flags().StringSlice("data-dbs", []string{}, "Data databases to create (comma-separated)")
	provisionCmd.Flags().StringP("format", "f", "text", "Output format (text or json)")
	_ = provisionCmd.MarkFlagRequired("store-url")
	_ = provisionCmd.MarkFlagRequired("store-user")
	_ = provisionCmd.MarkFlagRequired("store-password")

	rootCmd.AddCommand(provisionCmd)
}

func provision(ctx context.Context, out io.Writer, storeURL, user, password, registryDB string, dataDBs []string, format string) error {
	client, err := couch.NewClient(storeURL, user, password, tracing.NewNoopTracer(), monitoring.NewNoopMonitor(), logging.NewNoopLogger())
	if err != nil {
		return fmt.Errorf("store connection failed, shutting down, err: %v", err)
	}

	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("store connection failed, shutting down, err: %v", err)
	}

	created := []string{}
	for _, db := range append([]string{registryDB}, dataDBs...) {
		exists, err := client.DBExists(ctx, db)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := client.CreateDB(ctx, db); err != nil {
			return err
		}
		created = append(created, db)
	}

	indexed := []string{}
	for _, idx := range registryIndexes {
		if err := client.CreateIndex(ctx, registryDB, idx.ddoc, idx.name, idx.fields); err != nil {
			return err
		}
		indexed = append(indexed, idx.name)
	}

	if format == "json" {
		return json.NewEncoder(out).Encode(map[string]interface{}{
			"created": created,
			"indexes": indexed,
		})
	}

	for _, db := range created {
		fmt.Fprintf(out, "created database %s\n", db)
	}
	for _, name := range indexed {
		fmt.Fprintf(out, "ensured index %s on %s\n", name, registryDB)
	}

	return nil
}
