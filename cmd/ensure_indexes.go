/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vgb-web/apiserver/config"
	"github.com/vgb-web/apiserver/internal/db"
)

// ensureIndexesCmd represents the ensure-indexes command.
var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Create the MongoDB indexes the server relies on",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if cfg.Database.URI == "" {
			return errors.New("MONGO_URI is required")
		}

		client, database, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("connect failed: %w", err)
		}
		defer func() {
			_ = client.Disconnect(cmd.Context())
		}()

		if err := db.EnsureIndexes(cmd.Context(), database); err != nil {
			return fmt.Errorf("ensure indexes failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ensureIndexesCmd)
}
