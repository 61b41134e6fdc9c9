package main

import (
	"fmt"

	"github.com/driveline/placetrack/internal/config"
	"github.com/driveline/placetrack/internal/db"
	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the Placetrack database",
		Long:  "Creates the database file (sqlite) or schema (mysql) and migrates all tables.",
		RunE:  runDBInit,
	}
}

func runDBInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	gdb, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}

	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))
	switch cfg.Database.Driver {
	case "mysql":
		fmt.Fprintln(out, "Database ready (mysql)")
	default:
		fmt.Fprintf(out, "Database ready at %s\n", cfg.Database.Path)
	}
	return nil
}
