package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/teamcal/teamcal/internal/app"
	"github.com/teamcal/teamcal/internal/config"
	"github.com/teamcal/teamcal/internal/database"
)

var configPath string

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to load .env: %v", err)
	}

	rootCmd := &cobra.Command{
		Use:          "teamcal",
		Short:        "Team calendar server with an infinitely scrolling week grid",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config/application.yaml", "Path to the YAML configuration file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and background sync jobs",
		RunE:  runServe,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return database.Migrate(cfg.Database)
		},
	}
	var steps int
	migrateDownCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return database.MigrateDown(cfg.Database, steps)
		},
	}
	migrateDownCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)

	populateCmd := &cobra.Command{
		Use:   "populate",
		Short: "Seed an empty calendar with the default team and sample events",
		RunE:  runPopulate,
	}

	rootCmd.AddCommand(serveCmd, migrateCmd, populateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(cfg)
	if err != nil {
		log.Errorf("failed to initialize application: %v", err)
		return err
	}
	return application.Run(ctx)
}

func runPopulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	created, err := app.Populate(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if created == 0 {
		log.Info("Calendar already has events, nothing to populate")
		return nil
	}
	log.Infof("Populated calendar with %d events", created)
	return nil
}
