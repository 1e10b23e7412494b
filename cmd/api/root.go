package main

import (
	"fmt"

	"rental/internal/config"
	"rental/internal/infra/db"
	"rental/internal/infra/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rental",
		Short:         "Event rental stock service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSlice("env-file", []string{".env", "../.env"}, "dotenv files to load, missing ones are skipped")

	root.AddCommand(newServeCmd(), newMigrateCmd(), newCreateUserCmd())
	return root
}

// app is what every command needs: settings, a logger and an open database.
type app struct {
	cfg config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap(cmd *cobra.Command) (*app, func(), error) {
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	for _, f := range envFiles {
		config.LoadDotEnv(f)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logging.New(cfg.IsProd(), cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	gdb, err := db.Connect(cfg, logging.GormLogger(log, cfg.IsProd()))
	if err != nil {
		_ = log.Sync()
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	cleanup := func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = log.Sync()
	}
	return &app{cfg: cfg, log: log, db: gdb}, cleanup, nil
}
