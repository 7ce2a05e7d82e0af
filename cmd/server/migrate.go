package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"activity_hub/internal/config"
	"activity_hub/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger.Setup(cfg.LogFile, cfg.LogLevel)

		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := config.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logrus.Info("✅ Database schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
