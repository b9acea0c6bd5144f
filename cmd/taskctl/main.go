// Command taskctl provisions groups, users and demo data for the task
// tracker. It reads the same environment configuration as the server.
package main

import (
	"context"
	"os"

	"github.com/besimplit/task-tracker/internal/config"
	"github.com/besimplit/task-tracker/internal/database"
	"github.com/besimplit/task-tracker/internal/logger"
	"gorm.io/gorm"
)

func main() {
	log := logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL"), Pretty: true, Output: os.Stderr})

	open := func(ctx context.Context) (*gorm.DB, error) {
		cfg, err := config.Load(ctx)
		if err != nil {
			return nil, err
		}
		return database.Connect(cfg)
	}

	if err := newRootCmd(open).Execute(); err != nil {
		log.Error().Err(err).Msg("taskctl failed")
		os.Exit(1)
	}
}
