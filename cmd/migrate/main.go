package main

import (
	"context"
	"time"

	"chilaquiles/internal/api"
	"chilaquiles/internal/app/config"
	"chilaquiles/internal/app/seed"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	cfg.SetupLogger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := api.NewStorage(ctx, cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}
	logrus.Info("Database migration completed successfully")

	created, err := seed.Admin(ctx, store, cfg.Admin)
	if err != nil {
		logrus.Fatalf("Failed to seed admin: %v", err)
	}
	if created {
		logrus.Infof("Admin %s created", cfg.Admin.Username)
	}
}
