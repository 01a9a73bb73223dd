package main

import (
	"HostelManagement/internal/bootstrap"
	"HostelManagement/internal/config"
	"HostelManagement/internal/seed"
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	bootstrap.Loadenv()

	var (
		db     *mongo.Database
		logger *zap.Logger
	)
	app := fx.New(
		fx.Provide(config.NewConfig, config.NewLogger, config.NewMongoDBClient),
		fx.WithLogger(config.FxLogger),
		fx.Populate(&db, &logger),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("start: %v", err)
	}
	runErr := seed.NewSeeder(db, logger).Run(ctx)
	if err := app.Stop(ctx); err != nil {
		logger.Warn("stop", zap.Error(err))
	}
	if runErr != nil {
		logger.Fatal("seeding failed", zap.Error(runErr))
	}
}
