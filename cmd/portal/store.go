package main

import (
	"context"
	"fmt"
	"log/slog"

	"recruitportal/internal/config"
	"recruitportal/internal/database"
	"recruitportal/internal/domain/application"
	"recruitportal/internal/repository/memory"
	mongorepo "recruitportal/internal/repository/mongo"
	"recruitportal/internal/repository/postgres"
)

type storeOptions struct {
	migrate bool
}

// openStore connects the repository named by DB_DRIVER. The returned closer
// is never nil.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger, opts storeOptions) (application.Repository, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := database.NewPostgres(ctx, database.PostgresConfig{
			DSN:             cfg.PostgresDSN,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxIdle:     cfg.DBConnMaxIdle,
			ConnMaxLifetime: cfg.DBConnMaxLife,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			if err := db.Close(); err != nil {
				logger.Error("postgres close failed", slog.String("error", err.Error()))
			}
		}
		if opts.migrate {
			if err := database.Migrate(ctx, db); err != nil {
				closer()
				return nil, nil, err
			}
			logger.Info("postgres migrations applied")
		}
		return postgres.NewApplicationRepository(db), closer, nil
	case config.DriverMongo:
		client, db, err := database.NewMongo(ctx, database.MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase}, logger)
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("mongo disconnect failed", slog.String("error", err.Error()))
			}
		}
		repo := mongorepo.NewApplicationRepository(db.Collection(mongorepo.CollectionName))
		if err := repo.EnsureIndexes(ctx); err != nil {
			closer()
			return nil, nil, err
		}
		return repo, closer, nil
	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on exit")
		return memory.NewApplicationRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
