package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoConfig struct {
	URI          string
	Database     string
	ReadyTimeout time.Duration
}

// NewMongo connects a client and returns the configured database once the
// primary answers a ping.
func NewMongo(ctx context.Context, cfg MongoConfig, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	ping := func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
	if err := waitReady(ctx, "mongo", cfg.ReadyTimeout, logger, ping); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(cfg.Database), nil
}
