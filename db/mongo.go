package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/the-beginners-2025/backend-go/logger"
)

// OpenMongo connects to MongoDB and ensures the indexes used by the
// AI call log collection. Mongo is an optional dependency; callers
// skip this entirely when no URI is configured.
func OpenMongo(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	if dbName == "" {
		dbName = "backend"
	}

	cl, err := mongo.NewClient(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := cl.Connect(connCtx); err != nil {
		return nil, err
	}
	// Ping to verify connection
	if err := cl.Ping(connCtx, readpref.Primary()); err != nil {
		return nil, err
	}
	database := cl.Database(dbName)

	if err := ensureIndexes(connCtx, database); err != nil {
		return nil, err
	}
	logger.Log.Info("MongoDB connected and indexes ensured")
	return database, nil
}

func ensureIndexes(ctx context.Context, d *mongo.Database) error {
	// ai_logs: requested_at desc for recency queries
	_, err := d.Collection("ai_logs").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "requested_at", Value: -1}},
		Options: options.Index().SetName("idx_requested_at_desc"),
	})
	return err
}
