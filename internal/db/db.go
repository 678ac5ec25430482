package db

import (
	"context"
	"time"

	"github.com/vgb-web/apiserver/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPingTimeout    = 5 * time.Second
)

// Open connects to MongoDB and verifies the connection with a ping.
// The caller owns the returned client and must Disconnect it.
func Open(ctx context.Context, cfg config.Config) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		return nil, nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	return client, client.Database(cfg.Database.DBName), nil
}

// EnsureIndexes creates the indexes the user store relies on, most
// importantly the unique email index that backs duplicate-registration
// rejection.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	users := database.Collection("users")
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "password_reset_token", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	return err
}
