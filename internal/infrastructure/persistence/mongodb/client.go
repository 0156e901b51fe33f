// Package mongodb provides the MongoDB persistence layer.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"

	"edu-tutor-api/internal/config"
)

var tracer = otel.Tracer("mongodb")

// Client wraps the process-wide MongoDB connection. It is created once
// at bootstrap and shared by every repository.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	config *config.MongoConfig
}

// NewClient connects to MongoDB and verifies the connection.
func NewClient(cfg *config.MongoConfig) (*Client, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Client{
		client: client,
		db:     client.Database(cfg.Database),
		config: cfg,
	}, nil
}

// Database returns the configured database handle.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Close tears down the connection.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// HealthCheck verifies the store is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "mongodb.HealthCheck")
	defer span.End()

	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		span.RecordError(err)
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}
