package core

import (
	"context"
)

// RecordSource provides the full dataset served to clients
type RecordSource interface {
	List(ctx context.Context) ([]Company, error)
	Ping(ctx context.Context) error
}

// Fetcher retrieves the full dataset on the client side
type Fetcher interface {
	Fetch(ctx context.Context) ([]Company, error)
}

// EventProducer defines the contract for sending events (Kafka)
type EventProducer interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
	Close() error
}
