package service

import (
	"context"

	"go.uber.org/zap"

	"company-directory/internal/core"
)

// ServedEvent is published each time the dataset is handed to a client.
type ServedEvent struct {
	Count int `json:"count"`
}

type CatalogService struct {
	source   core.RecordSource
	producer core.EventProducer
	logger   *zap.Logger
}

func NewCatalogService(s core.RecordSource, p core.EventProducer, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		source:   s,
		producer: p,
		logger:   logger,
	}
}

// Companies returns the full dataset as the source currently holds it.
func (s *CatalogService) Companies(ctx context.Context) ([]core.Company, error) {
	// 1. Read from the source
	companies, err := s.source.List(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Refuse to publish a set that breaks id uniqueness
	if err := core.ValidateSet(companies); err != nil {
		return nil, err
	}

	// 3. Emit Event
	if err := s.producer.Publish(ctx, "CompaniesServed", ServedEvent{Count: len(companies)}); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("type", "CompaniesServed"), zap.Error(err))
	}

	return companies, nil
}

// Ping checks the underlying source.
func (s *CatalogService) Ping(ctx context.Context) error {
	return s.source.Ping(ctx)
}
