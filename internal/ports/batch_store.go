package ports

import (
	"context"

	"travel-time-service/internal/domain"

	"github.com/google/uuid"
)

// Port: persistence of completed batch runs.
type BatchStore interface {
	SaveBatch(ctx context.Context, b *domain.Batch) error
	// Return a stored batch, or domain.ErrBatchNotFound.
	GetBatch(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
}

// Port: notification of completed batch runs.
type BatchPublisher interface {
	PublishBatchCompleted(ctx context.Context, b *domain.Batch) error
}
