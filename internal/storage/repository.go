package storage

import (
	"context"

	"github.com/halilibrahimsaltas/W2T-Relay/internal/domain"
)

// Repository is the persistence collaborator behind the dedup gate.
// This allows us to swap storage implementations without changing the
// pipeline logic that uses it.
type Repository interface {
	// FindByProductName returns the record previously saved for this product
	// name, or nil when none exists. The lookup is exact-match on the
	// whitespace-normalized name.
	FindByProductName(ctx context.Context, name string) (*domain.MessageRecord, error)

	// Save persists a record. A record is created at most once per distinct
	// product name; saving again overwrites the earlier record.
	Save(ctx context.Context, record domain.MessageRecord) error

	// Close gracefully shuts down the repository.
	Close() error
}
