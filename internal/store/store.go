// Package store provides data persistence abstractions for GHOpen.
package store

import (
	"context"

	"github.com/lazyvibe/ghopen/internal/model"
)

// RepositoryStore defines the interface for identity to local path mappings.
type RepositoryStore interface {
	// List returns all mappings sorted by LastUsed descending.
	List(ctx context.Context) ([]model.Repository, error)
	// Get retrieves the mapping for an identity.
	Get(ctx context.Context, identity string) (*model.Repository, error)
	// Put creates or replaces the mapping for r.Identity.
	Put(ctx context.Context, r *model.Repository) error
	// Delete removes the mapping for an identity.
	Delete(ctx context.Context, identity string) error
}

// Store combines all storage interfaces.
type Store interface {
	RepositoryStore
	// Close releases any resources held by the store.
	Close() error
}
