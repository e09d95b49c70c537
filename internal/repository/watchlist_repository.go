// Package repository defines persistence interfaces for the domain layer.
package repository

import (
	"context"

	"estate-watch/internal/domain/entity"
)

// WatchlistRepository persists the user watchlist. Load returns the full
// current snapshot; Save rewrites the whole file. Concurrent writers are not
// coordinated (last write wins), which is acceptable for the intended
// single-user deployment.
type WatchlistRepository interface {
	Load(ctx context.Context) ([]entity.WatchlistEntry, error)
	Save(ctx context.Context, entries []entity.WatchlistEntry) error
}
