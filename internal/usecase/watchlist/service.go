// Package watchlist implements watchlist management: listing, adding with
// fuzzy name resolution, and removal.
package watchlist

import (
	"context"
	"fmt"
	"log/slog"

	"estate-watch/internal/domain/entity"
	"estate-watch/internal/observability/metrics"
	"estate-watch/internal/repository"
	"estate-watch/internal/usecase/resolve"
)

// NamePool supplies the authoritative asset names a new entry is resolved
// against.
type NamePool interface {
	TransactedNames(ctx context.Context, kind entity.Kind, district string) []string
}

// AddResult reports what was actually stored after an add, including whether
// the entered name was substituted by a resolved one.
type AddResult struct {
	Entry        entity.WatchlistEntry
	Resolved     bool
	OriginalName string
}

// Service manages the persisted watchlist.
type Service struct {
	repo     repository.WatchlistRepository
	resolver *resolve.Resolver
	pool     NamePool
	region   string
}

// NewService creates a watchlist service. Entries arriving without a region
// are attributed to region, matching how the store stamps stored rows, so
// duplicate detection and removal compare like with like.
func NewService(repo repository.WatchlistRepository, resolver *resolve.Resolver, pool NamePool, region string) *Service {
	return &Service{repo: repo, resolver: resolver, pool: pool, region: region}
}

// List returns the current watchlist snapshot.
func (s *Service) List(ctx context.Context) ([]entity.WatchlistEntry, error) {
	entries, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	metrics.UpdateWatchlistSize(len(entries))
	return entries, nil
}

// Add validates the entry, resolves its asset name against the district's
// recently transacted names, and persists it. A duplicate of an existing
// entry is rejected with ErrDuplicateEntry. An empty candidate pool leaves
// the entered name untouched.
func (s *Service) Add(ctx context.Context, entry entity.WatchlistEntry) (AddResult, error) {
	if err := entry.Validate(); err != nil {
		return AddResult{}, err
	}
	if entry.Region == "" {
		entry.Region = s.region
	}

	original := entry.AssetName
	pool := s.pool.TransactedNames(ctx, entity.KindApartment, entry.District)
	result := s.resolver.Resolve(entry.AssetName, pool)
	entry.AssetName = result.Name
	if result.Resolved {
		slog.Info("watchlist entry name resolved",
			slog.String("entered", original),
			slog.String("resolved", result.Name),
			slog.Float64("score", result.Score))
	}

	entries, err := s.repo.Load(ctx)
	if err != nil {
		return AddResult{}, fmt.Errorf("load watchlist: %w", err)
	}
	for _, existing := range entries {
		if existing.Equal(entry) {
			return AddResult{}, entity.ErrDuplicateEntry
		}
	}

	entries = append(entries, entry)
	if err := s.repo.Save(ctx, entries); err != nil {
		return AddResult{}, fmt.Errorf("save watchlist: %w", err)
	}
	metrics.UpdateWatchlistSize(len(entries))

	return AddResult{Entry: entry, Resolved: result.Resolved, OriginalName: original}, nil
}

// Remove deletes the matching entry. Removing an entry that is not present
// returns ErrNotFound.
func (s *Service) Remove(ctx context.Context, entry entity.WatchlistEntry) error {
	if entry.Region == "" {
		entry.Region = s.region
	}

	entries, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}

	kept := entries[:0:0]
	for _, existing := range entries {
		if !existing.Equal(entry) {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(entries) {
		return entity.ErrNotFound
	}

	if err := s.repo.Save(ctx, kept); err != nil {
		return fmt.Errorf("save watchlist: %w", err)
	}
	metrics.UpdateWatchlistSize(len(kept))
	return nil
}
