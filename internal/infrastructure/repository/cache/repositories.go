package cache

import (
	"context"

	"github.com/refbook/refbook/internal/domain/club"
	"github.com/refbook/refbook/internal/domain/match"
	basecache "github.com/refbook/refbook/internal/platform/cache"
)

// ClubRepository is a read-through cache over club storage. Clubs change
// rarely, so every lookup is cacheable.
type ClubRepository struct {
	next  club.Repository
	cache *basecache.Store
}

func NewClubRepository(next club.Repository, cache *basecache.Store) *ClubRepository {
	return &ClubRepository{next: next, cache: cache}
}

func (r *ClubRepository) List(ctx context.Context) ([]club.Club, error) {
	v, err := r.cache.GetOrLoad(ctx, "club:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]club.Club(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]club.Club)
	return append([]club.Club(nil), items...), nil
}

func (r *ClubRepository) GetByID(ctx context.Context, clubID string) (club.Club, bool, error) {
	key := "club:id:" + clubID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, clubID)
		if err != nil {
			return nil, err
		}
		return cachedClubByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return club.Club{}, false, err
	}

	cached, _ := v.(cachedClubByID)
	return cached.value, cached.exists, nil
}

type cachedClubByID struct {
	value  club.Club
	exists bool
}

// MatchRepository caches match reads and invalidates on every write. Lookup
// traffic from editability checks dwarfs admin edits.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	key := "match:id:" + matchID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cached.value, cached.exists, nil
}

// GetByIDs bypasses the cache: selections vary per postulation, so the hit
// rate on joined keys would be poor.
func (r *MatchRepository) GetByIDs(ctx context.Context, matchIDs []string) ([]match.Match, error) {
	return r.next.GetByIDs(ctx, matchIDs)
}

func (r *MatchRepository) ListByClub(ctx context.Context, clubID string) ([]match.Match, error) {
	key := "match:list:" + clubID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByClub(ctx, clubID)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) error {
	if err := r.next.Create(ctx, m); err != nil {
		return err
	}
	r.invalidate(ctx, m)
	return nil
}

func (r *MatchRepository) Update(ctx context.Context, m match.Match) (bool, error) {
	updated, err := r.next.Update(ctx, m)
	if err != nil {
		return false, err
	}
	if updated {
		r.invalidate(ctx, m)
	}
	return updated, nil
}

func (r *MatchRepository) Delete(ctx context.Context, matchID string) (bool, error) {
	deleted, err := r.next.Delete(ctx, matchID)
	if err != nil {
		return false, err
	}
	if deleted {
		r.cache.Delete(ctx, "match:id:"+matchID)
		r.cache.DeletePrefix(ctx, "match:list:")
	}
	return deleted, nil
}

func (r *MatchRepository) invalidate(ctx context.Context, m match.Match) {
	r.cache.Delete(ctx, "match:id:"+m.ID)
	r.cache.Delete(ctx, "match:list:"+m.ClubID)
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}
