package match

import "context"

// Repository abstracts match storage.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	GetByIDs(ctx context.Context, matchIDs []string) ([]Match, error)
	ListByClub(ctx context.Context, clubID string) ([]Match, error)
	Create(ctx context.Context, m Match) error
	Update(ctx context.Context, m Match) (bool, error)
	Delete(ctx context.Context, matchID string) (bool, error)
}
