package assignment

import "context"

// Repository abstracts assignment storage. Upsert keys on match id: a second
// assignment for the same match overwrites the referee. Delete is a no-op
// when no row exists.
type Repository interface {
	GetByMatch(ctx context.Context, matchID string) (Assignment, bool, error)
	ListByClub(ctx context.Context, clubID string) ([]Assignment, error)
	ListByRefereeAndClub(ctx context.Context, refereeID, clubID string) ([]Assignment, error)
	Upsert(ctx context.Context, a Assignment) error
	Delete(ctx context.Context, matchID string) (bool, error)
}
