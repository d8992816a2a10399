package postulation

import (
	"context"
	"errors"
)

// ErrPendingExists is returned by Create when the storage layer already holds
// a pending postulation for the same (user, club) pair. Postgres enforces
// this with a partial unique index, so the sentinel also surfaces when two
// concurrent creates race past the service-level check.
var ErrPendingExists = errors.New("pending postulation already exists")

// Repository abstracts postulation storage. Create and ReplaceSelections
// persist the selection rows together with the postulation in one
// transaction on SQL-backed implementations.
type Repository interface {
	GetByID(ctx context.Context, postulationID string) (Postulation, bool, error)
	GetPendingByUserAndClub(ctx context.Context, userID, clubID string) (Postulation, bool, error)
	ListByClub(ctx context.Context, clubID string) ([]Postulation, error)
	Create(ctx context.Context, p Postulation) error
	ReplaceSelections(ctx context.Context, p Postulation) error
}
