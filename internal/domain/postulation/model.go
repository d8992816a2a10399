package postulation

import (
	"errors"
	"fmt"
	"time"
)

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
)

const MaxNotesLength = 500

var (
	ErrMissingUser    = errors.New("user id is required")
	ErrMissingClub    = errors.New("club id is required")
	ErrDuplicateMatch = errors.New("duplicate match in selection")
	ErrNotesTooLong   = errors.New("notes exceed maximum length")
	ErrInvalidStatus  = errors.New("invalid postulation status")
)

// Postulation is a referee's availability submission for a club: the set of
// matches they are willing to officiate, plus logistics details.
type Postulation struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	ClubID      string    `db:"club_id" json:"clubId"`
	MatchIDs    []string  `db:"-" json:"matchIds"`
	HasCar      bool      `db:"has_car" json:"hasCar"`
	Notes       string    `db:"notes" json:"notes"`
	Status      string    `db:"status" json:"status"`
	SubmittedAt time.Time `db:"submitted_at" json:"submittedAt"`
}

// ValidateBasic checks intrinsic shape: required ids, no duplicate match
// selections, notes within bounds. Cross-entity rules live in CanEdit and the
// service layer.
func (p Postulation) ValidateBasic() error {
	if p.UserID == "" {
		return ErrMissingUser
	}
	if p.ClubID == "" {
		return ErrMissingClub
	}
	if len(p.Notes) > MaxNotesLength {
		return fmt.Errorf("%w: max=%d got=%d", ErrNotesTooLong, MaxNotesLength, len(p.Notes))
	}
	if p.Status != "" && p.Status != StatusPending && p.Status != StatusCompleted {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, p.Status)
	}
	seen := make(map[string]struct{}, len(p.MatchIDs))
	for _, matchID := range p.MatchIDs {
		if matchID == "" {
			return errors.New("match id is required")
		}
		if _, ok := seen[matchID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateMatch, matchID)
		}
		seen[matchID] = struct{}{}
	}
	return nil
}
