package postulation

import (
	"errors"
	"fmt"
	"time"

	"github.com/refbook/refbook/internal/domain/assignment"
	"github.com/refbook/refbook/internal/domain/match"
)

var (
	ErrFrozenAssigned = errors.New("postulation locked by assignment")
	ErrFrozenWindow   = errors.New("postulation locked by match window")
)

// CanEdit decides whether a pending postulation may still be changed at `now`.
//
// An empty selection is always editable. If the referee is already assigned
// to any selected match the whole postulation freezes, regardless of timing.
// Otherwise every selected match must still be outside its edit window.
// Selections pointing at matches no longer in `matches` are ignored: a
// deleted match cannot hold a submission hostage.
func CanEdit(p Postulation, matches []match.Match, held []assignment.Assignment, now time.Time) error {
	if len(p.MatchIDs) == 0 {
		return nil
	}

	assigned := make(map[string]struct{}, len(held))
	for _, a := range held {
		assigned[a.MatchID] = struct{}{}
	}
	byID := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
	}

	for _, matchID := range p.MatchIDs {
		if _, ok := assigned[matchID]; ok {
			return fmt.Errorf("%w: match=%s", ErrFrozenAssigned, matchID)
		}
	}
	for _, matchID := range p.MatchIDs {
		m, ok := byID[matchID]
		if !ok {
			continue
		}
		if !m.EditableAt(now) {
			return fmt.Errorf("%w: match=%s at %s %s", ErrFrozenWindow, m.ID, m.Date, m.Time)
		}
	}
	return nil
}
