package assignment

import "github.com/refbook/refbook/internal/domain/match"

// FindConflict reports the first match among `held` scheduled at the exact
// same date and time strings as `candidate`. Comparison is literal: "18:00"
// and "18:30" never collide even when the real games would overlap, and a
// differently formatted duplicate slips through. Matches are compared as
// stored, with the candidate itself excluded.
func FindConflict(candidate match.Match, held []match.Match) (match.Match, bool) {
	for _, m := range held {
		if m.ID == candidate.ID {
			continue
		}
		if m.Date == candidate.Date && m.Time == candidate.Time {
			return m, true
		}
	}
	return match.Match{}, false
}
