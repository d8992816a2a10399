package assignment

import "time"

// Assignment binds a referee to a match. One referee per match; assigning
// over an existing row replaces its referee.
type Assignment struct {
	ID         string    `db:"id" json:"id"`
	ClubID     string    `db:"club_id" json:"clubId"`
	MatchID    string    `db:"match_id" json:"matchId"`
	RefereeID  string    `db:"referee_id" json:"refereeId"`
	AssignedAt time.Time `db:"assigned_at" json:"assignedAt"`
}
