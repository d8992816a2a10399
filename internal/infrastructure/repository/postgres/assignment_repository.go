package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/refbook/refbook/internal/domain/assignment"
	qb "github.com/refbook/refbook/internal/platform/querybuilder"
)

type AssignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) GetByMatch(ctx context.Context, matchID string) (assignment.Assignment, bool, error) {
	const query = `
SELECT public_id, club_public_id, match_public_id, referee_id, assigned_at
FROM assignments
WHERE match_public_id = $1`

	var row assignmentRow
	if err := r.db.GetContext(ctx, &row, query, matchID); err != nil {
		if isNotFound(err) {
			return assignment.Assignment{}, false, nil
		}
		return assignment.Assignment{}, false, fmt.Errorf("get assignment: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *AssignmentRepository) ListByClub(ctx context.Context, clubID string) ([]assignment.Assignment, error) {
	return r.list(ctx, qb.Eq("club_public_id", clubID))
}

func (r *AssignmentRepository) ListByRefereeAndClub(ctx context.Context, refereeID, clubID string) ([]assignment.Assignment, error) {
	return r.list(ctx, qb.Eq("referee_id", refereeID), qb.Eq("club_public_id", clubID))
}

// Upsert keys on match id: reassigning a match replaces its referee and
// refreshes the assignment time.
func (r *AssignmentRepository) Upsert(ctx context.Context, a assignment.Assignment) error {
	const query = `
INSERT INTO assignments (public_id, club_public_id, match_public_id, referee_id, assigned_at)
VALUES (:public_id, :club_public_id, :match_public_id, :referee_id, :assigned_at)
ON CONFLICT (match_public_id)
DO UPDATE SET
    referee_id = EXCLUDED.referee_id,
    assigned_at = EXCLUDED.assigned_at,
    updated_at = NOW()`

	upsertSQL, args, err := sqlx.Named(query, assignmentToRow(a))
	if err != nil {
		return fmt.Errorf("bind upsert assignment query: %w", err)
	}
	upsertSQL = r.db.Rebind(upsertSQL)
	if _, err := r.db.ExecContext(ctx, upsertSQL, args...); err != nil {
		return fmt.Errorf("upsert assignment: %w", err)
	}

	return nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, matchID string) (bool, error) {
	const query = `DELETE FROM assignments WHERE match_public_id = $1`

	result, err := r.db.ExecContext(ctx, query, matchID)
	if err != nil {
		return false, fmt.Errorf("delete assignment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("count deleted assignments: %w", err)
	}

	return affected > 0, nil
}

func (r *AssignmentRepository) list(ctx context.Context, conditions ...qb.Condition) ([]assignment.Assignment, error) {
	query, args, err := qb.Select("public_id", "club_public_id", "match_public_id", "referee_id", "assigned_at").
		From("assignments").
		Where(conditions...).
		OrderBy("match_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list assignments query: %w", err)
	}

	var rows []assignmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toDomain())
	}

	return assignments, nil
}

type assignmentRow struct {
	PublicID      string    `db:"public_id"`
	ClubPublicID  string    `db:"club_public_id"`
	MatchPublicID string    `db:"match_public_id"`
	RefereeID     string    `db:"referee_id"`
	AssignedAt    time.Time `db:"assigned_at"`
}

func (row assignmentRow) toDomain() assignment.Assignment {
	return assignment.Assignment{
		ID:         row.PublicID,
		ClubID:     row.ClubPublicID,
		MatchID:    row.MatchPublicID,
		RefereeID:  row.RefereeID,
		AssignedAt: row.AssignedAt,
	}
}

func assignmentToRow(a assignment.Assignment) assignmentRow {
	return assignmentRow{
		PublicID:      a.ID,
		ClubPublicID:  a.ClubID,
		MatchPublicID: a.MatchID,
		RefereeID:     a.RefereeID,
		AssignedAt:    a.AssignedAt,
	}
}
