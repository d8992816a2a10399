package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/refbook/refbook/internal/domain/match"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	const query = `
SELECT public_id, club_public_id, description, match_date, match_time, location, status
FROM matches
WHERE public_id = $1`

	var row matchRow
	if err := r.db.GetContext(ctx, &row, query, matchID); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *MatchRepository) GetByIDs(ctx context.Context, matchIDs []string) ([]match.Match, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
SELECT public_id, club_public_id, description, match_date, match_time, location, status
FROM matches
WHERE public_id IN (?)`, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("bind get matches by ids query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []matchRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get matches by ids: %w", err)
	}

	matches := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, row.toDomain())
	}

	return matches, nil
}

func (r *MatchRepository) ListByClub(ctx context.Context, clubID string) ([]match.Match, error) {
	const query = `
SELECT public_id, club_public_id, description, match_date, match_time, location, status
FROM matches
WHERE club_public_id = $1
ORDER BY match_date, match_time, public_id`

	var rows []matchRow
	if err := r.db.SelectContext(ctx, &rows, query, clubID); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	matches := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, row.toDomain())
	}

	return matches, nil
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) error {
	const query = `
INSERT INTO matches (public_id, club_public_id, description, match_date, match_time, location, status)
VALUES (:public_id, :club_public_id, :description, :match_date, :match_time, :location, :status)`

	insertSQL, args, err := sqlx.Named(query, matchToRow(m))
	if err != nil {
		return fmt.Errorf("bind insert match query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)
	if _, err := r.db.ExecContext(ctx, insertSQL, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	return nil
}

func (r *MatchRepository) Update(ctx context.Context, m match.Match) (bool, error) {
	const query = `
UPDATE matches
SET club_public_id = :club_public_id,
    description = :description,
    match_date = :match_date,
    match_time = :match_time,
    location = :location,
    status = :status,
    updated_at = NOW()
WHERE public_id = :public_id`

	updateSQL, args, err := sqlx.Named(query, matchToRow(m))
	if err != nil {
		return false, fmt.Errorf("bind update match query: %w", err)
	}
	updateSQL = r.db.Rebind(updateSQL)
	result, err := r.db.ExecContext(ctx, updateSQL, args...)
	if err != nil {
		return false, fmt.Errorf("update match: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("count updated matches: %w", err)
	}

	return affected > 0, nil
}

func (r *MatchRepository) Delete(ctx context.Context, matchID string) (bool, error) {
	const query = `DELETE FROM matches WHERE public_id = $1`

	result, err := r.db.ExecContext(ctx, query, matchID)
	if err != nil {
		return false, fmt.Errorf("delete match: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("count deleted matches: %w", err)
	}

	return affected > 0, nil
}

type matchRow struct {
	PublicID     string `db:"public_id"`
	ClubPublicID string `db:"club_public_id"`
	Description  string `db:"description"`
	MatchDate    string `db:"match_date"`
	MatchTime    string `db:"match_time"`
	Location     string `db:"location"`
	Status       string `db:"status"`
}

func (row matchRow) toDomain() match.Match {
	return match.Match{
		ID:          row.PublicID,
		ClubID:      row.ClubPublicID,
		Description: row.Description,
		Date:        row.MatchDate,
		Time:        row.MatchTime,
		Location:    row.Location,
		Status:      row.Status,
	}
}

func matchToRow(m match.Match) matchRow {
	return matchRow{
		PublicID:     m.ID,
		ClubPublicID: m.ClubID,
		Description:  m.Description,
		MatchDate:    m.Date,
		MatchTime:    m.Time,
		Location:     m.Location,
		Status:       m.Status,
	}
}
