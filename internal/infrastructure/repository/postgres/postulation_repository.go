package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/refbook/refbook/internal/domain/postulation"
)

// pendingUniqueConstraint is the partial unique index guaranteeing one
// pending postulation per (user, club). Violations of it are reported as
// postulation.ErrPendingExists so racing creates fail the same way the
// service-level check does.
const pendingUniqueConstraint = "postulations_pending_user_club_key"

type PostulationRepository struct {
	db *sqlx.DB
}

func NewPostulationRepository(db *sqlx.DB) *PostulationRepository {
	return &PostulationRepository{db: db}
}

func (r *PostulationRepository) GetByID(ctx context.Context, postulationID string) (postulation.Postulation, bool, error) {
	const query = `
SELECT public_id, user_id, club_public_id, has_car, notes, status, submitted_at
FROM postulations
WHERE public_id = $1`

	var row postulationRow
	if err := r.db.GetContext(ctx, &row, query, postulationID); err != nil {
		if isNotFound(err) {
			return postulation.Postulation{}, false, nil
		}
		return postulation.Postulation{}, false, fmt.Errorf("get postulation: %w", err)
	}

	matchIDs, err := r.selectionFor(ctx, row.PublicID)
	if err != nil {
		return postulation.Postulation{}, false, err
	}

	return row.toDomain(matchIDs), true, nil
}

func (r *PostulationRepository) GetPendingByUserAndClub(ctx context.Context, userID, clubID string) (postulation.Postulation, bool, error) {
	const query = `
SELECT public_id, user_id, club_public_id, has_car, notes, status, submitted_at
FROM postulations
WHERE user_id = $1
  AND club_public_id = $2
  AND status = 'PENDING'`

	var row postulationRow
	if err := r.db.GetContext(ctx, &row, query, userID, clubID); err != nil {
		if isNotFound(err) {
			return postulation.Postulation{}, false, nil
		}
		return postulation.Postulation{}, false, fmt.Errorf("get pending postulation: %w", err)
	}

	matchIDs, err := r.selectionFor(ctx, row.PublicID)
	if err != nil {
		return postulation.Postulation{}, false, err
	}

	return row.toDomain(matchIDs), true, nil
}

func (r *PostulationRepository) ListByClub(ctx context.Context, clubID string) ([]postulation.Postulation, error) {
	const query = `
SELECT public_id, user_id, club_public_id, has_car, notes, status, submitted_at
FROM postulations
WHERE club_public_id = $1
ORDER BY submitted_at, public_id`

	var rows []postulationRow
	if err := r.db.SelectContext(ctx, &rows, query, clubID); err != nil {
		return nil, fmt.Errorf("list postulations: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	postulationIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		postulationIDs = append(postulationIDs, row.PublicID)
	}

	selectionQuery, args, err := sqlx.In(`
SELECT postulation_public_id, match_public_id
FROM postulation_matches
WHERE postulation_public_id IN (?)
ORDER BY id`, postulationIDs)
	if err != nil {
		return nil, fmt.Errorf("bind list selections query: %w", err)
	}
	selectionQuery = r.db.Rebind(selectionQuery)

	var selectionRows []struct {
		PostulationPublicID string `db:"postulation_public_id"`
		MatchPublicID       string `db:"match_public_id"`
	}
	if err := r.db.SelectContext(ctx, &selectionRows, selectionQuery, args...); err != nil {
		return nil, fmt.Errorf("list postulation selections: %w", err)
	}

	selectionByPostulation := make(map[string][]string, len(rows))
	for _, s := range selectionRows {
		selectionByPostulation[s.PostulationPublicID] = append(selectionByPostulation[s.PostulationPublicID], s.MatchPublicID)
	}

	postulations := make([]postulation.Postulation, 0, len(rows))
	for _, row := range rows {
		postulations = append(postulations, row.toDomain(selectionByPostulation[row.PublicID]))
	}

	return postulations, nil
}

func (r *PostulationRepository) Create(ctx context.Context, p postulation.Postulation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for postulation create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insertQuery = `
INSERT INTO postulations (public_id, user_id, club_public_id, has_car, notes, status, submitted_at)
VALUES (:public_id, :user_id, :club_public_id, :has_car, :notes, :status, :submitted_at)`

	insertSQL, args, err := sqlx.Named(insertQuery, postulationToRow(p))
	if err != nil {
		return fmt.Errorf("bind insert postulation query: %w", err)
	}
	insertSQL = tx.Rebind(insertSQL)
	if _, err := tx.ExecContext(ctx, insertSQL, args...); err != nil {
		if isUniqueViolation(err, pendingUniqueConstraint) {
			return fmt.Errorf("%w: user=%s club=%s", postulation.ErrPendingExists, p.UserID, p.ClubID)
		}
		return fmt.Errorf("insert postulation: %w", err)
	}

	if err := insertSelections(ctx, tx, p.ID, p.MatchIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit postulation create tx: %w", err)
	}

	return nil
}

// ReplaceSelections rewrites the postulation header and swaps the whole
// selection in one transaction.
func (r *PostulationRepository) ReplaceSelections(ctx context.Context, p postulation.Postulation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for postulation update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const updateQuery = `
UPDATE postulations
SET has_car = :has_car,
    notes = :notes,
    status = :status,
    submitted_at = :submitted_at,
    updated_at = NOW()
WHERE public_id = :public_id`

	updateSQL, args, err := sqlx.Named(updateQuery, postulationToRow(p))
	if err != nil {
		return fmt.Errorf("bind update postulation query: %w", err)
	}
	updateSQL = tx.Rebind(updateSQL)
	if _, err := tx.ExecContext(ctx, updateSQL, args...); err != nil {
		return fmt.Errorf("update postulation: %w", err)
	}

	const clearQuery = `DELETE FROM postulation_matches WHERE postulation_public_id = $1`
	clearSQL := tx.Rebind(clearQuery)
	if _, err := tx.ExecContext(ctx, clearSQL, p.ID); err != nil {
		return fmt.Errorf("clear postulation selections: %w", err)
	}

	if err := insertSelections(ctx, tx, p.ID, p.MatchIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit postulation update tx: %w", err)
	}

	return nil
}

func (r *PostulationRepository) selectionFor(ctx context.Context, postulationID string) ([]string, error) {
	const query = `
SELECT match_public_id
FROM postulation_matches
WHERE postulation_public_id = $1
ORDER BY id`

	var matchIDs []string
	if err := r.db.SelectContext(ctx, &matchIDs, query, postulationID); err != nil {
		return nil, fmt.Errorf("get postulation selections: %w", err)
	}

	return matchIDs, nil
}

func insertSelections(ctx context.Context, tx *sqlx.Tx, postulationID string, matchIDs []string) error {
	const query = `
INSERT INTO postulation_matches (postulation_public_id, match_public_id)
VALUES (:postulation_public_id, :match_public_id)`

	for _, matchID := range matchIDs {
		insertSQL, args, err := sqlx.Named(query, map[string]any{
			"postulation_public_id": postulationID,
			"match_public_id":       matchID,
		})
		if err != nil {
			return fmt.Errorf("bind insert selection match=%s query: %w", matchID, err)
		}
		insertSQL = tx.Rebind(insertSQL)
		if _, err := tx.ExecContext(ctx, insertSQL, args...); err != nil {
			return fmt.Errorf("insert selection match=%s: %w", matchID, err)
		}
	}

	return nil
}

type postulationRow struct {
	PublicID     string    `db:"public_id"`
	UserID       string    `db:"user_id"`
	ClubPublicID string    `db:"club_public_id"`
	HasCar       bool      `db:"has_car"`
	Notes        string    `db:"notes"`
	Status       string    `db:"status"`
	SubmittedAt  time.Time `db:"submitted_at"`
}

func (row postulationRow) toDomain(matchIDs []string) postulation.Postulation {
	return postulation.Postulation{
		ID:          row.PublicID,
		UserID:      row.UserID,
		ClubID:      row.ClubPublicID,
		MatchIDs:    matchIDs,
		HasCar:      row.HasCar,
		Notes:       row.Notes,
		Status:      row.Status,
		SubmittedAt: row.SubmittedAt,
	}
}

func postulationToRow(p postulation.Postulation) postulationRow {
	return postulationRow{
		PublicID:     p.ID,
		UserID:       p.UserID,
		ClubPublicID: p.ClubID,
		HasCar:       p.HasCar,
		Notes:        p.Notes,
		Status:       p.Status,
		SubmittedAt:  p.SubmittedAt,
	}
}
