package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/refbook/refbook/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo clubs and matches into an empty database so a
// fresh deployment has something to schedule against.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM clubs`); err != nil {
		return fmt.Errorf("count clubs for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, c := range memory.SeedClubs() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO clubs (public_id, name, short_code)
VALUES (:public_id, :name, :short_code)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":  c.ID,
			"name":       c.Name,
			"short_code": c.ShortCode,
		})
		if err != nil {
			return fmt.Errorf("bind seed club %s query: %w", c.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed club %s: %w", c.ID, err)
		}
	}

	for _, m := range memory.SeedMatches() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO matches (public_id, club_public_id, description, match_date, match_time, location, status)
VALUES (:public_id, :club_public_id, :description, :match_date, :match_time, :location, :status)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":      m.ID,
			"club_public_id": m.ClubID,
			"description":    m.Description,
			"match_date":     m.Date,
			"match_time":     m.Time,
			"location":       m.Location,
			"status":         m.Status,
		})
		if err != nil {
			return fmt.Errorf("bind seed match %s query: %w", m.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed match %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
