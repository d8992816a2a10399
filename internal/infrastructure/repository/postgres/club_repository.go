package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/refbook/refbook/internal/domain/club"
)

type ClubRepository struct {
	db *sqlx.DB
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) List(ctx context.Context) ([]club.Club, error) {
	const query = `
SELECT public_id, name, short_code
FROM clubs
ORDER BY name`

	var rows []clubRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}

	clubs := make([]club.Club, 0, len(rows))
	for _, row := range rows {
		clubs = append(clubs, row.toDomain())
	}

	return clubs, nil
}

func (r *ClubRepository) GetByID(ctx context.Context, clubID string) (club.Club, bool, error) {
	const query = `
SELECT public_id, name, short_code
FROM clubs
WHERE public_id = $1`

	var row clubRow
	if err := r.db.GetContext(ctx, &row, query, clubID); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("get club: %w", err)
	}

	return row.toDomain(), true, nil
}

type clubRow struct {
	PublicID  string `db:"public_id"`
	Name      string `db:"name"`
	ShortCode string `db:"short_code"`
}

func (row clubRow) toDomain() club.Club {
	return club.Club{
		ID:        row.PublicID,
		Name:      row.Name,
		ShortCode: row.ShortCode,
	}
}
