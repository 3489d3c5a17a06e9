package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/city-weather/internal/model"
)

// FavoriteRepo persists the per-user list of favorite cities.
type FavoriteRepo struct{ DB *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{DB: db} }

// Add inserts a favorite.  The unique (user_id, city_name) constraint makes
// concurrent duplicates collapse into ErrFavoriteExists.
func (r *FavoriteRepo) Add(ctx context.Context, userID uint64, city string, lat, lon float64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO favorites (user_id, city_name, lat, lon) VALUES (?,?,?,?)",
		userID, strings.TrimSpace(city), lat, lon)
	if err != nil {
		if isDuplicate(err) {
			return ErrFavoriteExists
		}
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// Delete removes the favorite matched by user and city name.
func (r *FavoriteRepo) Delete(ctx context.Context, userID uint64, city string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id=? AND city_name=?",
		userID, strings.TrimSpace(city))
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// ListByUser returns the user's favorites in insertion order.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Favorite, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, city_name, lat, lon FROM favorites WHERE user_id=? ORDER BY id",
		userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	out := []model.Favorite{}
	for rows.Next() {
		var f model.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.CityName, &f.Lat, &f.Lon); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
