package sqldb

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dineguide/dineguide/internal/model"
)

type reviews struct{ s *DB }

func (r *reviews) List(ctx context.Context, restaurantID string) ([]model.Review, error) {
	if err := r.s.requireRestaurant(ctx, r.s.db, restaurantID); err != nil {
		return nil, err
	}
	return r.s.loadReviews(ctx, r.s.db, restaurantID)
}

func (r *reviews) Create(ctx context.Context, restaurantID string, rv model.Review) (*model.Review, error) {
	rv.Key = uuid.New().String()
	if rv.Date.IsZero() {
		rv.Date = now()
	}
	rv.Date = fromMillis(millis(rv.Date))
	err := r.s.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.s.requireRestaurant(ctx, tx, restaurantID); err != nil {
			return err
		}
		_, err := r.s.exec(ctx, tx, `
            INSERT INTO reviews (review_key, restaurant_id, author, rating, comment, review_date)
            VALUES (?, ?, ?, ?, ?, ?)
        `, rv.Key, restaurantID, rv.Author, rv.Rating, rv.Comment, millis(rv.Date))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *reviews) Delete(ctx context.Context, restaurantID, reviewKey string) error {
	res, err := r.s.exec(ctx, r.s.db, `DELETE FROM reviews WHERE restaurant_id=? AND review_key=?`, restaurantID, reviewKey)
	if err != nil {
		return err
	}
	return affected(res, model.NewNotFoundError("review", reviewKey))
}

func (s *DB) loadReviews(ctx context.Context, q querier, restaurantID string) ([]model.Review, error) {
	rows, err := s.query(ctx, q, `
        SELECT review_key, author, rating, comment, review_date
        FROM reviews WHERE restaurant_id=? ORDER BY review_date DESC, review_key
    `, restaurantID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []model.Review{}
	for rows.Next() {
		var rv model.Review
		var date int64
		if err := rows.Scan(&rv.Key, &rv.Author, &rv.Rating, &rv.Comment, &date); err != nil {
			return nil, err
		}
		rv.Date = fromMillis(date)
		out = append(out, rv)
	}
	return out, rows.Err()
}
