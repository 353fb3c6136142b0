package sqldb

import (
	"context"
	"database/sql"

	"github.com/dineguide/dineguide/internal/model"
)

type collections struct{ s *DB }

func (c *collections) List(ctx context.Context) ([]*model.Collection, error) {
	rows, err := c.s.query(ctx, c.s.db, `
        SELECT slug, title, description, restaurant_ids, update_time FROM collections ORDER BY title, slug
    `)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []*model.Collection{}
	for rows.Next() {
		col, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, col)
	}
	return out, rows.Err()
}

func (c *collections) Get(ctx context.Context, slug string) (*model.Collection, error) {
	row := c.s.queryRow(ctx, c.s.db, `
        SELECT slug, title, description, restaurant_ids, update_time FROM collections WHERE slug=?
    `, slug)
	col, err := scanCollection(row)
	if err == sql.ErrNoRows {
		return nil, model.NewNotFoundError("collection", slug)
	}
	return col, err
}

func (c *collections) Put(ctx context.Context, in *model.Collection) (*model.Collection, error) {
	ids := in.RestaurantIDs
	if ids == nil {
		ids = []string{}
	}
	idsJSON, err := encodeJSON(ids)
	if err != nil {
		return nil, err
	}
	if _, err := c.s.exec(ctx, c.s.db, `
        INSERT INTO collections (slug, title, description, restaurant_ids, update_time)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (slug) DO UPDATE SET
            title=excluded.title, description=excluded.description,
            restaurant_ids=excluded.restaurant_ids, update_time=excluded.update_time
    `, in.Slug, in.Title, in.Description, idsJSON, millis(now())); err != nil {
		return nil, err
	}
	return c.Get(ctx, in.Slug)
}

func (c *collections) Delete(ctx context.Context, slug string) error {
	res, err := c.s.exec(ctx, c.s.db, `DELETE FROM collections WHERE slug=?`, slug)
	if err != nil {
		return err
	}
	return affected(res, model.NewNotFoundError("collection", slug))
}

func scanCollection(sc scanner) (*model.Collection, error) {
	var (
		out     model.Collection
		ids     sql.NullString
		updated int64
	)
	if err := sc.Scan(&out.Slug, &out.Title, &out.Description, &ids, &updated); err != nil {
		return nil, err
	}
	if err := decodeJSON(ids, &out.RestaurantIDs); err != nil {
		return nil, err
	}
	if out.RestaurantIDs == nil {
		out.RestaurantIDs = []string{}
	}
	out.UpdateTime = fromMillis(updated)
	return &out, nil
}
