package sqldb

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dineguide/dineguide/internal/model"
)

type restaurants struct{ s *DB }

const restaurantColumns = `restaurant_id, name, neighbourhood, street_address, cuisine, price_range,
        summary, description, phone, website, tags, amenities, accessibility, payment_methods,
        service_options, main_image, gallery_images, opening_hours, creation_time, update_time`

func (r *restaurants) Create(ctx context.Context, in *model.Restaurant) (*model.Restaurant, error) {
	rec := *in
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	ts := now()
	rec.CreationTime, rec.UpdateTime = ts, ts

	err := r.s.inTx(ctx, func(tx *sql.Tx) error {
		taken, err := r.s.exists(ctx, tx, `SELECT 1 FROM restaurants WHERE restaurant_id=?`, rec.ID)
		if err != nil {
			return err
		}
		if taken {
			return model.NewConflictError("id", "restaurant "+rec.ID+" already exists")
		}
		args, err := restaurantArgs(&rec)
		if err != nil {
			return err
		}
		if _, err := r.s.exec(ctx, tx, `
            INSERT INTO restaurants (`+restaurantColumns+`)
            VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
        `, append([]any{rec.ID}, append(args, millis(ts), millis(ts))...)...); err != nil {
			return err
		}
		return r.s.replaceMenu(ctx, tx, rec.ID, rec.Menu)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, rec.ID)
}

func (r *restaurants) Get(ctx context.Context, id string) (*model.Restaurant, error) {
	row := r.s.queryRow(ctx, r.s.db, `SELECT `+restaurantColumns+` FROM restaurants WHERE restaurant_id=?`, id)
	out, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return nil, model.NewNotFoundError("restaurant", id)
	}
	if err != nil {
		return nil, err
	}
	if out.Menu, err = r.s.loadMenu(ctx, r.s.db, id); err != nil {
		return nil, err
	}
	if out.Reviews, err = r.s.loadReviews(ctx, r.s.db, id); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *restaurants) List(ctx context.Context) ([]*model.Restaurant, error) {
	rows, err := r.s.query(ctx, r.s.db, `SELECT `+restaurantColumns+` FROM restaurants ORDER BY name, restaurant_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []*model.Restaurant{}
	for rows.Next() {
		rec, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *restaurants) Update(ctx context.Context, in *model.Restaurant) (*model.Restaurant, error) {
	rec := *in
	err := r.s.inTx(ctx, func(tx *sql.Tx) error {
		args, err := restaurantArgs(&rec)
		if err != nil {
			return err
		}
		res, err := r.s.exec(ctx, tx, `
            UPDATE restaurants SET name=?, neighbourhood=?, street_address=?, cuisine=?, price_range=?,
                summary=?, description=?, phone=?, website=?, tags=?, amenities=?, accessibility=?,
                payment_methods=?, service_options=?, main_image=?, gallery_images=?, opening_hours=?,
                update_time=?
            WHERE restaurant_id=?
        `, append(args, millis(now()), rec.ID)...)
		if err != nil {
			return err
		}
		if err := affected(res, model.NewNotFoundError("restaurant", rec.ID)); err != nil {
			return err
		}
		if rec.Menu == nil {
			return nil
		}
		current, err := r.s.loadMenu(ctx, tx, rec.ID)
		if err != nil {
			return err
		}
		return r.s.replaceMenu(ctx, tx, rec.ID, keepOwnedKeys(rec.Menu, current))
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, rec.ID)
}

func (r *restaurants) Delete(ctx context.Context, id string) error {
	return r.s.inTx(ctx, func(tx *sql.Tx) error {
		// explicit child deletes keep this correct when foreign keys are off
		if _, err := r.s.exec(ctx, tx, `DELETE FROM menu_items WHERE restaurant_id=?`, id); err != nil {
			return err
		}
		if _, err := r.s.exec(ctx, tx, `DELETE FROM menu_sections WHERE restaurant_id=?`, id); err != nil {
			return err
		}
		if _, err := r.s.exec(ctx, tx, `DELETE FROM reviews WHERE restaurant_id=?`, id); err != nil {
			return err
		}
		res, err := r.s.exec(ctx, tx, `DELETE FROM restaurants WHERE restaurant_id=?`, id)
		if err != nil {
			return err
		}
		return affected(res, model.NewNotFoundError("restaurant", id))
	})
}

// restaurantArgs returns the column values from name through opening_hours.
func restaurantArgs(r *model.Restaurant) ([]any, error) {
	lists := [][]string{r.Tags, r.Amenities, r.Accessibility, r.PaymentMethods, r.ServiceOptions}
	args := []any{r.Name, r.Neighbourhood, r.StreetAddress, r.Cuisine, r.PriceRange,
		r.Summary, r.Description, r.Phone, r.Website}
	for _, l := range lists {
		v, err := nullableJSON(l, l != nil)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	for _, f := range []struct {
		v       any
		present bool
	}{
		{r.MainImage, r.MainImage != nil},
		{r.GalleryImages, r.GalleryImages != nil},
		{r.OpeningHours, r.OpeningHours != nil},
	} {
		v, err := nullableJSON(f.v, f.present)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

type scanner interface{ Scan(dest ...any) error }

func scanRestaurant(sc scanner) (*model.Restaurant, error) {
	var (
		out                                        model.Restaurant
		tags, amenities, access, payments, service sql.NullString
		mainImage, gallery, hours                  sql.NullString
		created, updated                           int64
	)
	if err := sc.Scan(&out.ID, &out.Name, &out.Neighbourhood, &out.StreetAddress, &out.Cuisine, &out.PriceRange,
		&out.Summary, &out.Description, &out.Phone, &out.Website, &tags, &amenities, &access, &payments,
		&service, &mainImage, &gallery, &hours, &created, &updated); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		src sql.NullString
		dst any
	}{
		{tags, &out.Tags}, {amenities, &out.Amenities}, {access, &out.Accessibility},
		{payments, &out.PaymentMethods}, {service, &out.ServiceOptions},
		{mainImage, &out.MainImage}, {gallery, &out.GalleryImages}, {hours, &out.OpeningHours},
	} {
		if err := decodeJSON(f.src, f.dst); err != nil {
			return nil, err
		}
	}
	out.CreationTime = fromMillis(created)
	out.UpdateTime = fromMillis(updated)
	return &out, nil
}
