package sqldb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/dineguide/dineguide/internal/model"
)

type menus struct{ s *DB }

func (m *menus) Get(ctx context.Context, restaurantID string) ([]model.MenuSection, error) {
	if err := m.s.requireRestaurant(ctx, m.s.db, restaurantID); err != nil {
		return nil, err
	}
	return m.s.loadMenu(ctx, m.s.db, restaurantID)
}

func (m *menus) CreateSection(ctx context.Context, restaurantID, name string) (*model.MenuSection, error) {
	sec := &model.MenuSection{Key: uuid.New().String(), Name: name, Items: []model.MenuItem{}}
	err := m.s.inTx(ctx, func(tx *sql.Tx) error {
		if err := m.s.requireRestaurant(ctx, tx, restaurantID); err != nil {
			return err
		}
		if _, err := m.s.exec(ctx, tx, `
            INSERT INTO menu_sections (section_key, restaurant_id, position, name)
            VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM menu_sections WHERE restaurant_id=?), ?)
        `, sec.Key, restaurantID, restaurantID, name); err != nil {
			return err
		}
		return m.s.touch(ctx, tx, restaurantID)
	})
	if err != nil {
		return nil, err
	}
	return sec, nil
}

func (m *menus) UpdateSection(ctx context.Context, restaurantID, sectionKey string, patch model.SectionPatch) error {
	return m.s.inTx(ctx, func(tx *sql.Tx) error {
		if err := m.s.requireRestaurant(ctx, tx, restaurantID); err != nil {
			return err
		}
		ok, err := m.s.exists(ctx, tx, `SELECT 1 FROM menu_sections WHERE restaurant_id=? AND section_key=?`, restaurantID, sectionKey)
		if err != nil {
			return err
		}
		if !ok {
			return model.NewNotFoundError("section", sectionKey)
		}
		if patch.Name != nil {
			if _, err := m.s.exec(ctx, tx, `UPDATE menu_sections SET name=? WHERE restaurant_id=? AND section_key=?`,
				*patch.Name, restaurantID, sectionKey); err != nil {
				return err
			}
		}
		return m.s.touch(ctx, tx, restaurantID)
	})
}

func (m *menus) DeleteSection(ctx context.Context, restaurantID, sectionKey string) error {
	return m.s.inTx(ctx, func(tx *sql.Tx) error {
		if err := m.s.requireRestaurant(ctx, tx, restaurantID); err != nil {
			return err
		}
		if _, err := m.s.exec(ctx, tx, `DELETE FROM menu_items WHERE restaurant_id=? AND section_key=?`, restaurantID, sectionKey); err != nil {
			return err
		}
		res, err := m.s.exec(ctx, tx, `DELETE FROM menu_sections WHERE restaurant_id=? AND section_key=?`, restaurantID, sectionKey)
		if err != nil {
			return err
		}
		if err := affected(res, model.NewNotFoundError("section", sectionKey)); err != nil {
			return err
		}
		return m.s.touch(ctx, tx, restaurantID)
	})
}

func (m *menus) CreateItem(ctx context.Context, restaurantID, sectionKey string, item model.MenuItem) (*model.MenuItem, error) {
	item.Key = uuid.New().String()
	item.PendingImage = nil
	err := m.s.inTx(ctx, func(tx *sql.Tx) error {
		if err := m.s.requireRestaurant(ctx, tx, restaurantID); err != nil {
			return err
		}
		ok, err := m.s.exists(ctx, tx, `SELECT 1 FROM menu_sections WHERE restaurant_id=? AND section_key=?`, restaurantID, sectionKey)
		if err != nil {
			return err
		}
		if !ok {
			return model.NewNotFoundError("section", sectionKey)
		}
		if err := m.s.insertItem(ctx, tx, restaurantID, sectionKey, -1, item); err != nil {
			return err
		}
		return m.s.touch(ctx, tx, restaurantID)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (m *menus) UpdateItem(ctx context.Context, restaurantID, itemKey string, patch model.ItemPatch) error {
	return m.s.inTx(ctx, func(tx *sql.Tx) error {
		if err := m.s.requireRestaurant(ctx, tx, restaurantID); err != nil {
			return err
		}
		ok, err := m.s.exists(ctx, tx, `SELECT 1 FROM menu_items WHERE restaurant_id=? AND item_key=?`, restaurantID, itemKey)
		if err != nil {
			return err
		}
		if !ok {
			return model.NewNotFoundError("item", itemKey)
		}

		var sets []string
		var args []any
		if patch.Name != nil {
			sets, args = append(sets, "name=?"), append(args, *patch.Name)
		}
		if patch.Description != nil {
			sets, args = append(sets, "description=?"), append(args, *patch.Description)
		}
		if patch.Price != nil {
			sets, args = append(sets, "price=?"), append(args, *patch.Price)
		}
		if patch.Image != nil {
			img, err := nullableJSON(patch.Image, true)
			if err != nil {
				return err
			}
			sets, args = append(sets, "image=?"), append(args, img)
		}
		if len(sets) > 0 {
			args = append(args, restaurantID, itemKey)
			if _, err := m.s.exec(ctx, tx, `UPDATE menu_items SET `+strings.Join(sets, ", ")+` WHERE restaurant_id=? AND item_key=?`, args...); err != nil {
				return err
			}
		}
		return m.s.touch(ctx, tx, restaurantID)
	})
}

func (m *menus) DeleteItem(ctx context.Context, restaurantID, itemKey string) error {
	return m.s.inTx(ctx, func(tx *sql.Tx) error {
		if err := m.s.requireRestaurant(ctx, tx, restaurantID); err != nil {
			return err
		}
		res, err := m.s.exec(ctx, tx, `DELETE FROM menu_items WHERE restaurant_id=? AND item_key=?`, restaurantID, itemKey)
		if err != nil {
			return err
		}
		if err := affected(res, model.NewNotFoundError("item", itemKey)); err != nil {
			return err
		}
		return m.s.touch(ctx, tx, restaurantID)
	})
}

// insertItem appends when position is negative.
func (s *DB) insertItem(ctx context.Context, q querier, restaurantID, sectionKey string, position int, it model.MenuItem) error {
	img, err := nullableJSON(it.Image, it.Image != nil)
	if err != nil {
		return err
	}
	if position < 0 {
		_, err = s.exec(ctx, q, `
            INSERT INTO menu_items (item_key, section_key, restaurant_id, position, name, description, price, image)
            VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM menu_items WHERE section_key=?), ?, ?, ?, ?)
        `, it.Key, sectionKey, restaurantID, sectionKey, it.Name, it.Description, it.Price, img)
		return err
	}
	_, err = s.exec(ctx, q, `
        INSERT INTO menu_items (item_key, section_key, restaurant_id, position, name, description, price, image)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, it.Key, sectionKey, restaurantID, position, it.Name, it.Description, it.Price, img)
	return err
}

// replaceMenu swaps the whole tree of a restaurant. Missing keys are generated.
func (s *DB) replaceMenu(ctx context.Context, q querier, restaurantID string, menu []model.MenuSection) error {
	if _, err := s.exec(ctx, q, `DELETE FROM menu_items WHERE restaurant_id=?`, restaurantID); err != nil {
		return err
	}
	if _, err := s.exec(ctx, q, `DELETE FROM menu_sections WHERE restaurant_id=?`, restaurantID); err != nil {
		return err
	}
	for i, sec := range menu {
		key := sec.Key
		if key == "" {
			key = uuid.New().String()
		}
		if _, err := s.exec(ctx, q, `
            INSERT INTO menu_sections (section_key, restaurant_id, position, name) VALUES (?, ?, ?, ?)
        `, key, restaurantID, i, sec.Name); err != nil {
			return err
		}
		for j, it := range sec.Items {
			if it.Key == "" {
				it.Key = uuid.New().String()
			}
			if err := s.insertItem(ctx, q, restaurantID, key, j, it); err != nil {
				return err
			}
		}
	}
	return nil
}

// keepOwnedKeys returns a copy of next in which a section or item key survives
// only if current already uses it and it has not appeared earlier in next.
// Every other key is replaced with a fresh one.
func keepOwnedKeys(next, current []model.MenuSection) []model.MenuSection {
	sections, items := map[string]bool{}, map[string]bool{}
	for _, sec := range current {
		sections[sec.Key] = true
		for _, it := range sec.Items {
			items[it.Key] = true
		}
	}
	claim := func(owned map[string]bool, key string) string {
		if key != "" && owned[key] {
			delete(owned, key)
			return key
		}
		return uuid.New().String()
	}

	out := make([]model.MenuSection, len(next))
	for i, sec := range next {
		sec.Key = claim(sections, sec.Key)
		sec.Items = append([]model.MenuItem{}, sec.Items...)
		for j := range sec.Items {
			sec.Items[j].Key = claim(items, sec.Items[j].Key)
		}
		out[i] = sec
	}
	return out
}

func (s *DB) loadMenu(ctx context.Context, q querier, restaurantID string) ([]model.MenuSection, error) {
	rows, err := s.query(ctx, q, `
        SELECT section_key, name FROM menu_sections WHERE restaurant_id=? ORDER BY position, section_key
    `, restaurantID)
	if err != nil {
		return nil, err
	}
	out := []model.MenuSection{}
	index := map[string]int{}
	for rows.Next() {
		sec := model.MenuSection{Items: []model.MenuItem{}}
		if err := rows.Scan(&sec.Key, &sec.Name); err != nil {
			_ = rows.Close()
			return nil, err
		}
		index[sec.Key] = len(out)
		out = append(out, sec)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	rows, err = s.query(ctx, q, `
        SELECT section_key, item_key, name, description, price, image
        FROM menu_items WHERE restaurant_id=? ORDER BY section_key, position, item_key
    `, restaurantID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var (
			sectionKey string
			it         model.MenuItem
			img        sql.NullString
		)
		if err := rows.Scan(&sectionKey, &it.Key, &it.Name, &it.Description, &it.Price, &img); err != nil {
			return nil, err
		}
		if err := decodeJSON(img, &it.Image); err != nil {
			return nil, err
		}
		if i, ok := index[sectionKey]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, rows.Err()
}
