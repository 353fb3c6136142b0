package sqldb

// schema is portable between Postgres and SQLite. Times are unix milliseconds;
// list and object fields are JSON text.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
        restaurant_id   TEXT PRIMARY KEY,
        name            TEXT NOT NULL,
        neighbourhood   TEXT NOT NULL DEFAULT '',
        street_address  TEXT NOT NULL DEFAULT '',
        cuisine         TEXT NOT NULL DEFAULT '',
        price_range     TEXT NOT NULL DEFAULT '',
        summary         TEXT NOT NULL DEFAULT '',
        description     TEXT NOT NULL DEFAULT '',
        phone           TEXT NOT NULL DEFAULT '',
        website         TEXT NOT NULL DEFAULT '',
        tags            TEXT,
        amenities       TEXT,
        accessibility   TEXT,
        payment_methods TEXT,
        service_options TEXT,
        main_image      TEXT,
        gallery_images  TEXT,
        opening_hours   TEXT,
        creation_time   BIGINT NOT NULL,
        update_time     BIGINT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS restaurants_name_idx ON restaurants (name)`,
	`CREATE TABLE IF NOT EXISTS menu_sections (
        section_key   TEXT PRIMARY KEY,
        restaurant_id TEXT NOT NULL REFERENCES restaurants (restaurant_id) ON DELETE CASCADE,
        position      INTEGER NOT NULL,
        name          TEXT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS menu_sections_restaurant_idx ON menu_sections (restaurant_id, position)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
        item_key      TEXT PRIMARY KEY,
        section_key   TEXT NOT NULL REFERENCES menu_sections (section_key) ON DELETE CASCADE,
        restaurant_id TEXT NOT NULL,
        position      INTEGER NOT NULL,
        name          TEXT NOT NULL,
        description   TEXT NOT NULL DEFAULT '',
        price         DOUBLE PRECISION NOT NULL,
        image         TEXT
    )`,
	`CREATE INDEX IF NOT EXISTS menu_items_section_idx ON menu_items (section_key, position)`,
	`CREATE TABLE IF NOT EXISTS reviews (
        review_key    TEXT PRIMARY KEY,
        restaurant_id TEXT NOT NULL REFERENCES restaurants (restaurant_id) ON DELETE CASCADE,
        author        TEXT NOT NULL,
        rating        INTEGER NOT NULL,
        comment       TEXT NOT NULL DEFAULT '',
        review_date   BIGINT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS reviews_restaurant_idx ON reviews (restaurant_id, review_date)`,
	`CREATE TABLE IF NOT EXISTS collections (
        slug           TEXT PRIMARY KEY,
        title          TEXT NOT NULL,
        description    TEXT NOT NULL DEFAULT '',
        restaurant_ids TEXT,
        update_time    BIGINT NOT NULL
    )`,
}
