package repos

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// OpenDB connects to the configured backend and ensures the schema exists.
// driver is "sqlite" (modernc, file path or :memory: DSN) or "postgres"
// (pgx stdlib, postgres:// DSN). Repositories are backend-agnostic: queries
// use ? placeholders and go through Rebind, so only the schema here and the
// driver name differ per backend.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error
	switch driver {
	case "sqlite", "":
		db, err = sqlx.Open("sqlite", dsn)
	case "postgres":
		db, err = sqlx.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Note: sales.item_id is deliberately a weak reference. No foreign key is
// declared so deleting an inventory row keeps its sale history intact;
// readers tolerate the orphan.
const schemaSQLite = `
CREATE TABLE IF NOT EXISTS inventory(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  image_path TEXT,
  favorite INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_inventory_name ON inventory(LOWER(name));

CREATE TABLE IF NOT EXISTS sales(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  item_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  timestamp TEXT NOT NULL,
  total_price NUMERIC NOT NULL,
  cancelled INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sales_timestamp ON sales(timestamp);

CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_id TEXT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS inventory(
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  image_path TEXT,
  favorite BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_inventory_name ON inventory(LOWER(name));

CREATE TABLE IF NOT EXISTS sales(
  id BIGSERIAL PRIMARY KEY,
  item_id BIGINT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  timestamp TEXT NOT NULL,
  total_price NUMERIC NOT NULL,
  cancelled BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_sales_timestamp ON sales(timestamp);

CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_id TEXT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`

func ensureSchema(db *sqlx.DB) error {
	schema := schemaSQLite
	if db.DriverName() == "pgx" {
		schema = schemaPostgres
	}
	_, err := db.Exec(schema)
	return err
}

// SeedAdmin ensures the configured admin account exists (idempotent; safe to
// run every start).
func SeedAdmin(db *sqlx.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	_, err = db.Exec(db.Rebind(`
		INSERT INTO users(id, email, name, password_hash, role)
		VALUES (?, ?, ?, ?, 'ADMIN')
		ON CONFLICT (email) DO NOTHING
	`), uuid.NewString(), email, "Admin", string(hash))
	if err != nil {
		return err
	}
	log.Printf("[seed] admin account ensured for %s", email)
	return nil
}
