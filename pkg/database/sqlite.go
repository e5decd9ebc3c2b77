package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/usermgmt/admin-web/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	forename      TEXT    NOT NULL,
	surname       TEXT    NOT NULL,
	email         TEXT    NOT NULL,
	active        BOOLEAN NOT NULL DEFAULT TRUE,
	date_of_birth TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS logs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id    INTEGER NOT NULL,
	user_action TEXT,
	level       TEXT    NOT NULL,
	message     TEXT    NOT NULL,
	exception   TEXT,
	timestamp   TIMESTAMP NOT NULL,
	user_id     INTEGER
);
`

// New returns a configured sqlite client. The default DSN keeps the database
// in process memory for the lifetime of the server.
func New(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = config.DefaultDSN
	}

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema when absent.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Seed inserts the canonical starter users. It is a no-op when the users
// table already holds rows, so tests can opt out by seeding nothing.
func Seed(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM users`); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	const insert = `INSERT INTO users (forename, surname, email, active, date_of_birth) VALUES (?, ?, ?, ?, ?)`
	for _, u := range seedUsers {
		if _, err := db.Exec(insert, u.forename, u.surname, u.email, u.active, u.dob); err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
	}
	return nil
}

var seedUsers = []struct {
	forename string
	surname  string
	email    string
	active   bool
	dob      string
}{
	{"Peter", "Loew", "ploew@example.com", true, "1980-01-01 00:00:00"},
	{"Benjamin Franklin", "Gates", "bfgates@example.com", true, "1975-05-15 00:00:00"},
	{"Castor", "Troy", "ctroy@example.com", false, "1985-03-10 00:00:00"},
	{"Memphis", "Raines", "mraines@example.com", true, "1982-07-20 00:00:00"},
	{"Stanley", "Goodspeed", "sgodspeed@example.com", true, "1988-11-30 00:00:00"},
	{"H.I.", "McDunnough", "himcdunnough@example.com", true, "1983-02-25 00:00:00"},
	{"Cameron", "Poe", "cpoe@example.com", false, "1980-06-05 00:00:00"},
	{"Edward", "Malus", "emalus@example.com", false, "1978-04-18 00:00:00"},
	{"Damon", "Macready", "dmacready@example.com", false, "1984-09-12 00:00:00"},
	{"Johnny", "Blaze", "jblaze@example.com", true, "1981-08-22 00:00:00"},
	{"Robin", "Feld", "rfeld@example.com", true, "1986-12-01 00:00:00"},
}
