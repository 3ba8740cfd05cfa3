package database

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// New opens a Postgres connection pool for the given URL and verifies it
// with a ping. The pool is passed explicitly into the stores; main owns
// its lifetime and closes it on shutdown.
func New(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
