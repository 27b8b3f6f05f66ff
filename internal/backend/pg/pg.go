// Package pg is the direct-Postgres backend adapter. Queries and
// mutations go over database/sql with lib/pq; the change stream rides
// on LISTEN/NOTIFY (see listen.go).
package pg

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // Registers the PostgreSQL driver

	"github.com/moyim-dev/moyim/shared/config"
	"github.com/moyim-dev/moyim/shared/logger"
)

type Storage struct {
	db      *sql.DB
	connStr string
}

func New(cfg config.Pg) (*Storage, error) {
	connStr := ConnString(cfg)
	db, err := Connect(connStr)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("connected to db", "component", "pg", "host", cfg.Host, "dbname", cfg.Dbname)
	return &Storage{db: db, connStr: connStr}, nil
}

func ConnString(cfg config.Pg) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Dbname)
}

func Connect(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}
