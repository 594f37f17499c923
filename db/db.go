package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // Need for postgres driver.
	"gopkg.in/reform.v1"
	"gopkg.in/reform.v1/dialects/postgresql"

	"github.com/vigneshbunny/crypto-pay/config"
)

// ConnectArgs returns connection string for database connection.
func ConnectArgs(cfg *config.DB) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s"+
		" port=%d sslmode=%s", cfg.Host, cfg.User, cfg.Password,
		cfg.DBName, cfg.Port, cfg.SSLMode)
}

// Connect opens a database connection and verifies it with a ping.
func Connect(connectArgs string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", connectArgs)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}

// NewDB wraps a database connection for reform.
func NewDB(conn *sql.DB) (*reform.DB, error) {
	return reform.NewDB(conn, postgresql.Dialect, nil), nil
}

// CloseDB closes database.
func CloseDB(db *reform.DB) {
	_ = db.DBInterface().(*sql.DB).Close()
}
