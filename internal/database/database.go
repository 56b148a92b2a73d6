package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// DSN builds the modernc sqlite connection string for path. Every pooled
// connection gets foreign keys, a busy timeout and WAL; transactions start
// IMMEDIATE so lookup-then-insert sequences hold the write lock.
func DSN(path string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate",
		path,
	)
}

// OpenDB opens (creating if needed) the SQLite database at path and
// verifies the connection.
func OpenDB(path string, log logrus.FieldLogger) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	return OpenDBWithDSN(DSN(path), log)
}

// OpenDBWithDSN creates and configures a pool for any sqlite DSN.
func OpenDBWithDSN(dsn string, log logrus.FieldLogger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("database connection pool established")
	return db, nil
}
