// Package testutil builds the throwaway storage used by package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"poll_maker/internal/db"
	"poll_maker/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewTestDB opens a migrated SQLite database in a temp dir with foreign keys on
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "poll_maker.db") + "?_foreign_keys=on&_busy_timeout=5000"
	gdb, err := db.Open("sqlite", dsn, false)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// NewTestRedis starts an in-process Redis and returns a client for it
func NewTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

// NewTestSessionStore returns a session store on a fresh in-process Redis
func NewTestSessionStore(t *testing.T) (*miniredis.Miniredis, *utils.SessionStore) {
	t.Helper()

	mr, rdb := NewTestRedis(t)
	return mr, utils.NewSessionStore(rdb, time.Hour)
}
