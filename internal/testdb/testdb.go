// Package testdb hands out isolated in-memory SQLite handles for tests.
package testdb

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"noteapp/internal/db"
)

// New opens a fresh in-memory database that is closed when t finishes.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(context.Background(), "sqlite:///:memory:", db.Options{})
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close(gdb) })
	return gdb
}
