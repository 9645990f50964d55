// Package history is the ambient, append-only record of past
// compiler invocations: one row per call to the entry point,
// recording its run ID, status, duration, and (on success) how much
// it compiled. It is purely observational — the compiler never
// consults it to decide what to (re)compile.
package history

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Run is one row of compile-run history.
type Run struct {
	ID               uint      `gorm:"primaryKey"`
	RunID            string    `gorm:"uniqueIndex;size:36"`
	StartedAt        time.Time `gorm:"index"`
	DurationMillis   int64
	Status           int `gorm:"index"`
	SourceFileCount  int
	DeclarationCount int
	ErrorMessage     string `gorm:"size:255"`
}

// Store is a SQLite-backed compile-run history log.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the history database at path and
// migrates the Run table. A fresh Store carries no state across
// invocations beyond what is durably on disk: a second compilation in
// the same process opens its own Store rather than reusing a
// package-level singleton, keeping the core re-entrant per §5.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("history: opening %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("history: migrating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record inserts one Run row.
func (s *Store) Record(r *Run) error {
	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("history: recording run %s: %w", r.RunID, err)
	}
	return nil
}

// Recent returns the limit most recent runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	var runs []Run
	if err := s.db.Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("history: listing recent runs: %w", err)
	}
	return runs, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("history: obtaining connection handle: %w", err)
	}
	return sqlDB.Close()
}
