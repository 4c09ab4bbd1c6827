// Package user persists the chatters the bot has seen.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sglre6355/shaken/internal/color"
	_ "modernc.org/sqlite"
)

// User is a Twitch chatter.
type User struct {
	ID      int64
	Display string
	Color   color.RGB
}

// Store is a SQLite-backed user directory.
//
// Lookups and inserts never return errors: failures are logged and reported
// as absence, so callers on the dispatch path never have to handle them.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serializes writers; a single connection keeps that explicit.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create inserts u unless a user with the same ID already exists; the first
// write wins.
func (s *Store) Create(ctx context.Context, u User) {
	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO users (id, display, color) VALUES (?, ?, ?)",
		u.ID, u.Display, u.Color.String(),
	)
	if err != nil {
		slog.Error("failed to insert user", "user_id", u.ID, "display", u.Display, "error", err)
		return
	}

	if n, _ := res.RowsAffected(); n > 0 {
		slog.Debug("added user", "user_id", u.ID, "display", u.Display)
	}
}

// ByID looks up a user by Twitch id.
func (s *Store) ByID(ctx context.Context, id int64) (User, bool) {
	return s.get(ctx, "SELECT id, display, color FROM users WHERE id = ? LIMIT 1", id)
}

// ByName looks up a user by display name, ignoring case.
func (s *Store) ByName(ctx context.Context, name string) (User, bool) {
	return s.get(ctx,
		"SELECT id, display, color FROM users WHERE display = ? COLLATE NOCASE LIMIT 1",
		name,
	)
}

// Count returns the number of known users.
func (s *Store) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		slog.Error("failed to count users", "error", err)
		return 0
	}
	return n
}

func (s *Store) get(ctx context.Context, query string, arg any) (User, bool) {
	var (
		u   User
		raw string
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Display, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, false
	}
	if err != nil {
		slog.Error("failed to get user", "key", arg, "error", err)
		return User{}, false
	}

	c, err := color.Parse(raw)
	if err != nil {
		slog.Warn("stored user has invalid color", "user_id", u.ID, "color", raw)
		c = color.White
	}
	u.Color = c
	return u, true
}
