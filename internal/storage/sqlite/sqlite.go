// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/Svyat-tmn/workledger/internal/models"
	"github.com/Svyat-tmn/workledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// EnsureProfile inserts a profile row for externalID on first contact.
func (s *SQLiteStore) EnsureProfile(ctx context.Context, externalID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO profiles (external_id) VALUES (?)",
		externalID,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by external id.
func (s *SQLiteStore) GetProfile(ctx context.Context, externalID string) (*models.Profile, error) {
	profile := &models.Profile{}
	var name, groupID sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT external_id, display_name, group_id FROM profiles WHERE external_id = ?",
		externalID,
	).Scan(&profile.ExternalID, &name, &groupID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", models.ErrProfileNotFound, externalID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.DisplayName = name.String
	profile.GroupID = groupID.String
	return profile, nil
}

// SetDisplayName overwrites the profile's display name.
func (s *SQLiteStore) SetDisplayName(ctx context.Context, externalID, name string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE profiles SET display_name = ? WHERE external_id = ?",
		name, externalID,
	)
	if err != nil {
		return fmt.Errorf("failed to set display name: %w", err)
	}
	return nil
}

// CreateGroup persists a new group.
func (s *SQLiteStore) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	group := &models.Group{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().Unix(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO groups (id, name, created_at) VALUES (?, ?, ?)",
		group.ID, group.Name, group.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert group: %w", err)
	}
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", models.ErrGroupNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// JoinGroup assigns the profile to the group.
func (s *SQLiteStore) JoinGroup(ctx context.Context, externalID, groupID string) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"UPDATE profiles SET group_id = ? WHERE external_id = ?",
		groupID, externalID,
	)
	if err != nil {
		return fmt.Errorf("failed to join group: %w", err)
	}
	return nil
}
