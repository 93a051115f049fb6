// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/Svyat-tmn/workledger/internal/models"
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// EnsureProfile inserts a profile for externalID if none exists.
	// Idempotent: calling it for a known external id is a no-op.
	EnsureProfile(ctx context.Context, externalID string) error

	// GetProfile retrieves a profile by external id.
	// Returns models.ErrProfileNotFound if no profile exists.
	GetProfile(ctx context.Context, externalID string) (*models.Profile, error)

	// SetDisplayName overwrites the profile's display name.
	// Callers must have ensured the profile exists; setting the name of
	// an unknown external id changes nothing and returns no error.
	SetDisplayName(ctx context.Context, externalID, name string) error

	// CreateGroup persists a new group and returns it with ID and
	// CreatedAt populated.
	CreateGroup(ctx context.Context, name string) (*models.Group, error)

	// GetGroup retrieves a group by ID.
	// Returns models.ErrGroupNotFound if no group exists.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// JoinGroup assigns the profile to the group, replacing any previous
	// membership. Returns models.ErrGroupNotFound if the group does not
	// exist.
	JoinGroup(ctx context.Context, externalID, groupID string) error

	// AddRecord persists a new record and populates its ID. If the Date
	// field is empty it is stamped with the current calendar day.
	AddRecord(ctx context.Context, rec *models.Record) error

	// ListRecordsByMonth returns the group's records whose date falls in
	// the given calendar month (models.MonthLayout), ordered by date
	// ascending with insertion order breaking ties. An empty month yields
	// an empty slice, not an error.
	ListRecordsByMonth(ctx context.Context, groupID, yearMonth string) ([]models.Record, error)

	// GetRecord retrieves a record by ID.
	// Returns models.ErrRecordNotFound if no record exists.
	GetRecord(ctx context.Context, recordID string) (*models.Record, error)

	// UpdateRecord overwrites only the fields carried by upd, inside one
	// transaction with the existence check. Returns
	// models.ErrRecordNotFound if the record does not exist; an update
	// with no fields is a no-op but still reports a missing record.
	UpdateRecord(ctx context.Context, recordID string, upd models.RecordUpdate) error

	// DeleteRecord removes the record permanently. Deleting a missing id
	// is a no-op, not an error.
	DeleteRecord(ctx context.Context, recordID string) error

	// Close releases any resources held by the store.
	Close() error
}
