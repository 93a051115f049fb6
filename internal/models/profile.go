package models

// Profile represents a person known to the system.
//
// A profile is created lazily on first contact with only ExternalID set.
// DisplayName and GroupID stay empty until the user configures them.
// Profiles are never deleted.
type Profile struct {
	// ExternalID is the opaque identifier assigned by the chat platform.
	// It is the only identity the system knows; there is no authentication
	// beyond it.
	ExternalID string

	// DisplayName is the name the user chose for themselves.
	// Empty until set via the set-name operation.
	DisplayName string

	// GroupID is the group this profile belongs to (UUID format).
	// Empty while the profile has not joined a group. A profile belongs
	// to at most one group at a time.
	GroupID string
}

// Group represents a set of profiles that share one ledger.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Flatmates").
	// There is no rename operation; the name is fixed at creation.
	Name string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
