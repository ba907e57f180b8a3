package user

import "time"

// User represents a user record with its saved words.
type User struct {
	ID        string    // ID is the opaque unique identifier for the user
	Name      *string   // Name is the display name; nil after a destructive partial update
	Email     *string   // Email is the contact address; same update semantics as Name
	CreatedAt time.Time // CreatedAt is set once on creation and never changes
	Words     []string  // Words is the ordered list of saved words, owned by this record
	Version   int64     // Version increments on every word-list mutation
}
