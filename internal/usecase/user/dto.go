package user

import "time"

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Name  string `validate:"required,min=1,max=100"`
	Email string `validate:"required,email"`
}

// UpdateUserRequest represents the request payload for updating an existing user.
// Name and Email are partial-update fields: an omitted field is written as
// unset on the stored record, it is not preserved.
type UpdateUserRequest struct {
	ID    string  `validate:"required"`
	Name  *string `validate:"omitempty,min=1,max=100"`
	Email *string `validate:"omitempty,email"`
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID string
}

// DeleteUserResponse represents the response payload after deleting a user.
type DeleteUserResponse struct {
	ID string
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID string
}

// ListUsersRequest represents the request payload for listing users.
type ListUsersRequest struct{}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []User
}

// AppendWordRequest represents the request payload for saving a word.
type AppendWordRequest struct {
	ID   string `validate:"required"`
	Word string `validate:"required"`
}

// AppendWordResponse carries the word list after a successful append.
type AppendWordResponse struct {
	Words []string
}

// RemoveWordRequest represents the request payload for removing a word.
type RemoveWordRequest struct {
	ID   string `validate:"required"`
	Word string `validate:"required"`
}

// RemoveWordResponse carries the word list after a removal, along with the
// identifier and the target word exactly as the caller sent it.
type RemoveWordResponse struct {
	ID    string
	Word  string
	Words []string
}

// ListWordsRequest represents the request payload for listing a user's words.
type ListWordsRequest struct {
	ID string
}

// ListWordsResponse carries a user's word list.
type ListWordsResponse struct {
	Words []string
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID        string
	Name      *string
	Email     *string
	CreatedAt time.Time
	Words     []string
}
