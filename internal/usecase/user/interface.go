package user

import "context"

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*User, error)
	GetUser(ctx context.Context, in GetUserRequest) (*User, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error)
	ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error)
	AppendWord(ctx context.Context, in AppendWordRequest) (*AppendWordResponse, error)
	RemoveWord(ctx context.Context, in RemoveWordRequest) (*RemoveWordResponse, error)
	ListWords(ctx context.Context, in ListWordsRequest) (*ListWordsResponse, error)
}
