package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	domain "github.com/indianathe3rdKing/quicklog-api/internal/domain/user"
	apperrors "github.com/indianathe3rdKing/quicklog-api/pkg/errors"
	"github.com/indianathe3rdKing/quicklog-api/pkg/security"
)

// Word-list removals race against concurrent appends; the conditional
// replace is retried a bounded number of times before giving up.
const (
	removeWordMaxRetries = 4
	removeWordBaseDelay  = 25 * time.Millisecond
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (e.g., DynamoDB, an in-memory store) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *domain.User) error                               // Persist a new user record
	GetByID(ctx context.Context, id string) (*domain.User, error)                   // Retrieve user by ID
	GetWords(ctx context.Context, id string) ([]string, error)                      // Retrieve only the word list; empty when absent
	Update(ctx context.Context, id string, name, email *string) (*domain.User, error) // Partial update of name/email
	Delete(ctx context.Context, id string) error                                    // Delete user by ID, idempotent
	List(ctx context.Context) ([]domain.User, error)                                // List all users
	AppendWord(ctx context.Context, id, word string) ([]string, error)              // Atomically append a word, user must exist
	ReplaceWords(ctx context.Context, id string, words []string, version int64) error // Overwrite the word list if version still matches
}

// usecase implements the business logic for user and saved-word operations.
// It provides a clean separation between the transport layer and data layer.
type usecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) Usecase {
	return &usecase{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a human-readable error.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
			case "min":
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return apperrors.NewValidationError("", strings.Join(messages, ", "))
	}
	return err
}

// toDTO maps a domain user onto the transport-facing DTO.
func toDTO(u *domain.User) *User {
	return &User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Words:     u.Words,
	}
}

// CreateUser creates a new user after validating the request.
// The identifier is generated server-side and the word list starts empty.
func (uc *usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	uc.log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u := &domain.User{
		ID:        uuid.NewString(),
		Name:      &in.Name,
		Email:     &in.Email,
		CreatedAt: time.Now().UTC(),
		Words:     []string{},
	}

	if err := uc.repo.Create(ctx, u); err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	return toDTO(u), nil
}

// GetUser retrieves a user by ID.
func (uc *usecase) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	if in.ID == "" {
		uc.log.Warn("get user validation failed", zap.String("reason", "empty id"))
		return nil, apperrors.NewValidationError("id", "user id is required")
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Warn("failed to get user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	return toDTO(u), nil
}

// UpdateUser performs a partial update of name and email. An omitted field is
// written as unset, not preserved. Updating an unknown id fails with not found.
func (uc *usecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error) {
	uc.log.Info("updating user", zap.String("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := uc.repo.Update(ctx, in.ID, in.Name, in.Email)
	if err != nil {
		uc.log.Warn("failed to update user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	return toDTO(u), nil
}

// DeleteUser removes a user record. The operation is idempotent: deleting an
// id that does not exist still succeeds.
func (uc *usecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	uc.log.Info("deleting user", zap.String("id", in.ID))

	if in.ID == "" {
		uc.log.Warn("delete user validation failed", zap.String("reason", "empty id"))
		return nil, apperrors.NewValidationError("id", "user id is required")
	}

	if err := uc.repo.Delete(ctx, in.ID); err != nil {
		uc.log.Error("failed to delete user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &DeleteUserResponse{ID: in.ID}, nil
}

// ListUsers retrieves the complete collection of users.
func (uc *usecase) ListUsers(ctx context.Context, _ ListUsersRequest) (*ListUsersResponse, error) {
	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		uc.log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = *toDTO(&domainUsers[i])
	}

	return &ListUsersResponse{Users: users}, nil
}

// AppendWord appends a word to the user's word list. The write is conditional
// on the user already existing; case and insertion order are preserved.
func (uc *usecase) AppendWord(ctx context.Context, in AppendWordRequest) (*AppendWordResponse, error) {
	uc.log.Info("appending word", zap.String("id", in.ID), zap.String("word", in.Word))

	if in.ID == "" {
		return nil, apperrors.NewValidationError("id", "user id is required")
	}

	word, err := security.ValidateWord(in.Word)
	if err != nil {
		uc.log.Warn("word validation failed", zap.String("id", in.ID), zap.Error(err))
		return nil, apperrors.NewValidationError("word", err.Error())
	}

	words, err := uc.repo.AppendWord(ctx, in.ID, word)
	if err != nil {
		uc.log.Warn("failed to append word", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &AppendWordResponse{Words: words}, nil
}

// RemoveWord removes every occurrence of the target word from the user's word
// list. Matching is whitespace-trimmed and case-insensitive. The overwrite is
// conditional on the record version seen at read time and is retried with
// backoff when a concurrent mutation wins the race.
func (uc *usecase) RemoveWord(ctx context.Context, in RemoveWordRequest) (*RemoveWordResponse, error) {
	uc.log.Info("removing word", zap.String("id", in.ID), zap.String("word", in.Word))

	if in.ID == "" {
		return nil, apperrors.NewValidationError("id", "user id is required")
	}

	// Removal only normalizes the target. Stored words may predate the append
	// validator, and a target that fails its whitelist still has to be
	// removable.
	target := strings.TrimSpace(in.Word)
	if target == "" {
		uc.log.Warn("word validation failed", zap.String("id", in.ID), zap.String("reason", "empty word"))
		return nil, apperrors.NewValidationError("word", "word must not be empty")
	}
	normalized := strings.ToLower(target)

	var remaining []string
	backoff := retry.WithMaxRetries(removeWordMaxRetries, retry.NewExponential(removeWordBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		u, err := uc.repo.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}

		filtered := filterWords(u.Words, normalized)
		if len(filtered) == len(u.Words) {
			// Nothing matched; leave the record untouched.
			remaining = u.Words
			return nil
		}

		if err := uc.repo.ReplaceWords(ctx, in.ID, filtered, u.Version); err != nil {
			var conflict *apperrors.ConflictError
			if errors.As(err, &conflict) {
				uc.log.Debug("word list changed during removal, retrying",
					zap.String("id", in.ID), zap.Int64("seen_version", u.Version))
				return retry.RetryableError(err)
			}
			return err
		}

		remaining = filtered
		return nil
	})
	if err != nil {
		uc.log.Warn("failed to remove word", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &RemoveWordResponse{
		ID:    in.ID,
		Word:  in.Word,
		Words: remaining,
	}, nil
}

// ListWords retrieves a user's word list. An unknown id yields an empty list
// rather than an error.
func (uc *usecase) ListWords(ctx context.Context, in ListWordsRequest) (*ListWordsResponse, error) {
	if in.ID == "" {
		return nil, apperrors.NewValidationError("id", "user id is required")
	}

	words, err := uc.repo.GetWords(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to list words", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &ListWordsResponse{Words: words}, nil
}

// filterWords drops every entry whose trimmed, lower-cased value equals the
// normalized target.
func filterWords(words []string, normalized string) []string {
	filtered := make([]string, 0, len(words))
	for _, w := range words {
		if strings.ToLower(strings.TrimSpace(w)) == normalized {
			continue
		}
		filtered = append(filtered, w)
	}
	return filtered
}
