package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/indianathe3rdKing/quicklog-api/internal/adapter/cache"
	domain "github.com/indianathe3rdKing/quicklog-api/internal/domain/user"
	"github.com/indianathe3rdKing/quicklog-api/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with caching support.
// It wraps a persistent repository and a cache implementation. Every mutation
// invalidates the cached record so the next read sees the committed state,
// including the record version consulted by conditional word-list writes.
type CachedUserRepository struct {
	store user.Repository
	cache cache.UserCache
	log   *zap.Logger
	group singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(store user.Repository, cache cache.UserCache, log *zap.Logger) user.Repository {
	return &CachedUserRepository{
		store: store,
		cache: cache,
		log:   log,
	}
}

// Create delegates to the persistent repository and primes the cache.
func (r *CachedUserRepository) Create(ctx context.Context, u *domain.User) error {
	if err := r.store.Create(ctx, u); err != nil {
		return err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, u); err != nil {
			r.log.Warn("failed to cache created user", zap.String("id", u.ID), zap.Error(err))
		}
	}

	return nil
}

// GetByID retrieves a user by ID using the cache-aside pattern.
func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to store", zap.String("id", id), zap.Error(err))
		} else if cachedUser != nil {
			r.log.Debug("user retrieved from cache", zap.String("id", id))
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := fmt.Sprintf("user:%s", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, id)
			if err == nil && cachedUser != nil {
				r.log.Debug("user retrieved from cache after single-flight wait", zap.String("id", id))
				return cachedUser, nil
			}
		}

		u, err := r.store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("id", id), zap.Error(err))
			}
		}

		return u, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*domain.User), nil
}

// GetWords delegates to the persistent repository. The word projection is
// lenient about missing records, so it bypasses the cached full record.
func (r *CachedUserRepository) GetWords(ctx context.Context, id string) ([]string, error) {
	return r.store.GetWords(ctx, id)
}

// Update updates the user in the store and invalidates the cache.
func (r *CachedUserRepository) Update(ctx context.Context, id string, name, email *string) (*domain.User, error) {
	u, err := r.store.Update(ctx, id, name, email)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, id, "update")
	return u, nil
}

// Delete deletes the user from the store and invalidates the cache.
func (r *CachedUserRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx, id, "delete")
	return nil
}

// List delegates to the persistent repository.
func (r *CachedUserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.store.List(ctx)
}

// AppendWord delegates to the persistent repository and invalidates the cache.
func (r *CachedUserRepository) AppendWord(ctx context.Context, id, word string) ([]string, error) {
	words, err := r.store.AppendWord(ctx, id, word)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, id, "append word")
	return words, nil
}

// ReplaceWords delegates to the persistent repository. The cache is
// invalidated even when the version check fails, so the caller's retry
// re-reads the committed record instead of a stale cached copy.
func (r *CachedUserRepository) ReplaceWords(ctx context.Context, id string, words []string, version int64) error {
	err := r.store.ReplaceWords(ctx, id, words, version)
	r.invalidate(ctx, id, "replace words")
	return err
}

// invalidate drops the cached record, logging but not propagating failures.
func (r *CachedUserRepository) invalidate(ctx context.Context, id, op string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache after "+op, zap.String("id", id), zap.Error(err))
	}
}
