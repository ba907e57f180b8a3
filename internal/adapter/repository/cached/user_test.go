package cached

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "github.com/indianathe3rdKing/quicklog-api/internal/domain/user"
	apperrors "github.com/indianathe3rdKing/quicklog-api/pkg/errors"
)

// MockRepository is a mock implementation of user.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetWords(ctx context.Context, id string) ([]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id string, name, email *string) (*domain.User, error) {
	args := m.Called(ctx, id, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) AppendWord(ctx context.Context, id, word string) ([]string, error) {
	args := m.Called(ctx, id, word)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) ReplaceWords(ctx context.Context, id string, words []string, version int64) error {
	args := m.Called(ctx, id, words, version)
	return args.Error(0)
}

// MockCache is a mock implementation of cache.UserCache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupCachedRepo(t *testing.T) (*MockRepository, *MockCache, *CachedUserRepository) {
	store := new(MockRepository)
	c := new(MockCache)
	repo := NewCachedUserRepository(store, c, zaptest.NewLogger(t)).(*CachedUserRepository)
	return store, c, repo
}

func TestCachedGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Cache Hit Skips Store", func(t *testing.T) {
		store, c, repo := setupCachedRepo(t)

		cached := &domain.User{ID: "u-1", Words: []string{"Apple"}}
		c.On("Get", ctx, "u-1").Return(cached, nil)

		got, err := repo.GetByID(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, cached, got)
		store.AssertNotCalled(t, "GetByID")
	})

	t.Run("Cache Miss Reads Store And Caches", func(t *testing.T) {
		store, c, repo := setupCachedRepo(t)

		fromStore := &domain.User{ID: "u-1", Version: 2}
		c.On("Get", ctx, "u-1").Return(nil, nil)
		store.On("GetByID", ctx, "u-1").Return(fromStore, nil).Once()
		c.On("Set", ctx, fromStore).Return(nil).Once()

		got, err := repo.GetByID(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, fromStore, got)
		store.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("Cache Error Falls Back To Store", func(t *testing.T) {
		store, c, repo := setupCachedRepo(t)

		fromStore := &domain.User{ID: "u-1"}
		c.On("Get", ctx, "u-1").Return(nil, errors.New("redis down"))
		store.On("GetByID", ctx, "u-1").Return(fromStore, nil)
		c.On("Set", ctx, fromStore).Return(nil)

		got, err := repo.GetByID(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, fromStore, got)
	})

	t.Run("Store Not Found Propagates", func(t *testing.T) {
		store, c, repo := setupCachedRepo(t)

		c.On("Get", ctx, "missing").Return(nil, nil)
		store.On("GetByID", ctx, "missing").
			Return(nil, apperrors.NewNotFoundError("user", "user not found: id=missing"))

		_, err := repo.GetByID(ctx, "missing")
		var notFound *apperrors.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestCachedCreate(t *testing.T) {
	ctx := context.Background()
	store, c, repo := setupCachedRepo(t)

	u := &domain.User{ID: "u-1"}
	store.On("Create", ctx, u).Return(nil)
	c.On("Set", ctx, u).Return(nil)

	require.NoError(t, repo.Create(ctx, u))
	store.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestCachedUpdate(t *testing.T) {
	ctx := context.Background()
	store, c, repo := setupCachedRepo(t)

	name := "New Name"
	updated := &domain.User{ID: "u-1", Name: &name}
	store.On("Update", ctx, "u-1", &name, (*string)(nil)).Return(updated, nil)
	c.On("Delete", ctx, "u-1").Return(nil)

	got, err := repo.Update(ctx, "u-1", &name, nil)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
	c.AssertCalled(t, "Delete", ctx, "u-1")
}

func TestCachedDelete(t *testing.T) {
	ctx := context.Background()
	store, c, repo := setupCachedRepo(t)

	store.On("Delete", ctx, "u-1").Return(nil)
	c.On("Delete", ctx, "u-1").Return(nil)

	require.NoError(t, repo.Delete(ctx, "u-1"))
	c.AssertCalled(t, "Delete", ctx, "u-1")
}

func TestCachedAppendWord(t *testing.T) {
	ctx := context.Background()
	store, c, repo := setupCachedRepo(t)

	store.On("AppendWord", ctx, "u-1", "Apple").Return([]string{"Apple"}, nil)
	c.On("Delete", ctx, "u-1").Return(nil)

	words, err := repo.AppendWord(ctx, "u-1", "Apple")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple"}, words)
	c.AssertCalled(t, "Delete", ctx, "u-1")
}

func TestCachedReplaceWords(t *testing.T) {
	ctx := context.Background()

	t.Run("Success Invalidates Cache", func(t *testing.T) {
		store, c, repo := setupCachedRepo(t)

		store.On("ReplaceWords", ctx, "u-1", []string{"banana"}, int64(2)).Return(nil)
		c.On("Delete", ctx, "u-1").Return(nil)

		require.NoError(t, repo.ReplaceWords(ctx, "u-1", []string{"banana"}, 2))
		c.AssertCalled(t, "Delete", ctx, "u-1")
	})

	t.Run("Conflict Still Invalidates Cache", func(t *testing.T) {
		store, c, repo := setupCachedRepo(t)

		conflict := apperrors.NewConflictError("words", "word list changed concurrently: id=u-1")
		store.On("ReplaceWords", ctx, "u-1", []string{"banana"}, int64(2)).Return(conflict)
		c.On("Delete", ctx, "u-1").Return(nil)

		err := repo.ReplaceWords(ctx, "u-1", []string{"banana"}, 2)
		var asConflict *apperrors.ConflictError
		assert.ErrorAs(t, err, &asConflict)
		c.AssertCalled(t, "Delete", ctx, "u-1")
	})
}

func TestCachedDelegation(t *testing.T) {
	ctx := context.Background()
	store, _, repo := setupCachedRepo(t)

	store.On("GetWords", ctx, "u-1").Return([]string{"Apple"}, nil)
	store.On("List", ctx).Return([]domain.User{{ID: "u-1"}}, nil)

	words, err := repo.GetWords(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple"}, words)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestNilCacheDisablesCaching(t *testing.T) {
	ctx := context.Background()
	store := new(MockRepository)
	repo := NewCachedUserRepository(store, nil, zaptest.NewLogger(t))

	fromStore := &domain.User{ID: "u-1"}
	store.On("GetByID", ctx, "u-1").Return(fromStore, nil)

	got, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, fromStore, got)
}
