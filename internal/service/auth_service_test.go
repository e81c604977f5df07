package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"carlot/internal/auth"
	"carlot/internal/cache"
	apperrors "carlot/internal/errors"
	"carlot/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// memoryUserRepository assigns ids like an auto-increment column.
type memoryUserRepository struct {
	users []model.User
}

func (r *memoryUserRepository) Create(ctx context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Username == user.Username {
			return errors.New("Error 1062: Duplicate entry")
		}
	}
	user.ID = uint(len(r.users) + 1)
	r.users = append(r.users, *user)
	return nil
}

func (r *memoryUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		secret        string
		setupMock     func(*MockUserRepository)
		expectedError bool
	}{
		{
			name:     "successful registration",
			username: "alice",
			secret:   "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Run(func(args mock.Arguments) {
						user := args.Get(1).(*model.User)
						assert.NotEqual(t, "password123", user.KeyHash)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.KeyHash), []byte("password123")))
						user.ID = 17
					}).
					Return(nil)
			},
		},
		{
			name:     "storage failure",
			username: "alice",
			secret:   "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Return(errors.New("Error 1062: Duplicate entry 'alice'"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)
			tokens := auth.NewTokenService("test-secret", 0)

			service := NewAuthService(mockRepo, tokens, new(MockTokenStore))
			token, err := service.Register(context.Background(), tt.username, tt.secret)

			if tt.expectedError {
				assert.Error(t, err)
				assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				claims, err := tokens.Verify(token)
				require.NoError(t, err)
				assert.Equal(t, uint(17), claims.UserID)
				assert.Equal(t, tt.username, claims.Username)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterMeasuresSecretInBytes(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", 0)

	mockRepo := new(MockUserRepository)
	service := NewAuthService(mockRepo, tokens, new(MockTokenStore))
	_, err := service.Register(context.Background(), "alice", strings.Repeat("é", 40))
	assert.ErrorIs(t, err, apperrors.ErrSecretTooLong)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	repo := &memoryUserRepository{}
	service = NewAuthService(repo, tokens, new(MockTokenStore))
	_, err = service.Register(context.Background(), "bob", strings.Repeat("é", 36))
	assert.NoError(t, err)
	require.Len(t, repo.users, 1)
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	repo := &memoryUserRepository{}
	tokens := auth.NewTokenService("test-secret", 0)
	service := NewAuthService(repo, tokens, new(MockTokenStore))
	ctx := context.Background()

	registered, err := service.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	regClaims, err := tokens.Verify(registered)
	require.NoError(t, err)

	token, err := service.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, regClaims.UserID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	_, err = service.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = service.Login(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = service.Register(ctx, "alice", "again")
	assert.Error(t, err)
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)
	require.NoError(t, err)
	storageErr := errors.New("connection refused")

	tests := []struct {
		name          string
		secret        string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:   "successful login",
			secret: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").
					Return(&model.User{ID: 4, Username: "alice", KeyHash: string(hashed)}, nil)
			},
		},
		{
			name:   "unknown user",
			secret: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:   "wrong secret",
			secret: "nope",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").
					Return(&model.User{ID: 4, Username: "alice", KeyHash: string(hashed)}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:   "storage failure",
			secret: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, storageErr)
			},
			expectedError: storageErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)
			tokens := auth.NewTokenService("test-secret", 0)
			service := NewAuthService(mockRepo, tokens, new(MockTokenStore))

			token, err := service.Login(context.Background(), "alice", tt.secret)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				claims, err := tokens.Verify(token)
				require.NoError(t, err)
				assert.Equal(t, uint(4), claims.UserID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("revokes without expiry for non-expiring tokens", func(t *testing.T) {
		tokens := auth.NewTokenService("test-secret", 0)
		raw, err := tokens.Issue(1, "alice")
		require.NoError(t, err)
		claims, err := tokens.Verify(raw)
		require.NoError(t, err)

		store := new(MockTokenStore)
		store.On("Revoke", mock.Anything, claims.ID, time.Duration(0)).Return(nil)

		service := NewAuthService(new(MockUserRepository), tokens, store)
		require.NoError(t, service.Logout(context.Background(), claims))
		store.AssertExpectations(t)
	})

	t.Run("revokes until expiry", func(t *testing.T) {
		tokens := auth.NewTokenService("test-secret", time.Hour)
		raw, err := tokens.Issue(1, "alice")
		require.NoError(t, err)
		claims, err := tokens.Verify(raw)
		require.NoError(t, err)

		store := new(MockTokenStore)
		store.On("Revoke", mock.Anything, claims.ID, mock.MatchedBy(func(ttl time.Duration) bool {
			return ttl > 59*time.Minute && ttl <= time.Hour
		})).Return(nil)

		service := NewAuthService(new(MockUserRepository), tokens, store)
		require.NoError(t, service.Logout(context.Background(), claims))
		store.AssertExpectations(t)
	})

	t.Run("storage failure is reported", func(t *testing.T) {
		tokens := auth.NewTokenService("test-secret", 0)
		raw, err := tokens.Issue(1, "alice")
		require.NoError(t, err)
		claims, err := tokens.Verify(raw)
		require.NoError(t, err)

		store := new(MockTokenStore)
		store.On("Revoke", mock.Anything, claims.ID, time.Duration(0)).Return(errors.New("connection refused"))

		service := NewAuthService(new(MockUserRepository), tokens, store)
		assert.Error(t, service.Logout(context.Background(), claims))
	})

	t.Run("unreachable redis fails the logout", func(t *testing.T) {
		tokens := auth.NewTokenService("test-secret", 0)
		raw, err := tokens.Issue(1, "alice")
		require.NoError(t, err)
		claims, err := tokens.Verify(raw)
		require.NoError(t, err)

		client := cache.New("127.0.0.1:1", "", 0, "carlot:")
		defer client.Close()
		store := auth.NewTokenStore(client)
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		service := NewAuthService(new(MockUserRepository), tokens, store)
		assert.Error(t, service.Logout(ctx, claims))
	})

	t.Run("revoked token is recorded", func(t *testing.T) {
		tokens := auth.NewTokenService("test-secret", 0)
		raw, err := tokens.Issue(1, "alice")
		require.NoError(t, err)
		claims, err := tokens.Verify(raw)
		require.NoError(t, err)

		mr := miniredis.RunT(t)
		client := cache.New(mr.Addr(), "", 0, "carlot:")
		defer client.Close()
		store := auth.NewTokenStore(client)

		service := NewAuthService(new(MockUserRepository), tokens, store)
		require.NoError(t, service.Logout(context.Background(), claims))
		revoked, err := store.IsRevoked(context.Background(), claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("missing claims", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), auth.NewTokenService("s", 0), new(MockTokenStore))
		assert.Error(t, service.Logout(context.Background(), nil))
	})
}
