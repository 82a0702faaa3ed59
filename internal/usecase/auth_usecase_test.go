package usecase

import (
	"context"
	"testing"

	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/pkg/e"
	"github.com/nutrimercado/go-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- Mocks ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GeneratePair(user *domain.User) (*TokenPair, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TokenPair), args.Error(1)
}

func (m *MockTokenManager) ParseAccess(token string) (*Identity, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Identity), args.Error(1)
}

func (m *MockTokenManager) ParseRefresh(token string) (int64, error) {
	args := m.Called(token)
	return args.Get(0).(int64), args.Error(1)
}

// --- Tests ---

func TestAuthUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			// Пароль никогда не сохраняется открытым текстом
			return u.Username == "maria" &&
				u.Email == "maria@example.com" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")) == nil
		})).Return(&domain.User{ID: 1, Username: "maria", Email: "maria@example.com"}, nil)

		uc := NewAuthUC(userRepo, new(MockTokenManager), logger.NewSlogLogger())

		user, err := uc.Register(ctx, &RegisterReq{
			Username: " maria ",
			Email:    "maria@example.com",
			Password: "s3cret",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		userRepo.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		uc := NewAuthUC(new(MockUserRepository), new(MockTokenManager), logger.NewSlogLogger())

		_, err := uc.Register(ctx, &RegisterReq{Username: "maria"})
		assert.ErrorIs(t, err, e.ErrMissingFields)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("Create", ctx, mock.Anything).Return(nil, e.ErrUserExists)
		uc := NewAuthUC(userRepo, new(MockTokenManager), logger.NewSlogLogger())

		_, err := uc.Register(ctx, &RegisterReq{
			Username: "maria",
			Email:    "maria@example.com",
			Password: "s3cret",
		})
		assert.ErrorIs(t, err, e.ErrUserExists)
	})
}

func TestAuthUseCase_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{ID: 1, Username: "maria", PasswordHash: string(hash)}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByUsername", ctx, "maria").Return(user, nil)

		tokens := new(MockTokenManager)
		pair := &TokenPair{AccessToken: "access", RefreshToken: "refresh"}
		tokens.On("GeneratePair", user).Return(pair, nil)

		uc := NewAuthUC(userRepo, tokens, logger.NewSlogLogger())

		got, err := uc.Login(ctx, &LoginReq{Username: "maria", Password: "s3cret"})
		require.NoError(t, err)
		assert.Equal(t, pair, got)
		tokens.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByUsername", ctx, "maria").Return(user, nil)
		uc := NewAuthUC(userRepo, new(MockTokenManager), logger.NewSlogLogger())

		_, err := uc.Login(ctx, &LoginReq{Username: "maria", Password: "wrong"})
		assert.ErrorIs(t, err, e.ErrInvalidCredentials)
	})

	t.Run("UnknownUserSameError", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByUsername", ctx, "ghost").Return(nil, e.ErrUserNotFound)
		uc := NewAuthUC(userRepo, new(MockTokenManager), logger.NewSlogLogger())

		_, err := uc.Login(ctx, &LoginReq{Username: "ghost", Password: "s3cret"})
		assert.ErrorIs(t, err, e.ErrInvalidCredentials)
		assert.NotErrorIs(t, err, e.ErrUserNotFound)
	})
}

func TestAuthUseCase_Refresh(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: 1, Username: "maria"}

	t.Run("Success", func(t *testing.T) {
		tokens := new(MockTokenManager)
		tokens.On("ParseRefresh", "old-refresh").Return(int64(1), nil)
		pair := &TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}
		tokens.On("GeneratePair", user).Return(pair, nil)

		userRepo := new(MockUserRepository)
		userRepo.On("GetByID", ctx, int64(1)).Return(user, nil)

		uc := NewAuthUC(userRepo, tokens, logger.NewSlogLogger())

		got, err := uc.Refresh(ctx, "old-refresh")
		require.NoError(t, err)
		assert.Equal(t, pair, got)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		tokens := new(MockTokenManager)
		tokens.On("ParseRefresh", "garbage").Return(int64(0), e.ErrInvalidToken)
		uc := NewAuthUC(new(MockUserRepository), tokens, logger.NewSlogLogger())

		_, err := uc.Refresh(ctx, "garbage")
		assert.ErrorIs(t, err, e.ErrInvalidToken)
	})
}
