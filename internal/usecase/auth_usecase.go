package usecase

import (
	"context"
	"strings"

	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/pkg/e"
	"github.com/nutrimercado/go-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// AuthUseCase реализует регистрацию, вход и обновление токенов.
type AuthUseCase struct {
	userRepo UserRepository
	tokens   TokenManager
	logger   logger.Logger
}

func NewAuthUC(userRepo UserRepository, tokens TokenManager, logger logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register создаёт пользователя с bcrypt-хэшем пароля.
func (a *AuthUseCase) Register(ctx context.Context, req *RegisterReq) (*domain.User, error) {
	const op = "AuthUseCase.Register"

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	user, err := a.userRepo.Create(ctx, domain.NewUser(username, email, string(hash)))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return user, nil
}

// Login проверяет пароль и выдаёт пару JWT-токенов.
func (a *AuthUseCase) Login(ctx context.Context, req *LoginReq) (*TokenPair, error) {
	const op = "AuthUseCase.Login"

	user, err := a.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		// Не раскрываем, существует ли пользователь
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	pair, err := a.tokens.GeneratePair(user)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return pair, nil
}

// Refresh выдаёт новую пару токенов по действительному refresh-токену.
func (a *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	const op = "AuthUseCase.Refresh"

	userID, err := a.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, e.Wrap(op, e.ErrInvalidToken)
	}

	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	pair, err := a.tokens.GeneratePair(user)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return pair, nil
}
