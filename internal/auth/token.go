package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nutrimercado/go-backend/internal/cfg"
	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/internal/usecase"
	"github.com/nutrimercado/go-backend/pkg/e"
)

// CustomClaims — полезная нагрузка access-токена.
type CustomClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// JWTManager выпускает и проверяет пары JWT-токенов (HS256).
type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTManager(cfg *cfg.AuthCfg) *JWTManager {
	return &JWTManager{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// GeneratePair выпускает access- и refresh-токены для пользователя.
// Refresh несёт только subject с ID пользователя.
func (m *JWTManager) GeneratePair(user *domain.User) (*usecase.TokenPair, error) {
	now := time.Now()

	accessClaims := CustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(m.secret)
	if err != nil {
		return nil, e.Wrap("failed to sign access token", err)
	}

	refreshClaims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshTTL)),
	}

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(m.secret)
	if err != nil {
		return nil, e.Wrap("failed to sign refresh token", err)
	}

	return &usecase.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// ParseAccess проверяет access-токен и возвращает личность пользователя.
func (m *JWTManager) ParseAccess(token string) (*usecase.Identity, error) {
	var claims CustomClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, e.ErrInvalidToken
	}

	return usecase.NewIdentity(claims.UserID, claims.Username, claims.IsAdmin), nil
}

// ParseRefresh проверяет refresh-токен и возвращает ID пользователя.
func (m *JWTManager) ParseRefresh(token string) (int64, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return 0, e.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, e.ErrInvalidToken
	}

	return userID, nil
}

func (m *JWTManager) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}

	return m.secret, nil
}
