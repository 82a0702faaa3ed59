package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/internal/repository/pgdb/converter"
	"github.com/nutrimercado/go-backend/pkg/e"
)

// UserRepo реализует репозиторий пользователей поверх PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create сохраняет пользователя. Дубликат имени или email — ErrUserExists.
func (u *UserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`

	model := converter.UserModel{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		IsAdmin:      user.IsAdmin,
	}

	if err := u.pool.QueryRow(ctx, query,
		model.Username, model.Email, model.PasswordHash, model.IsAdmin,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserExists)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return userEntity(&model), nil
}

func (u *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return u.getBy(ctx, `WHERE username = $1`, username)
}

func (u *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return u.getBy(ctx, `WHERE id = $1`, id)
}

func (u *UserRepo) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT id, username, email, password_hash, is_admin, created_at FROM users ` + where

	var model converter.UserModel
	if err := u.pool.QueryRow(ctx, query, arg).Scan(
		&model.ID, &model.Username, &model.Email,
		&model.PasswordHash, &model.IsAdmin, &model.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return userEntity(&model), nil
}

func userEntity(model *converter.UserModel) *domain.User {
	return &domain.User{
		ID:           model.ID,
		Username:     model.Username,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		IsAdmin:      model.IsAdmin,
		CreatedAt:    model.CreatedAt,
	}
}
