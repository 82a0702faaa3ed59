package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/internal/repository/pgdb/converter"
	"github.com/nutrimercado/go-backend/pkg/e"
)

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

// Create идемпотентно создаёт категорию по имени: при конфликте
// возвращается уже существующая запись.
func (c *CategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `
		WITH inserted AS (
			INSERT INTO categories(name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
			RETURNING id, name, created_at, updated_at
		)
		SELECT id, name, created_at, updated_at FROM inserted
		UNION ALL
		SELECT id, name, created_at, updated_at FROM categories WHERE name = $1
		LIMIT 1;
	`

	var model converter.CategoryModel
	if err := c.pool.QueryRow(ctx, query, category.Name).
		Scan(&model.ID, &model.Name, &model.CreatedAt, &model.UpdatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &domain.Category{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

// List возвращает все категории каталога.
func (c *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := c.pool.Query(ctx, `SELECT id, name, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		categories = append(categories, cat)
	}

	return categories, rows.Err()
}
