package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/pkg/e"
)

// TagRepo реализует репозитории справочников ингредиентов, аллергенов
// и предупреждений о контаминации. Все три таблицы имеют одинаковую форму.
type TagRepo struct {
	pool *pgxpool.Pool
}

func NewTagRepo(pool *pgxpool.Pool) *TagRepo {
	return &TagRepo{pool: pool}
}

func (t *TagRepo) CreateIngredient(ctx context.Context, ing *domain.Ingredient) (*domain.Ingredient, error) {
	row, err := t.upsertTag(ctx, "ingredients", ing.Name)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &domain.Ingredient{ID: row.ID, Name: row.Name}, nil
}

func (t *TagRepo) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	rows, err := t.listTags(ctx, "ingredients")
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]domain.Ingredient, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.Ingredient(row))
	}

	return result, nil
}

func (t *TagRepo) CreateAllergen(ctx context.Context, al *domain.Allergen) (*domain.Allergen, error) {
	row, err := t.upsertTag(ctx, "allergens", al.Name)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &domain.Allergen{ID: row.ID, Name: row.Name}, nil
}

func (t *TagRepo) ListAllergens(ctx context.Context) ([]domain.Allergen, error) {
	rows, err := t.listTags(ctx, "allergens")
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]domain.Allergen, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.Allergen(row))
	}

	return result, nil
}

func (t *TagRepo) CreateWarning(ctx context.Context, w *domain.ContaminationWarning) (*domain.ContaminationWarning, error) {
	row, err := t.upsertTag(ctx, "contamination_warnings", w.Name)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &domain.ContaminationWarning{ID: row.ID, Name: row.Name}, nil
}

func (t *TagRepo) ListWarnings(ctx context.Context) ([]domain.ContaminationWarning, error) {
	rows, err := t.listTags(ctx, "contamination_warnings")
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]domain.ContaminationWarning, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.ContaminationWarning(row))
	}

	return result, nil
}

// upsertTag идемпотентно создаёт запись справочника по имени.
// Имя таблицы фиксировано вызывающим кодом и не приходит извне.
func (t *TagRepo) upsertTag(ctx context.Context, table, name string) (*tagRow, error) {
	query := `
		WITH inserted AS (
			INSERT INTO ` + table + `(name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
			RETURNING id, name
		)
		SELECT id, name FROM inserted
		UNION ALL
		SELECT id, name FROM ` + table + ` WHERE name = $1
		LIMIT 1;
	`

	var row tagRow
	if err := t.pool.QueryRow(ctx, query, name).Scan(&row.ID, &row.Name); err != nil {
		return nil, err
	}

	return &row, nil
}

func (t *TagRepo) listTags(ctx context.Context, table string) ([]tagRow, error) {
	rows, err := t.pool.Query(ctx, `SELECT id, name FROM `+table+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]tagRow, 0)
	for rows.Next() {
		var row tagRow
		if err := rows.Scan(&row.ID, &row.Name); err != nil {
			return nil, err
		}

		result = append(result, row)
	}

	return result, rows.Err()
}
