package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/internal/repository/pgdb/converter"
	"github.com/nutrimercado/go-backend/internal/usecase"
	"github.com/nutrimercado/go-backend/pkg/e"
	"github.com/nutrimercado/go-backend/pkg/tr"
)

// queryer объединяет pgxpool.Pool и pgx.Tx для чтения связей продукта.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const productColumns = `
	id, name, description, price, stock, barcode, serving_size, category_id, image_key,
	calories, protein, carbs, total_fat, saturated_fat, total_sugar, added_sugar, sodium, fiber,
	high_sodium, high_sugar, high_sat_fat, created_at, updated_at`

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Create сохраняет продукт и его связи. Вызывается только внутри транзакции.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product, rel *usecase.ProductRelations) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (
			name, description, price, stock, barcode, serving_size, category_id, image_key,
			calories, protein, carbs, total_fat, saturated_fat, total_sugar, added_sugar, sodium, fiber,
			high_sodium, high_sugar, high_sat_fat
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20
		)
		RETURNING id, created_at;
	`

	if err := tx.QueryRow(ctx, query,
		model.Name, model.Description, model.Price, model.Stock, model.Barcode,
		model.ServingSize, model.CategoryID, model.ImageKey,
		model.Calories, model.Protein, model.Carbs, model.TotalFat, model.SatFat,
		model.TotalSugar, model.AddedSugar, model.Sodium, model.Fiber,
		model.HighSodium, model.HighSugar, model.HighSatFat,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrBarcodeExists)
		}
		if postgresFKViolation(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.replaceRelations(ctx, tx, model.ID, rel); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	created := p.conv.ToEntity(model)
	if err := p.loadRelations(ctx, tx, []*domain.Product{created}); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return created, nil
}

// Update обновляет продукт и полностью заменяет его связи.
// Вызывается только внутри транзакции.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product, rel *usecase.ProductRelations) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := p.conv.ToModel(product)
	query := `
		UPDATE products SET
			name = $2, description = $3, price = $4, stock = $5, barcode = $6,
			serving_size = $7, category_id = $8, image_key = $9,
			calories = $10, protein = $11, carbs = $12, total_fat = $13, saturated_fat = $14,
			total_sugar = $15, added_sugar = $16, sodium = $17, fiber = $18,
			high_sodium = $19, high_sugar = $20, high_sat_fat = $21,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at;
	`

	if err := tx.QueryRow(ctx, query,
		model.ID,
		model.Name, model.Description, model.Price, model.Stock, model.Barcode,
		model.ServingSize, model.CategoryID, model.ImageKey,
		model.Calories, model.Protein, model.Carbs, model.TotalFat, model.SatFat,
		model.TotalSugar, model.AddedSugar, model.Sodium, model.Fiber,
		model.HighSodium, model.HighSugar, model.HighSatFat,
	).Scan(&model.CreatedAt, &model.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrBarcodeExists)
		}
		if postgresFKViolation(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.clearRelations(ctx, tx, model.ID); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.replaceRelations(ctx, tx, model.ID, rel); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	updated := p.conv.ToEntity(model)
	if err := p.loadRelations(ctx, tx, []*domain.Product{updated}); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return updated, nil
}

// Delete удаляет продукт; связи с тегами каскадируются схемой. Позиции
// заказов не трогаются: они хранят замороженную цену и имя продукта.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// GetByID возвращает продукт со всеми связями.
func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	model, err := scanProduct(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	product := p.conv.ToEntity(model)
	if err := p.loadRelations(ctx, p.pool, []*domain.Product{product}); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return product, nil
}

// Search возвращает продукты каталога со связями. Текстовый запрос ищет
// подстроку в имени продукта либо в имени любого из его ингредиентов.
func (p *ProductRepo) Search(ctx context.Context, query string, sort usecase.ProductSort) ([]domain.Product, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM products pr
		WHERE $1 = '' OR pr.name ILIKE '%%' || $1 || '%%' OR EXISTS (
			SELECT 1
			FROM product_ingredients pi
			JOIN ingredients ing ON ing.id = pi.ingredient_id
			WHERE pi.product_id = pr.id AND ing.name ILIKE '%%' || $1 || '%%'
		)
		%s
	`, productColumns, orderClause(sort))

	rows, err := p.pool.Query(ctx, sql, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	refs := make([]*domain.Product, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		products = append(products, *p.conv.ToEntity(model))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	for i := range products {
		refs = append(refs, &products[i])
	}
	if err := p.loadRelations(ctx, p.pool, refs); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return products, nil
}

// orderClause возвращает ORDER BY для ключа сортировки каталога.
// Ключ валидируется на уровне usecase, значения здесь фиксированы.
func orderClause(sort usecase.ProductSort) string {
	switch sort {
	case usecase.SortPriceAsc:
		return "ORDER BY pr.price ASC, pr.id ASC"
	case usecase.SortPriceDesc:
		return "ORDER BY pr.price DESC, pr.id ASC"
	case usecase.SortCaloriesAsc:
		return "ORDER BY pr.calories ASC, pr.id ASC"
	case usecase.SortCaloriesDesc:
		return "ORDER BY pr.calories DESC, pr.id ASC"
	default:
		return "ORDER BY pr.id ASC"
	}
}

// scanProduct считывает строку products в модель.
func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var model converter.ProductModel
	err := row.Scan(
		&model.ID, &model.Name, &model.Description, &model.Price, &model.Stock,
		&model.Barcode, &model.ServingSize, &model.CategoryID, &model.ImageKey,
		&model.Calories, &model.Protein, &model.Carbs, &model.TotalFat, &model.SatFat,
		&model.TotalSugar, &model.AddedSugar, &model.Sodium, &model.Fiber,
		&model.HighSodium, &model.HighSugar, &model.HighSatFat,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}

// replaceRelations вставляет связи продукта со справочниками.
func (p *ProductRepo) replaceRelations(ctx context.Context, tx pgx.Tx, productID int64, rel *usecase.ProductRelations) error {
	if rel == nil {
		return nil
	}

	inserts := []struct {
		query string
		ids   []int64
	}{
		{`INSERT INTO product_ingredients (product_id, ingredient_id)
			SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`, rel.IngredientIDs},
		{`INSERT INTO product_allergens (product_id, allergen_id)
			SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`, rel.AllergenIDs},
		{`INSERT INTO product_warnings (product_id, warning_id)
			SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`, rel.WarningIDs},
	}

	for _, ins := range inserts {
		if len(ins.ids) == 0 {
			continue
		}

		if _, err := tx.Exec(ctx, ins.query, productID, ins.ids); err != nil {
			return err
		}
	}

	return nil
}

// clearRelations удаляет все связи продукта перед их заменой.
func (p *ProductRepo) clearRelations(ctx context.Context, tx pgx.Tx, productID int64) error {
	queries := []string{
		`DELETE FROM product_ingredients WHERE product_id = $1`,
		`DELETE FROM product_allergens WHERE product_id = $1`,
		`DELETE FROM product_warnings WHERE product_id = $1`,
	}

	for _, q := range queries {
		if _, err := tx.Exec(ctx, q, productID); err != nil {
			return err
		}
	}

	return nil
}

// loadRelations догружает ингредиенты, аллергены и предупреждения
// для набора продуктов одним запросом на каждый справочник.
func (p *ProductRepo) loadRelations(ctx context.Context, q queryer, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(products))
	byID := make(map[int64]*domain.Product, len(products))
	for _, pr := range products {
		ids = append(ids, pr.ID)
		byID[pr.ID] = pr
	}

	ingredients, err := loadTagRows(ctx, q, `
		SELECT pi.product_id, ing.id, ing.name
		FROM product_ingredients pi
		JOIN ingredients ing ON ing.id = pi.ingredient_id
		WHERE pi.product_id = ANY($1)
		ORDER BY ing.id
	`, ids)
	if err != nil {
		return err
	}
	for productID, tags := range ingredients {
		for _, tag := range tags {
			byID[productID].Ingredients = append(byID[productID].Ingredients, domain.Ingredient(tag))
		}
	}

	allergens, err := loadTagRows(ctx, q, `
		SELECT pa.product_id, al.id, al.name
		FROM product_allergens pa
		JOIN allergens al ON al.id = pa.allergen_id
		WHERE pa.product_id = ANY($1)
		ORDER BY al.id
	`, ids)
	if err != nil {
		return err
	}
	for productID, tags := range allergens {
		for _, tag := range tags {
			byID[productID].Allergens = append(byID[productID].Allergens, domain.Allergen(tag))
		}
	}

	warnings, err := loadTagRows(ctx, q, `
		SELECT pw.product_id, w.id, w.name
		FROM product_warnings pw
		JOIN contamination_warnings w ON w.id = pw.warning_id
		WHERE pw.product_id = ANY($1)
		ORDER BY w.id
	`, ids)
	if err != nil {
		return err
	}
	for productID, tags := range warnings {
		for _, tag := range tags {
			byID[productID].Warnings = append(byID[productID].Warnings, domain.ContaminationWarning(tag))
		}
	}

	return nil
}

// tagRow — общая форма строки справочника, приводимая к конкретному типу тега.
type tagRow struct {
	ID   int64
	Name string
}

func loadTagRows(ctx context.Context, q queryer, query string, productIDs []int64) (map[int64][]tagRow, error) {
	rows, err := q.Query(ctx, query, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]tagRow)
	for rows.Next() {
		var productID int64
		var tag tagRow
		if err := rows.Scan(&productID, &tag.ID, &tag.Name); err != nil {
			return nil, err
		}

		result[productID] = append(result[productID], tag)
	}

	return result, rows.Err()
}
