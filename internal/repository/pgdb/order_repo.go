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
	"github.com/nutrimercado/go-backend/pkg/tr"
)

// OrderRepo реализует репозиторий заказов поверх PostgreSQL.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{
		pool: pool,
		conv: conv,
	}
}

// CreateOrder сохраняет заказ. Вызывается только внутри транзакции.
func (o *OrderRepo) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO orders (user_id, status)
		VALUES ($1, $2)
		RETURNING id, user_id, status, created_at;
	`

	var model converter.OrderModel
	if err := tx.QueryRow(ctx, query, order.UserID, string(order.Status)).
		Scan(&model.ID, &model.UserID, &model.Status, &model.CreatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToOrderEntity(&model), nil
}

// AddItem сохраняет позицию заказа с замороженной ценой.
// Вызывается только внутри транзакции.
func (o *OrderRepo) AddItem(ctx context.Context, item *domain.OrderItem) (*domain.OrderItem, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, order_id, product_id, product_name, quantity, unit_price;
	`

	var model converter.OrderItemModel
	if err := tx.QueryRow(ctx, query,
		item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice,
	).Scan(
		&model.ID, &model.OrderID, &model.ProductID,
		&model.ProductName, &model.Quantity, &model.UnitPrice,
	); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToItemEntity(&model), nil
}

// GetByID возвращает заказ с позициями.
func (o *OrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT id, user_id, status, created_at FROM orders WHERE id = $1`

	var model converter.OrderModel
	if err := o.pool.QueryRow(ctx, query, id).
		Scan(&model.ID, &model.UserID, &model.Status, &model.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	order := o.conv.ToOrderEntity(&model)
	items, err := o.loadItems(ctx, []int64{order.ID})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	order.Items = items[order.ID]

	return order, nil
}

// ListByUser возвращает заказы пользователя с позициями, новые первыми.
func (o *OrderRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	query := `
		SELECT id, user_id, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := o.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var model converter.OrderModel
		if err := rows.Scan(&model.ID, &model.UserID, &model.Status, &model.CreatedAt); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		orders = append(orders, *o.conv.ToOrderEntity(&model))
		ids = append(ids, model.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	items, err := o.loadItems(ctx, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

// UpdateStatus меняет статус заказа, только если текущий статус равен from.
// Несовпадение текущего статуса и несуществующий заказ различаются
// дополнительной проверкой.
func (o *OrderRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) error {
	result, err := o.pool.Exec(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`,
		string(to), id, string(from),
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		if err := o.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		if !exists {
			return e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
		}

		return e.Wrap(whereami.WhereAmI(), e.ErrInvalidStatus)
	}

	return nil
}

// loadItems догружает позиции для набора заказов одним запросом.
func (o *OrderRepo) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, order_id, product_id, product_name, quantity, unit_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := o.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]domain.OrderItem)
	for rows.Next() {
		var model converter.OrderItemModel
		if err := rows.Scan(
			&model.ID, &model.OrderID, &model.ProductID,
			&model.ProductName, &model.Quantity, &model.UnitPrice,
		); err != nil {
			return nil, err
		}

		result[model.OrderID] = append(result[model.OrderID], *o.conv.ToItemEntity(&model))
	}

	return result, rows.Err()
}
