package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/pkg/e"
	"github.com/nutrimercado/go-backend/pkg/logger"
)

// OrderUseCase реализует сборку заказа из корзины и управление его статусом.
type OrderUseCase struct {
	orderRepo   OrderRepository
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	dbPool      transaction.Transactional
	logger      logger.Logger
}

func NewOrderUC(
	orderRepo OrderRepository,
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		dbPool:      dbPool,
		logger:      logger,
	}
}

// orderPlacedPayload — тело события order.placed для outbox.
type orderPlacedPayload struct {
	EventID   string                 `json:"event_id"`
	OrderID   int64                  `json:"order_id"`
	UserID    int64                  `json:"user_id"`
	Total     int64                  `json:"total"`
	Items     []orderPlacedItem      `json:"items"`
	CreatedAt int64                  `json:"created_at"`
}

type orderPlacedItem struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// PlaceOrder собирает заказ из строк корзины в одной транзакции.
// Цена каждой позиции замораживается на момент оформления. Строки с
// несуществующими продуктами пропускаются с записью в лог, остальные
// сохраняются. Вместе с заказом в той же транзакции пишется событие outbox.
func (o *OrderUseCase) PlaceOrder(ctx context.Context, ident *Identity, req *PlaceOrderReq) (*domain.Order, error) {
	const op = "OrderUseCase.PlaceOrder"

	if len(req.Lines) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyCart)
	}

	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, e.Wrap(op, e.NewValidationError("quantity", e.ErrInvalidQuantity))
		}
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, o.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	order, err := o.orderRepo.CreateOrder(ctx, domain.NewOrder(ident.UserID))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	for _, line := range req.Lines {
		product, prodErr := o.productRepo.GetByID(ctx, line.ProductID)
		if prodErr != nil {
			if errors.Is(prodErr, e.ErrProductNotFound) {
				o.logger.Warnf(
					"Skipping unresolved cart line. order_id: %d, product_id: %d",
					order.ID,
					line.ProductID,
				)
				continue
			}
			err = prodErr
			return nil, e.Wrap(op, err)
		}

		item := domain.NewOrderItem(product.ID, product.Name, line.Quantity, product.Price)
		item.OrderID = order.ID

		saved, itemErr := o.orderRepo.AddItem(ctx, item)
		if itemErr != nil {
			err = itemErr
			return nil, e.Wrap(op, err)
		}

		order.Items = append(order.Items, *saved)
	}

	event, err := o.buildOrderPlacedEvent(order)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err = o.outboxRepo.Create(ctx, event); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	return order, nil
}

// GetOrder возвращает заказ. Обычный пользователь видит только свои заказы.
func (o *OrderUseCase) GetOrder(ctx context.Context, ident *Identity, orderID int64) (*domain.Order, error) {
	const op = "OrderUseCase.GetOrder"

	order, err := o.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if order.UserID != ident.UserID && !ident.IsAdmin {
		return nil, e.Wrap(op, e.ErrForbidden)
	}

	return order, nil
}

// ListOrders возвращает все заказы текущего пользователя.
func (o *OrderUseCase) ListOrders(ctx context.Context, ident *Identity) ([]domain.Order, error) {
	const op = "OrderUseCase.ListOrders"

	orders, err := o.orderRepo.ListByUser(ctx, ident.UserID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return orders, nil
}

// UpdateOrderStatus переводит заказ из открытого состояния в завершённый
// или отменённый. Доступно только администратору.
func (o *OrderUseCase) UpdateOrderStatus(ctx context.Context, ident *Identity, orderID int64, status domain.OrderStatus) error {
	const op = "OrderUseCase.UpdateOrderStatus"

	if !ident.IsAdmin {
		return e.Wrap(op, e.ErrForbidden)
	}

	if status != domain.OrderStatusFinalized && status != domain.OrderStatusCancelled {
		return e.Wrap(op, e.ErrInvalidStatus)
	}

	if err := o.orderRepo.UpdateStatus(ctx, orderID, domain.OrderStatusOpen, status); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (o *OrderUseCase) buildOrderPlacedEvent(order *domain.Order) (*OutboxEvent, error) {
	eventID := uuid.NewString()

	payload := orderPlacedPayload{
		EventID:   eventID,
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total(),
		Items:     make([]orderPlacedItem, 0, len(order.Items)),
		CreatedAt: time.Now().Unix(),
	}
	for _, item := range order.Items {
		payload.Items = append(payload.Items, orderPlacedItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return NewOutboxEvent(eventID, OrderPlacedEvent, order.ID, raw), nil
}
