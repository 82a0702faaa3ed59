package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/pkg/e"
	"github.com/nutrimercado/go-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

// stubTx подменяет pgx.Tx в тестах сборки заказа: Commit/Rollback ничего не
// делают, остальные методы не вызываются, т.к. репозитории замоканы.
type stubTx struct {
	pgx.Tx
}

func (stubTx) Commit(ctx context.Context) error   { return nil }
func (stubTx) Rollback(ctx context.Context) error { return nil }

type stubPool struct{}

func (stubPool) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return stubTx{}, nil
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) AddItem(ctx context.Context, item *domain.OrderItem) (*domain.OrderItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product, rel *ProductRelations) (*domain.Product, error) {
	args := m.Called(ctx, product, rel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product, rel *ProductRelations) (*domain.Product, error) {
	args := m.Called(ctx, product, rel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, query string, sort ProductSort) ([]domain.Product, error) {
	args := m.Called(ctx, query, sort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OutboxEvent), args.Error(1)
}

func (m *MockOutboxRepository) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*OutboxEvent), args.Error(1)
}

func (m *MockOutboxRepository) MarkAsProcessed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newOrderUC(orderRepo *MockOrderRepository, productRepo *MockProductRepository, outboxRepo *MockOutboxRepository) *OrderUseCase {
	return NewOrderUC(orderRepo, productRepo, outboxRepo, nil, logger.NewSlogLogger())
}

// --- Tests ---

func TestOrderUseCase_PlaceOrder_Validation(t *testing.T) {
	ctx := context.Background()
	ident := NewIdentity(42, "maria", false)

	t.Run("EmptyCart", func(t *testing.T) {
		uc := newOrderUC(new(MockOrderRepository), new(MockProductRepository), new(MockOutboxRepository))

		_, err := uc.PlaceOrder(ctx, ident, &PlaceOrderReq{})
		assert.ErrorIs(t, err, e.ErrEmptyCart)
	})

	t.Run("NonPositiveQuantity", func(t *testing.T) {
		uc := newOrderUC(new(MockOrderRepository), new(MockProductRepository), new(MockOutboxRepository))

		_, err := uc.PlaceOrder(ctx, ident, &PlaceOrderReq{
			Lines: []OrderLine{{ProductID: 1, Quantity: 0}},
		})

		var vErr *e.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "quantity", vErr.Field)
		assert.ErrorIs(t, err, e.ErrInvalidQuantity)
	})
}

func TestOrderUseCase_PlaceOrder_Assembly(t *testing.T) {
	ctx := context.Background()
	ident := NewIdentity(42, "maria", false)

	newAssemblyUC := func(orderRepo *MockOrderRepository, productRepo *MockProductRepository, outboxRepo *MockOutboxRepository) *OrderUseCase {
		return NewOrderUC(orderRepo, productRepo, outboxRepo, stubPool{}, logger.NewSlogLogger())
	}

	t.Run("SkipsUnresolvedLine", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
			return o.UserID == 42 && o.Status == domain.OrderStatusOpen
		})).Return(&domain.Order{ID: 7, UserID: 42, Status: domain.OrderStatusOpen}, nil)
		orderRepo.On("AddItem", mock.Anything, mock.MatchedBy(func(i *domain.OrderItem) bool {
			return i.OrderID == 7 && i.ProductID == 1 && i.Quantity == 2 && i.UnitPrice == 2500
		})).Return(&domain.OrderItem{
			ID: 1, OrderID: 7, ProductID: 1, ProductName: "Granola Artesanal", Quantity: 2, UnitPrice: 2500,
		}, nil)

		productRepo := new(MockProductRepository)
		productRepo.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.Product{ID: 1, Name: "Granola Artesanal", Price: 2500}, nil)
		productRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, e.ErrProductNotFound)

		outboxRepo := new(MockOutboxRepository)
		outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(ev *OutboxEvent) bool {
			return ev.EventType == OrderPlacedEvent && ev.OrderID == 7
		})).Return(&OutboxEvent{ID: 1, OrderID: 7}, nil)

		uc := newAssemblyUC(orderRepo, productRepo, outboxRepo)

		order, err := uc.PlaceOrder(ctx, ident, &PlaceOrderReq{
			Lines: []OrderLine{
				{ProductID: 1, Quantity: 2},
				{ProductID: 404, Quantity: 1},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusOpen, order.Status)
		require.Len(t, order.Items, 1)
		assert.Equal(t, int64(1), order.Items[0].ProductID)
		assert.Equal(t, int64(2500), order.Items[0].UnitPrice)
		assert.Equal(t, int64(5000), order.Total())
		orderRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("AllLinesUnresolvedYieldsEmptyOrder", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("CreateOrder", mock.Anything, mock.Anything).
			Return(&domain.Order{ID: 8, UserID: 42, Status: domain.OrderStatusOpen}, nil)

		productRepo := new(MockProductRepository)
		productRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, e.ErrProductNotFound)
		productRepo.On("GetByID", mock.Anything, int64(405)).Return(nil, e.ErrProductNotFound)

		outboxRepo := new(MockOutboxRepository)
		outboxRepo.On("Create", mock.Anything, mock.Anything).
			Return(&OutboxEvent{ID: 2, OrderID: 8}, nil)

		uc := newAssemblyUC(orderRepo, productRepo, outboxRepo)

		order, err := uc.PlaceOrder(ctx, ident, &PlaceOrderReq{
			Lines: []OrderLine{
				{ProductID: 404, Quantity: 1},
				{ProductID: 405, Quantity: 1},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusOpen, order.Status)
		assert.Empty(t, order.Items)
		orderRepo.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything)
	})

	t.Run("StoreFailureAborts", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("CreateOrder", mock.Anything, mock.Anything).
			Return(&domain.Order{ID: 9, UserID: 42, Status: domain.OrderStatusOpen}, nil)

		productRepo := new(MockProductRepository)
		productRepo.On("GetByID", mock.Anything, int64(1)).
			Return(nil, errors.New("pq: connection reset"))

		uc := newAssemblyUC(orderRepo, productRepo, new(MockOutboxRepository))

		_, err := uc.PlaceOrder(ctx, ident, &PlaceOrderReq{
			Lines: []OrderLine{{ProductID: 1, Quantity: 1}},
		})
		require.Error(t, err)
		assert.NotErrorIs(t, err, e.ErrProductNotFound)
	})
}

func TestOrderUseCase_GetOrder(t *testing.T) {
	ctx := context.Background()
	order := &domain.Order{
		ID:     7,
		UserID: 42,
		Status: domain.OrderStatusOpen,
		Items: []domain.OrderItem{
			{ProductID: 1, ProductName: "Granola Artesanal", Quantity: 2, UnitPrice: 2500},
		},
	}

	t.Run("Owner", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("GetByID", ctx, int64(7)).Return(order, nil)
		uc := newOrderUC(orderRepo, new(MockProductRepository), new(MockOutboxRepository))

		got, err := uc.GetOrder(ctx, NewIdentity(42, "maria", false), 7)
		require.NoError(t, err)
		assert.Equal(t, order, got)
		assert.Equal(t, int64(5000), got.Total())
		orderRepo.AssertExpectations(t)
	})

	t.Run("OtherUserForbidden", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("GetByID", ctx, int64(7)).Return(order, nil)
		uc := newOrderUC(orderRepo, new(MockProductRepository), new(MockOutboxRepository))

		_, err := uc.GetOrder(ctx, NewIdentity(99, "pedro", false), 7)
		assert.ErrorIs(t, err, e.ErrForbidden)
	})

	t.Run("AdminSeesAny", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("GetByID", ctx, int64(7)).Return(order, nil)
		uc := newOrderUC(orderRepo, new(MockProductRepository), new(MockOutboxRepository))

		got, err := uc.GetOrder(ctx, NewIdentity(1, "admin", true), 7)
		require.NoError(t, err)
		assert.Equal(t, order, got)
	})

	t.Run("NotFound", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("GetByID", ctx, int64(404)).Return(nil, e.ErrOrderNotFound)
		uc := newOrderUC(orderRepo, new(MockProductRepository), new(MockOutboxRepository))

		_, err := uc.GetOrder(ctx, NewIdentity(42, "maria", false), 404)
		assert.ErrorIs(t, err, e.ErrOrderNotFound)
	})
}

func TestOrderUseCase_ListOrders(t *testing.T) {
	ctx := context.Background()
	orders := []domain.Order{
		{ID: 2, UserID: 42, Status: domain.OrderStatusFinalized},
		{ID: 1, UserID: 42, Status: domain.OrderStatusOpen},
	}

	orderRepo := new(MockOrderRepository)
	orderRepo.On("ListByUser", ctx, int64(42)).Return(orders, nil)
	uc := newOrderUC(orderRepo, new(MockProductRepository), new(MockOutboxRepository))

	got, err := uc.ListOrders(ctx, NewIdentity(42, "maria", false))
	require.NoError(t, err)
	assert.Equal(t, orders, got)
	orderRepo.AssertExpectations(t)
}

func TestOrderUseCase_UpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	admin := NewIdentity(1, "admin", true)

	t.Run("NonAdminForbidden", func(t *testing.T) {
		uc := newOrderUC(new(MockOrderRepository), new(MockProductRepository), new(MockOutboxRepository))

		err := uc.UpdateOrderStatus(ctx, NewIdentity(42, "maria", false), 7, domain.OrderStatusFinalized)
		assert.ErrorIs(t, err, e.ErrForbidden)
	})

	t.Run("OpenIsNotAValidTarget", func(t *testing.T) {
		uc := newOrderUC(new(MockOrderRepository), new(MockProductRepository), new(MockOutboxRepository))

		err := uc.UpdateOrderStatus(ctx, admin, 7, domain.OrderStatusOpen)
		assert.ErrorIs(t, err, e.ErrInvalidStatus)
	})

	t.Run("FinalizeOpenOrder", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("UpdateStatus", ctx, int64(7), domain.OrderStatusOpen, domain.OrderStatusFinalized).Return(nil)
		uc := newOrderUC(orderRepo, new(MockProductRepository), new(MockOutboxRepository))

		err := uc.UpdateOrderStatus(ctx, admin, 7, domain.OrderStatusFinalized)
		require.NoError(t, err)
		orderRepo.AssertExpectations(t)
	})

	t.Run("AlreadyFinalized", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("UpdateStatus", ctx, int64(7), domain.OrderStatusOpen, domain.OrderStatusCancelled).
			Return(e.ErrInvalidStatus)
		uc := newOrderUC(orderRepo, new(MockProductRepository), new(MockOutboxRepository))

		err := uc.UpdateOrderStatus(ctx, admin, 7, domain.OrderStatusCancelled)
		assert.ErrorIs(t, err, e.ErrInvalidStatus)
	})
}
