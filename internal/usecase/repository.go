package usecase

import (
	"context"

	"github.com/nutrimercado/go-backend/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product, rel *ProductRelations) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product, rel *ProductRelations) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// Search возвращает продукты каталога со связями, дедуплицированные по ID.
	// query — свободный текстовый поиск по имени продукта и именам ингредиентов,
	// пустая строка означает весь каталог. Сортировка — по цене или калориям.
	Search(ctx context.Context, query string, sort ProductSort) ([]domain.Product, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type TagRepository interface {
	CreateIngredient(ctx context.Context, ing *domain.Ingredient) (*domain.Ingredient, error)
	ListIngredients(ctx context.Context) ([]domain.Ingredient, error)
	CreateAllergen(ctx context.Context, al *domain.Allergen) (*domain.Allergen, error)
	ListAllergens(ctx context.Context) ([]domain.Allergen, error)
	CreateWarning(ctx context.Context, w *domain.ContaminationWarning) (*domain.ContaminationWarning, error)
	ListWarnings(ctx context.Context) ([]domain.ContaminationWarning, error)
}

type OrderRepository interface {
	// CreateOrder и AddItem работают только внутри транзакции (tr.TxFromCtx).
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	AddItem(ctx context.Context, item *domain.OrderItem) (*domain.OrderItem, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	// UpdateStatus меняет статус только если текущий статус равен from.
	UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
