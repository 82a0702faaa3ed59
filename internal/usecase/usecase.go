package usecase

import (
	"context"

	"github.com/nutrimercado/go-backend/internal/domain"
)

type CatalogUC interface {
	ListProducts(ctx context.Context, req *ListProductsReq) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, req *UpdateProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateIngredient(ctx context.Context, name string) (*domain.Ingredient, error)
	ListIngredients(ctx context.Context) ([]domain.Ingredient, error)
	CreateAllergen(ctx context.Context, name string) (*domain.Allergen, error)
	ListAllergens(ctx context.Context) ([]domain.Allergen, error)
	CreateWarning(ctx context.Context, name string) (*domain.ContaminationWarning, error)
	ListWarnings(ctx context.Context) ([]domain.ContaminationWarning, error)
}

type OrderUC interface {
	PlaceOrder(ctx context.Context, ident *Identity, req *PlaceOrderReq) (*domain.Order, error)
	GetOrder(ctx context.Context, ident *Identity, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, ident *Identity) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, ident *Identity, orderID int64, status domain.OrderStatus) error
}

type AuthUC interface {
	Register(ctx context.Context, req *RegisterReq) (*domain.User, error)
	Login(ctx context.Context, req *LoginReq) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}
