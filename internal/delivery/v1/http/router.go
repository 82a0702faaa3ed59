package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nutrimercado/go-backend/internal/usecase"
	"github.com/nutrimercado/go-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(catalogUC usecase.CatalogUC, orderUC usecase.OrderUC, authUC usecase.AuthUC, tokens usecase.TokenManager) {
	authMW := NewAuthMiddleware(tokens)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerAuthRoutes(v1, NewAuthHandler(authUC, r.logger))
		registerProductRoutes(v1, NewProductHandler(catalogUC, r.logger), authMW)
		registerCatalogRoutes(v1, NewCatalogHandler(catalogUC, r.logger), authMW)
		registerOrderRoutes(v1, NewOrderHandler(orderUC, r.logger), authMW)
	})
}

func registerAuthRoutes(router chi.Router, h *AuthHandler) {
	router.Route("/auth", func(auth chi.Router) {
		auth.Post("/register", h.register)
		auth.Post("/login", h.login)
		auth.Post("/refresh", h.refresh)
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler, authMW *AuthMiddleware) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Get("/{id}", h.getProduct)

		// Управление каталогом доступно только администраторам
		pr.Group(func(admin chi.Router) {
			admin.Use(authMW.Authenticate, authMW.RequireAdmin)
			admin.Post("/", h.createProduct)
			admin.Put("/{id}", h.updateProduct)
			admin.Delete("/{id}", h.deleteProduct)
		})
	})
}

func registerCatalogRoutes(router chi.Router, h *CatalogHandler, authMW *AuthMiddleware) {
	type entry struct {
		path   string
		list   http.HandlerFunc
		create http.HandlerFunc
	}

	entries := []entry{
		{"/categories", h.listCategories, h.createCategory},
		{"/ingredients", h.listIngredients, h.createIngredient},
		{"/allergens", h.listAllergens, h.createAllergen},
		{"/contamination-warnings", h.listWarnings, h.createWarning},
	}

	for _, en := range entries {
		router.Route(en.path, func(rt chi.Router) {
			rt.Get("/", en.list)
			rt.Group(func(admin chi.Router) {
				admin.Use(authMW.Authenticate, authMW.RequireAdmin)
				admin.Post("/", en.create)
			})
		})
	}
}

func registerOrderRoutes(router chi.Router, h *OrderHandler, authMW *AuthMiddleware) {
	router.Route("/orders", func(or chi.Router) {
		or.Use(authMW.Authenticate)
		or.Post("/", h.placeOrder)
		or.Get("/", h.listOrders)
		or.Get("/{id}", h.getOrder)

		or.Group(func(admin chi.Router) {
			admin.Use(authMW.RequireAdmin)
			admin.Patch("/{id}/status", h.updateStatus)
		})
	})
}
