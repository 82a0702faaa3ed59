package http

import (
	"net/http"

	"github.com/nutrimercado/go-backend/internal/usecase"
	"github.com/nutrimercado/go-backend/pkg/logger"
)

// CatalogHandler обслуживает справочники каталога: категории, ингредиенты,
// аллергены и предупреждения о контаминации.
type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, logger: logger}
}

type createNamedReq struct {
	Name string `json:"name"`
}

func (c *CatalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req createNamedReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	category, err := c.catalogUsecase.CreateCategory(r.Context(), req.Name)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, CategoryResponse{ID: category.ID, Name: category.Name})
}

func (c *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalogUsecase.ListCategories(r.Context())
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		result = append(result, CategoryResponse{ID: cat.ID, Name: cat.Name})
	}

	WriteSuccess(w, http.StatusOK, result)
}

func (c *CatalogHandler) createIngredient(w http.ResponseWriter, r *http.Request) {
	var req createNamedReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	ing, err := c.catalogUsecase.CreateIngredient(r.Context(), req.Name)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, TagResponse(*ing))
}

func (c *CatalogHandler) listIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := c.catalogUsecase.ListIngredients(r.Context())
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, ingredientResponses(ingredients))
}

func (c *CatalogHandler) createAllergen(w http.ResponseWriter, r *http.Request) {
	var req createNamedReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	al, err := c.catalogUsecase.CreateAllergen(r.Context(), req.Name)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, TagResponse(*al))
}

func (c *CatalogHandler) listAllergens(w http.ResponseWriter, r *http.Request) {
	allergens, err := c.catalogUsecase.ListAllergens(r.Context())
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, allergenResponses(allergens))
}

func (c *CatalogHandler) createWarning(w http.ResponseWriter, r *http.Request) {
	var req createNamedReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	warning, err := c.catalogUsecase.CreateWarning(r.Context(), req.Name)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, TagResponse(*warning))
}

func (c *CatalogHandler) listWarnings(w http.ResponseWriter, r *http.Request) {
	warnings, err := c.catalogUsecase.ListWarnings(r.Context())
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, warningResponses(warnings))
}
