package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/nutrimercado/go-backend/internal/usecase"
	"github.com/nutrimercado/go-backend/pkg/e"
	"github.com/nutrimercado/go-backend/pkg/logger"
)

type ProductHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewProductHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// listProducts возвращает продукты каталога, отфильтрованные по параметрам запроса.
// Все фильтры комбинируются конъюнкцией; неизвестные параметры игнорируются.
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	req, err := parseListQuery(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	products, err := p.catalogUsecase.ListProducts(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.catalogUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 50 << 20
		maxMemory           = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	req, err := parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.catalogUsecase.CreateProduct(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 50 << 20
		maxMemory           = 32 << 20
	)

	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	createReq, err := parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.catalogUsecase.UpdateProduct(r.Context(), &usecase.UpdateProductReq{
		ID:               id,
		CreateProductReq: *createReq,
	})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.catalogUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseListQuery разбирает параметры фильтрации каталога.
func parseListQuery(r *http.Request) (*usecase.ListProductsReq, error) {
	q := r.URL.Query()
	req := &usecase.ListProductsReq{Search: strings.TrimSpace(q.Get("search"))}

	if name := strings.TrimSpace(q.Get("name_contains")); name != "" {
		req.Filter.NameContains = &name
	}

	if raw := strings.TrimSpace(q.Get("category")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, e.NewValidationError("category", err)
		}
		req.Filter.CategoryID = &id
	}

	req.Filter.ExcludeIngredients = usecase.ParseIDList(q.Get("exclude_ingredients"))
	req.Filter.ExcludeAllergens = usecase.ParseIDList(q.Get("exclude_allergens"))
	req.Filter.AvoidContamination = usecase.ParseIDList(q.Get("avoid_contamination"))

	if name := strings.TrimSpace(q.Get("exclude_ingredient_name")); name != "" {
		req.Filter.ExcludeIngredientName = &name
	}

	var err error
	if req.Filter.GlutenFree, err = usecase.ParseBoolFlag("gluten_free", q.Get("gluten_free")); err != nil {
		return nil, err
	}
	if req.Filter.LactoseFree, err = usecase.ParseBoolFlag("lactose_free", q.Get("lactose_free")); err != nil {
		return nil, err
	}

	thresholds := []struct {
		field string
		dst   **float64
	}{
		{"max_calories", &req.Filter.MaxCalories},
		{"max_carbs", &req.Filter.MaxCarbs},
		{"max_fat", &req.Filter.MaxFat},
		{"max_sodium", &req.Filter.MaxSodium},
		{"max_added_sugar", &req.Filter.MaxAddedSugar},
		{"min_protein", &req.Filter.MinProtein},
	}
	for _, t := range thresholds {
		v, err := usecase.ParseThreshold(t.field, q.Get(t.field))
		if err != nil {
			return nil, err
		}
		*t.dst = v
	}

	if req.Filter.BlockHighSugar, err = usecase.ParseBoolFlag("block_high_sugar", q.Get("block_high_sugar")); err != nil {
		return nil, err
	}
	if req.Filter.BlockHighSodium, err = usecase.ParseBoolFlag("block_high_sodium", q.Get("block_high_sodium")); err != nil {
		return nil, err
	}
	if req.Filter.BlockHighSatFat, err = usecase.ParseBoolFlag("block_high_sat_fat", q.Get("block_high_sat_fat")); err != nil {
		return nil, err
	}

	if req.Sort, err = usecase.ParseSort(q.Get("sort")); err != nil {
		return nil, err
	}

	return req, nil
}
