package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nutrimercado/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceToCents(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr error
	}{
		{"WholeNumber", "600", 60000, nil},
		{"TwoDecimals", "599.99", 59999, nil},
		{"OneDecimal", "12.5", 1250, nil},
		{"Zero", "0", 0, nil},
		{"Empty", "", 0, e.ErrInvalidPrice},
		{"NotANumber", "abc", 0, e.ErrInvalidPrice},
		{"Negative", "-1.00", 0, e.ErrInvalidPrice},
		{"TooManyDecimals", "1.999", 0, e.ErrPricePrecision},
		{"AbsurdlyLarge", "1000000000000", 0, e.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePriceToCents(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseListQuery(t *testing.T) {
	t.Run("AllFilters", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet,
			"/api/v1/products?search=granola&name_contains=art&category=10"+
				"&exclude_ingredients=1,2&exclude_allergens=3&avoid_contamination=5"+
				"&exclude_ingredient_name=wheat&gluten_free=true"+
				"&max_calories=300&min_protein=10&block_high_sugar=true&sort=-price",
			nil)

		req, err := parseListQuery(r)
		require.NoError(t, err)

		assert.Equal(t, "granola", req.Search)
		require.NotNil(t, req.Filter.NameContains)
		assert.Equal(t, "art", *req.Filter.NameContains)
		require.NotNil(t, req.Filter.CategoryID)
		assert.Equal(t, int64(10), *req.Filter.CategoryID)
		assert.Equal(t, []int64{1, 2}, req.Filter.ExcludeIngredients)
		assert.Equal(t, []int64{3}, req.Filter.ExcludeAllergens)
		assert.Equal(t, []int64{5}, req.Filter.AvoidContamination)
		require.NotNil(t, req.Filter.ExcludeIngredientName)
		assert.Equal(t, "wheat", *req.Filter.ExcludeIngredientName)
		assert.True(t, req.Filter.GlutenFree)
		assert.False(t, req.Filter.LactoseFree)
		require.NotNil(t, req.Filter.MaxCalories)
		assert.Equal(t, 300.0, *req.Filter.MaxCalories)
		require.NotNil(t, req.Filter.MinProtein)
		assert.Equal(t, 10.0, *req.Filter.MinProtein)
		assert.True(t, req.Filter.BlockHighSugar)
		assert.Equal(t, "-price", string(req.Sort))
	})

	t.Run("NoFilters", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)

		req, err := parseListQuery(r)
		require.NoError(t, err)

		assert.Empty(t, req.Search)
		assert.Nil(t, req.Filter.NameContains)
		assert.Nil(t, req.Filter.CategoryID)
		assert.Nil(t, req.Filter.MaxCalories)
		assert.Empty(t, req.Filter.Predicates())
	})

	t.Run("BadCategory", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=meat", nil)

		_, err := parseListQuery(r)
		var vErr *e.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "category", vErr.Field)
	})

	t.Run("BadThreshold", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/products?max_sodium=low", nil)

		_, err := parseListQuery(r)
		var vErr *e.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "max_sodium", vErr.Field)
	})

	t.Run("BadSort", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/products?sort=name", nil)

		_, err := parseListQuery(r)
		var vErr *e.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "sort", vErr.Field)
	})
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"BadRequest", e.Wrap("op", e.ErrEmptyCart), http.StatusBadRequest},
		{"Unauthorized", e.ErrInvalidCredentials, http.StatusUnauthorized},
		{"Forbidden", e.Wrap("op", e.ErrForbidden), http.StatusForbidden},
		{"NotFound", e.Wrap("op", e.ErrProductNotFound), http.StatusNotFound},
		{"Conflict", e.Wrap("op", e.ErrBarcodeExists), http.StatusConflict},
		{"Unknown", errors.New("pq: connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := ToHTTPResponse(tt.err)
			assert.Equal(t, tt.code, code)
		})
	}

	t.Run("MessageIsUnwrapped", func(t *testing.T) {
		_, msg := ToHTTPResponse(e.Wrap("OrderUseCase.PlaceOrder", e.ErrEmptyCart))
		assert.Equal(t, e.ErrEmptyCart.Error(), msg)
	})

	t.Run("InternalDetailsHidden", func(t *testing.T) {
		_, msg := ToHTTPResponse(errors.New("pq: connection reset"))
		assert.Equal(t, e.ErrInternalServerError.Error(), msg)
	})
}
