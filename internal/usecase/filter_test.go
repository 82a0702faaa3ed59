package usecase

import (
	"errors"
	"testing"

	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }
func i64Ptr(v int64) *int64     { return &v }

func testCatalog() []domain.Product {
	return []domain.Product{
		{
			ID:         1,
			Name:       "Granola Artesanal",
			CategoryID: 10,
			Price:      2500,
			Nutrition:  domain.Nutrition{Calories: 500, Protein: 12, Carbs: 60, Sodium: 80, AddedSugar: 15},
			Allergens:  []domain.Allergen{{ID: 3, Name: "nuts"}},
			Ingredients: []domain.Ingredient{
				{ID: 7, Name: "Oats"},
				{ID: 8, Name: "Honey"},
			},
		},
		{
			ID:         2,
			Name:       "Yogurt Natural",
			CategoryID: 11,
			Price:      1200,
			Nutrition:  domain.Nutrition{Calories: 200, Protein: 8, Carbs: 10, Sodium: 120},
			Warnings:   []domain.ContaminationWarning{{ID: 5, Name: "Gluten-Free"}},
			HighSugar:  true,
		},
		{
			ID:         3,
			Name:       "Pan Integral",
			CategoryID: 10,
			Price:      900,
			Nutrition:  domain.Nutrition{Calories: 300, Protein: 10, Carbs: 50, Sodium: 400},
			Ingredients: []domain.Ingredient{
				{ID: 9, Name: "Wheat Flour"},
			},
			HighSodium: true,
		},
	}
}

func productIDs(products []domain.Product) []int64 {
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestProductFilter_Apply(t *testing.T) {
	catalog := testCatalog()

	t.Run("EmptyFilterReturnsAll", func(t *testing.T) {
		f := &ProductFilter{}
		got := f.Apply(catalog)
		assert.Equal(t, []int64{1, 2, 3}, productIDs(got))
	})

	t.Run("Conjunction", func(t *testing.T) {
		// Порог калорий и исключение аллергена действуют одновременно
		f := &ProductFilter{
			MaxCalories:      f64Ptr(300),
			ExcludeAllergens: []int64{3},
		}
		got := f.Apply(catalog)
		assert.Equal(t, []int64{2, 3}, productIDs(got))
	})

	t.Run("ThresholdIsInclusive", func(t *testing.T) {
		f := &ProductFilter{MaxCalories: f64Ptr(500)}
		got := f.Apply(catalog)
		assert.Len(t, got, 3)
	})

	t.Run("NameContainsCaseInsensitive", func(t *testing.T) {
		f := &ProductFilter{NameContains: strPtr("granola")}
		got := f.Apply(catalog)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ID)
	})

	t.Run("CategoryExactMatch", func(t *testing.T) {
		f := &ProductFilter{CategoryID: i64Ptr(10)}
		got := f.Apply(catalog)
		assert.Equal(t, []int64{1, 3}, productIDs(got))
	})

	t.Run("ExcludeIngredientByID", func(t *testing.T) {
		f := &ProductFilter{ExcludeIngredients: []int64{8}}
		got := f.Apply(catalog)
		assert.Equal(t, []int64{2, 3}, productIDs(got))
	})

	t.Run("ExcludeIngredientNameSubstring", func(t *testing.T) {
		f := &ProductFilter{ExcludeIngredientName: strPtr("wheat")}
		got := f.Apply(catalog)
		assert.Equal(t, []int64{1, 2}, productIDs(got))
	})

	t.Run("GlutenFreeRequiresWarningCaseInsensitive", func(t *testing.T) {
		f := &ProductFilter{GlutenFree: true}
		got := f.Apply(catalog)
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].ID)
	})

	t.Run("BlockHighFlags", func(t *testing.T) {
		f := &ProductFilter{BlockHighSugar: true, BlockHighSodium: true}
		got := f.Apply(catalog)
		assert.Equal(t, []int64{1}, productIDs(got))
	})

	t.Run("MinProtein", func(t *testing.T) {
		f := &ProductFilter{MinProtein: f64Ptr(10)}
		got := f.Apply(catalog)
		assert.Equal(t, []int64{1, 3}, productIDs(got))
	})

	t.Run("AllFiltersRejectEverything", func(t *testing.T) {
		f := &ProductFilter{
			MaxCalories:      f64Ptr(300),
			ExcludeAllergens: []int64{3},
			CategoryID:       i64Ptr(10),
			BlockHighSodium:  true,
		}
		got := f.Apply(catalog)
		assert.Empty(t, got)
	})
}

func TestProductFilter_ApplyIdempotent(t *testing.T) {
	catalog := testCatalog()
	f := &ProductFilter{MaxCalories: f64Ptr(400), BlockHighSugar: true}

	once := f.Apply(catalog)
	twice := f.Apply(once)

	assert.Equal(t, once, twice)
}

func TestProductFilter_ApplyOrderIndependent(t *testing.T) {
	catalog := testCatalog()
	reversed := []domain.Product{catalog[2], catalog[1], catalog[0]}
	f := &ProductFilter{MaxCalories: f64Ptr(400)}

	forward := productIDs(f.Apply(catalog))
	backward := productIDs(f.Apply(reversed))

	assert.ElementsMatch(t, forward, backward)
}

func TestProductFilter_ApplyDeduplicatesByID(t *testing.T) {
	catalog := testCatalog()
	// Дубликат возникает, когда поисковый запрос совпал с несколькими
	// ингредиентами одного продукта
	withDup := append([]domain.Product{catalog[0]}, catalog...)

	f := &ProductFilter{}
	got := f.Apply(withDup)

	assert.Equal(t, []int64{1, 2, 3}, productIDs(got))
}

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []int64
	}{
		{"Empty", "", nil},
		{"Single", "7", []int64{7}},
		{"Multiple", "1,2,3", []int64{1, 2, 3}},
		{"SpacesTrimmed", " 1 , 2 ", []int64{1, 2}},
		{"NonNumericDropped", "1,x,3", []int64{1, 3}},
		{"AllGarbage", "a,b,c", nil},
		{"TrailingComma", "5,", []int64{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIDList(tt.raw))
		})
	}
}

func TestParseThreshold(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		got, err := ParseThreshold("max_calories", "")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Valid", func(t *testing.T) {
		got, err := ParseThreshold("max_calories", "250.5")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 250.5, *got)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseThreshold("max_calories", "abc")
		var vErr *e.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "max_calories", vErr.Field)
	})
}

func TestParseBoolFlag(t *testing.T) {
	t.Run("EmptyMeansFalse", func(t *testing.T) {
		got, err := ParseBoolFlag("gluten_free", "")
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("True", func(t *testing.T) {
		got, err := ParseBoolFlag("gluten_free", "true")
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseBoolFlag("gluten_free", "yes please")
		var vErr *e.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "gluten_free", vErr.Field)
	})
}

func TestParseSort(t *testing.T) {
	valid := []string{"", "price", "-price", "calories", "-calories"}
	for _, raw := range valid {
		got, err := ParseSort(raw)
		require.NoError(t, err)
		assert.Equal(t, ProductSort(raw), got)
	}

	_, err := ParseSort("name")
	var vErr *e.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "sort", vErr.Field)
}
