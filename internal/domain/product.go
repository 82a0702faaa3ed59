package domain

import (
	"strings"
	"time"
)

// Nutrition — таблица пищевой ценности продукта (на порцию).
// Все значения неотрицательные.
type Nutrition struct {
	Calories     float64 // ккал
	Protein      float64 // г
	Carbs        float64 // г
	TotalFat     float64 // г
	SaturatedFat float64 // г
	TotalSugar   float64 // г
	AddedSugar   float64 // г
	Sodium       float64 // мг
	Fiber        float64 // г
}

// Product описывает продукт каталога.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       int64 // Цена хранится в сентаво
	Stock       int64
	Barcode     string
	ServingSize float64
	CategoryID  int64
	ImageKey    *string
	Nutrition   Nutrition

	// Флаги высокого содержания. Выставляются при создании/редактировании,
	// не вычисляются из числовых значений.
	HighSodium bool
	HighSugar  bool
	HighSatFat bool

	Ingredients []Ingredient
	Allergens   []Allergen
	Warnings    []ContaminationWarning

	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewProduct(name string, price int64, categoryID int64) *Product {
	return &Product{
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
	}
}

// HasIngredientID сообщает, содержит ли продукт ингредиент с указанным ID.
func (p *Product) HasIngredientID(ids map[int64]struct{}) bool {
	for _, ing := range p.Ingredients {
		if _, ok := ids[ing.ID]; ok {
			return true
		}
	}
	return false
}

// HasAllergenID сообщает, содержит ли продукт аллерген с указанным ID.
func (p *Product) HasAllergenID(ids map[int64]struct{}) bool {
	for _, al := range p.Allergens {
		if _, ok := ids[al.ID]; ok {
			return true
		}
	}
	return false
}

// HasWarningID сообщает, есть ли у продукта предупреждение о контаминации с указанным ID.
func (p *Product) HasWarningID(ids map[int64]struct{}) bool {
	for _, w := range p.Warnings {
		if _, ok := ids[w.ID]; ok {
			return true
		}
	}
	return false
}

// HasIngredientNamed сообщает, есть ли у продукта ингредиент,
// имя которого содержит подстроку substr (без учёта регистра).
func (p *Product) HasIngredientNamed(substr string) bool {
	substr = strings.ToLower(substr)
	for _, ing := range p.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), substr) {
			return true
		}
	}
	return false
}

// HasWarningNamed сообщает, есть ли у продукта предупреждение
// с именем name (точное совпадение без учёта регистра).
func (p *Product) HasWarningNamed(name string) bool {
	for _, w := range p.Warnings {
		if strings.EqualFold(w.Name, name) {
			return true
		}
	}
	return false
}
