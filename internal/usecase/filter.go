package usecase

import (
	"strconv"
	"strings"

	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/pkg/e"
)

// Имена маркировок, на которые опираются булевы фильтры "без глютена"/"без лактозы".
// Сравнение выполняется без учёта регистра.
const (
	glutenFreeWarning  = "gluten-free"
	lactoseFreeWarning = "lactose-free"
)

// ProductSort — ключ сортировки результата каталога.
type ProductSort string

const (
	SortNone         ProductSort = ""
	SortPriceAsc     ProductSort = "price"
	SortPriceDesc    ProductSort = "-price"
	SortCaloriesAsc  ProductSort = "calories"
	SortCaloriesDesc ProductSort = "-calories"
)

// ProductFilter перечисляет все распознаваемые ключи фильтрации каталога.
// Отсутствующее поле (nil либо false) означает отсутствие ограничения.
// Все предикаты чистые, поэтому порядок применения не влияет на результат,
// а повторное применение того же фильтра его не меняет.
type ProductFilter struct {
	// Текстовое совпадение: подстрока в имени продукта без учёта регистра.
	NameContains *string

	// Точное совпадение категории.
	CategoryID *int64

	// Исключение по спискам ID связанных сущностей: продукт исключается,
	// если ЛЮБОЙ из его связей попадает в набор.
	ExcludeIngredients []int64
	ExcludeAllergens   []int64
	AvoidContamination []int64

	// Исключение по подстроке имени ингредиента (без учёта регистра).
	ExcludeIngredientName *string

	// Булевы маркировки: true требует наличия соответствующего
	// предупреждения у продукта; false — отсутствие ограничения.
	GlutenFree  bool
	LactoseFree bool

	// Пороговые ограничения на пищевую ценность (границы включительно).
	MaxCalories   *float64
	MaxCarbs      *float64
	MaxFat        *float64
	MaxSodium     *float64
	MaxAddedSugar *float64
	MinProtein    *float64

	// Блокировки по флагам высокого содержания.
	BlockHighSugar  bool
	BlockHighSodium bool
	BlockHighSatFat bool
}

// Predicate — чистый предикат над продуктом.
type Predicate func(p *domain.Product) bool

// Predicates разворачивает фильтр в конъюнкцию предикатов.
// Для каждого заданного поля возвращается ровно один предикат.
func (f *ProductFilter) Predicates() []Predicate {
	var preds []Predicate

	if f.NameContains != nil {
		substr := strings.ToLower(*f.NameContains)
		preds = append(preds, func(p *domain.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), substr)
		})
	}

	if f.CategoryID != nil {
		id := *f.CategoryID
		preds = append(preds, func(p *domain.Product) bool {
			return p.CategoryID == id
		})
	}

	if ids := toIDSet(f.ExcludeIngredients); len(ids) > 0 {
		preds = append(preds, func(p *domain.Product) bool {
			return !p.HasIngredientID(ids)
		})
	}

	if ids := toIDSet(f.ExcludeAllergens); len(ids) > 0 {
		preds = append(preds, func(p *domain.Product) bool {
			return !p.HasAllergenID(ids)
		})
	}

	if ids := toIDSet(f.AvoidContamination); len(ids) > 0 {
		preds = append(preds, func(p *domain.Product) bool {
			return !p.HasWarningID(ids)
		})
	}

	if f.ExcludeIngredientName != nil && strings.TrimSpace(*f.ExcludeIngredientName) != "" {
		substr := *f.ExcludeIngredientName
		preds = append(preds, func(p *domain.Product) bool {
			return !p.HasIngredientNamed(substr)
		})
	}

	if f.GlutenFree {
		preds = append(preds, func(p *domain.Product) bool {
			return p.HasWarningNamed(glutenFreeWarning)
		})
	}

	if f.LactoseFree {
		preds = append(preds, func(p *domain.Product) bool {
			return p.HasWarningNamed(lactoseFreeWarning)
		})
	}

	preds = appendMax(preds, f.MaxCalories, func(p *domain.Product) float64 { return p.Nutrition.Calories })
	preds = appendMax(preds, f.MaxCarbs, func(p *domain.Product) float64 { return p.Nutrition.Carbs })
	preds = appendMax(preds, f.MaxFat, func(p *domain.Product) float64 { return p.Nutrition.TotalFat })
	preds = appendMax(preds, f.MaxSodium, func(p *domain.Product) float64 { return p.Nutrition.Sodium })
	preds = appendMax(preds, f.MaxAddedSugar, func(p *domain.Product) float64 { return p.Nutrition.AddedSugar })

	if f.MinProtein != nil {
		min := *f.MinProtein
		preds = append(preds, func(p *domain.Product) bool {
			return p.Nutrition.Protein >= min
		})
	}

	if f.BlockHighSugar {
		preds = append(preds, func(p *domain.Product) bool { return !p.HighSugar })
	}

	if f.BlockHighSodium {
		preds = append(preds, func(p *domain.Product) bool { return !p.HighSodium })
	}

	if f.BlockHighSatFat {
		preds = append(preds, func(p *domain.Product) bool { return !p.HighSatFat })
	}

	return preds
}

// Apply возвращает подмножество продуктов, удовлетворяющее конъюнкции всех
// заданных предикатов. Результат дедуплицируется по ID продукта: продукт не
// может попасть в выдачу дважды из-за нескольких совпавших связанных строк.
func (f *ProductFilter) Apply(products []domain.Product) []domain.Product {
	preds := f.Predicates()

	result := make([]domain.Product, 0, len(products))
	seen := make(map[int64]struct{}, len(products))

	for i := range products {
		p := &products[i]
		if _, ok := seen[p.ID]; ok {
			continue
		}

		matched := true
		for _, pred := range preds {
			if !pred(p) {
				matched = false
				break
			}
		}

		if matched {
			seen[p.ID] = struct{}{}
			result = append(result, products[i])
		}
	}

	return result
}

// appendMax добавляет предикат верхней границы (включительно), если она задана.
func appendMax(preds []Predicate, max *float64, field func(p *domain.Product) float64) []Predicate {
	if max == nil {
		return preds
	}
	bound := *max
	return append(preds, func(p *domain.Product) bool {
		return field(p) <= bound
	})
}

func toIDSet(ids []int64) map[int64]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// ParseIDList разбирает строку вида "1, 2,x,3" в список ID.
// Политика намеренно мягкая: пробелы обрезаются, нечисловые токены молча
// отбрасываются, пустой или полностью некорректный список эквивалентен
// отсутствию фильтра.
func ParseIDList(raw string) []int64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var ids []int64
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids
}

// ParseThreshold разбирает числовой порог фильтра.
// Пустая строка означает отсутствие ограничения; нечисловое значение —
// ошибка валидации с именем поля.
func ParseThreshold(field, raw string) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, e.NewValidationError(field, err)
	}

	return &v, nil
}

// ParseBoolFlag разбирает булев флаг фильтра.
// Пустая строка означает false; некорректное значение — ошибка валидации.
func ParseBoolFlag(field, raw string) (bool, error) {
	if strings.TrimSpace(raw) == "" {
		return false, nil
	}

	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, e.NewValidationError(field, err)
	}

	return v, nil
}

// ParseSort валидирует ключ сортировки каталога.
func ParseSort(raw string) (ProductSort, error) {
	switch ProductSort(raw) {
	case SortNone, SortPriceAsc, SortPriceDesc, SortCaloriesAsc, SortCaloriesDesc:
		return ProductSort(raw), nil
	default:
		return SortNone, e.NewValidationError("sort", e.ErrStatusBadRequest)
	}
}
