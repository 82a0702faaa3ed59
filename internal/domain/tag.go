package domain

// Именованные сущности-метки, привязываемые к продуктам через связи N:N.
// Используются исключающими фильтрами каталога.

// Ingredient — ингредиент продукта.
type Ingredient struct {
	ID   int64
	Name string
}

// Allergen — аллерген (например, глютен, лактоза).
type Allergen struct {
	ID   int64
	Name string
}

// ContaminationWarning — предупреждение о перекрёстной контаминации
// («может содержать следы глютена») либо маркировка вида "gluten-free".
type ContaminationWarning struct {
	ID   int64
	Name string
}

func NewIngredient(name string) *Ingredient {
	return &Ingredient{Name: name}
}

func NewAllergen(name string) *Allergen {
	return &Allergen{Name: name}
}

func NewContaminationWarning(name string) *ContaminationWarning {
	return &ContaminationWarning{Name: name}
}
