package converter

import (
	"github.com/nutrimercado/go-backend/internal/domain"
)

// ProductConverter преобразует продукты между domain и моделью Redis.
type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
	ToArrRedisModel(entities []domain.Product) []ProductRedisModel
}

type ProductConverterImpl struct{}

func NewProductConverter() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	if entity == nil {
		return nil
	}

	return &ProductRedisModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       entity.Price,
		Stock:       entity.Stock,
		Barcode:     entity.Barcode,
		ServingSize: entity.ServingSize,
		CategoryID:  entity.CategoryID,
		ImageKey:    entity.ImageKey,
		Nutrition: Nutrition{
			Calories:     entity.Nutrition.Calories,
			Protein:      entity.Nutrition.Protein,
			Carbs:        entity.Nutrition.Carbs,
			TotalFat:     entity.Nutrition.TotalFat,
			SaturatedFat: entity.Nutrition.SaturatedFat,
			TotalSugar:   entity.Nutrition.TotalSugar,
			AddedSugar:   entity.Nutrition.AddedSugar,
			Sodium:       entity.Nutrition.Sodium,
			Fiber:        entity.Nutrition.Fiber,
		},
		HighSodium:  entity.HighSodium,
		HighSugar:   entity.HighSugar,
		HighSatFat:  entity.HighSatFat,
		Ingredients: ingredientTags(entity.Ingredients),
		Allergens:   allergenTags(entity.Allergens),
		Warnings:    warningTags(entity.Warnings),
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductRedisModel) *domain.Product {
	if model == nil {
		return nil
	}

	product := &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Price:       model.Price,
		Stock:       model.Stock,
		Barcode:     model.Barcode,
		ServingSize: model.ServingSize,
		CategoryID:  model.CategoryID,
		ImageKey:    model.ImageKey,
		Nutrition: domain.Nutrition{
			Calories:     model.Nutrition.Calories,
			Protein:      model.Nutrition.Protein,
			Carbs:        model.Nutrition.Carbs,
			TotalFat:     model.Nutrition.TotalFat,
			SaturatedFat: model.Nutrition.SaturatedFat,
			TotalSugar:   model.Nutrition.TotalSugar,
			AddedSugar:   model.Nutrition.AddedSugar,
			Sodium:       model.Nutrition.Sodium,
			Fiber:        model.Nutrition.Fiber,
		},
		HighSodium: model.HighSodium,
		HighSugar:  model.HighSugar,
		HighSatFat: model.HighSatFat,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}

	for _, tag := range model.Ingredients {
		product.Ingredients = append(product.Ingredients, domain.Ingredient(tag))
	}
	for _, tag := range model.Allergens {
		product.Allergens = append(product.Allergens, domain.Allergen(tag))
	}
	for _, tag := range model.Warnings {
		product.Warnings = append(product.Warnings, domain.ContaminationWarning(tag))
	}

	return product
}

func (c *ProductConverterImpl) ToArrRedisModel(entities []domain.Product) []ProductRedisModel {
	models := make([]ProductRedisModel, 0, len(entities))
	for i := range entities {
		models = append(models, *c.ToRedisModel(&entities[i]))
	}

	return models
}

func ingredientTags(items []domain.Ingredient) []Tag {
	tags := make([]Tag, 0, len(items))
	for _, item := range items {
		tags = append(tags, Tag(item))
	}

	return tags
}

func allergenTags(items []domain.Allergen) []Tag {
	tags := make([]Tag, 0, len(items))
	for _, item := range items {
		tags = append(tags, Tag(item))
	}

	return tags
}

func warningTags(items []domain.ContaminationWarning) []Tag {
	tags := make([]Tag, 0, len(items))
	for _, item := range items {
		tags = append(tags, Tag(item))
	}

	return tags
}
