package converter

import (
	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// OrderConverter преобразует заказы и их позиции между domain и моделями PostgreSQL.
type OrderConverter interface {
	ToOrderEntity(model *OrderModel) *domain.Order
	ToItemEntity(model *OrderItemModel) *domain.OrderItem
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type ProductConverterImpl struct{}

func NewProductConverter() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	return &ProductModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       entity.Price,
		Stock:       entity.Stock,
		Barcode:     entity.Barcode,
		ServingSize: entity.ServingSize,
		CategoryID:  entity.CategoryID,
		ImageKey:    entity.ImageKey,
		Calories:    entity.Nutrition.Calories,
		Protein:     entity.Nutrition.Protein,
		Carbs:       entity.Nutrition.Carbs,
		TotalFat:    entity.Nutrition.TotalFat,
		SatFat:      entity.Nutrition.SaturatedFat,
		TotalSugar:  entity.Nutrition.TotalSugar,
		AddedSugar:  entity.Nutrition.AddedSugar,
		Sodium:      entity.Nutrition.Sodium,
		Fiber:       entity.Nutrition.Fiber,
		HighSodium:  entity.HighSodium,
		HighSugar:   entity.HighSugar,
		HighSatFat:  entity.HighSatFat,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

	return &domain.Product{
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
			Calories:     model.Calories,
			Protein:      model.Protein,
			Carbs:        model.Carbs,
			TotalFat:     model.TotalFat,
			SaturatedFat: model.SatFat,
			TotalSugar:   model.TotalSugar,
			AddedSugar:   model.AddedSugar,
			Sodium:       model.Sodium,
			Fiber:        model.Fiber,
		},
		HighSodium: model.HighSodium,
		HighSugar:  model.HighSugar,
		HighSatFat: model.HighSatFat,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

type OrderConverterImpl struct{}

func NewOrderConverter() *OrderConverterImpl {
	return &OrderConverterImpl{}
}

func (c *OrderConverterImpl) ToOrderEntity(model *OrderModel) *domain.Order {
	if model == nil {
		return nil
	}

	return &domain.Order{
		ID:        model.ID,
		UserID:    model.UserID,
		Status:    domain.OrderStatus(model.Status),
		CreatedAt: model.CreatedAt,
	}
}

func (c *OrderConverterImpl) ToItemEntity(model *OrderItemModel) *domain.OrderItem {
	if model == nil {
		return nil
	}

	return &domain.OrderItem{
		ID:          model.ID,
		OrderID:     model.OrderID,
		ProductID:   model.ProductID,
		ProductName: model.ProductName,
		Quantity:    model.Quantity,
		UnitPrice:   model.UnitPrice,
	}
}

type OutboxEventConverterImpl struct{}

func NewOutboxEventConverter() *OutboxEventConverterImpl {
	return &OutboxEventConverterImpl{}
}

func (c *OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}

	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		OrderID:     entity.OrderID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}

	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		OrderID:     model.OrderID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	if models == nil {
		return nil
	}

	entities := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		entities = append(entities, c.ToEntity(model))
	}

	return entities
}
