package http

import (
	"time"

	"github.com/nutrimercado/go-backend/internal/domain"
)

// Ответные DTO каталога и заказов.

type ProductResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Price       int64             `json:"price"`
	Stock       int64             `json:"stock"`
	Barcode     string            `json:"barcode"`
	ServingSize float64           `json:"serving_size"`
	CategoryID  int64             `json:"category_id"`
	ImageKey    *string           `json:"image_key,omitempty"`
	Nutrition   NutritionResponse `json:"nutrition"`
	HighSodium  bool              `json:"high_sodium"`
	HighSugar   bool              `json:"high_sugar"`
	HighSatFat  bool              `json:"high_sat_fat"`
	Ingredients []TagResponse     `json:"ingredients"`
	Allergens   []TagResponse     `json:"allergens"`
	Warnings    []TagResponse     `json:"warnings"`
	CreatedAt   time.Time         `json:"created_at"`
}

type NutritionResponse struct {
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	TotalFat     float64 `json:"total_fat"`
	SaturatedFat float64 `json:"saturated_fat"`
	TotalSugar   float64 `json:"total_sugar"`
	AddedSugar   float64 `json:"added_sugar"`
	Sodium       float64 `json:"sodium"`
	Fiber        float64 `json:"fiber"`
}

type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type OrderResponse struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"user_id"`
	Status    string              `json:"status"`
	Total     int64               `json:"total"`
	Items     []OrderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
}

type OrderItemResponse struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Barcode:     p.Barcode,
		ServingSize: p.ServingSize,
		CategoryID:  p.CategoryID,
		ImageKey:    p.ImageKey,
		Nutrition: NutritionResponse{
			Calories:     p.Nutrition.Calories,
			Protein:      p.Nutrition.Protein,
			Carbs:        p.Nutrition.Carbs,
			TotalFat:     p.Nutrition.TotalFat,
			SaturatedFat: p.Nutrition.SaturatedFat,
			TotalSugar:   p.Nutrition.TotalSugar,
			AddedSugar:   p.Nutrition.AddedSugar,
			Sodium:       p.Nutrition.Sodium,
			Fiber:        p.Nutrition.Fiber,
		},
		HighSodium:  p.HighSodium,
		HighSugar:   p.HighSugar,
		HighSatFat:  p.HighSatFat,
		Ingredients: ingredientResponses(p.Ingredients),
		Allergens:   allergenResponses(p.Allergens),
		Warnings:    warningResponses(p.Warnings),
		CreatedAt:   p.CreatedAt,
	}
}

func toProductResponses(products []domain.Product) []ProductResponse {
	result := make([]ProductResponse, 0, len(products))
	for i := range products {
		result = append(result, toProductResponse(&products[i]))
	}

	return result
}

func toOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}

	return OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Status:    string(o.Status),
		Total:     o.Total(),
		Items:     items,
		CreatedAt: o.CreatedAt,
	}
}

func toOrderResponses(orders []domain.Order) []OrderResponse {
	result := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, toOrderResponse(&orders[i]))
	}

	return result
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	}
}

func ingredientResponses(items []domain.Ingredient) []TagResponse {
	result := make([]TagResponse, 0, len(items))
	for _, item := range items {
		result = append(result, TagResponse(item))
	}

	return result
}

func allergenResponses(items []domain.Allergen) []TagResponse {
	result := make([]TagResponse, 0, len(items))
	for _, item := range items {
		result = append(result, TagResponse(item))
	}

	return result
}

func warningResponses(items []domain.ContaminationWarning) []TagResponse {
	result := make([]TagResponse, 0, len(items))
	for _, item := range items {
		result = append(result, TagResponse(item))
	}

	return result
}
