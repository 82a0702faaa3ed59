package converter

import "time"

// ProductRedisModel — кэшируемое представление продукта со связями.
type ProductRedisModel struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       int64      `json:"price"`
	Stock       int64      `json:"stock"`
	Barcode     string     `json:"barcode"`
	ServingSize float64    `json:"serving_size"`
	CategoryID  int64      `json:"category_id"`
	ImageKey    *string    `json:"image_key,omitempty"`
	Nutrition   Nutrition  `json:"nutrition"`
	HighSodium  bool       `json:"high_sodium"`
	HighSugar   bool       `json:"high_sugar"`
	HighSatFat  bool       `json:"high_sat_fat"`
	Ingredients []Tag      `json:"ingredients"`
	Allergens   []Tag      `json:"allergens"`
	Warnings    []Tag      `json:"warnings"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type Nutrition struct {
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

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
