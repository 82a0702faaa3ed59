package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          int64      `db:"id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Price       int64      `db:"price"`
	Stock       int64      `db:"stock"`
	Barcode     string     `db:"barcode"`
	ServingSize float64    `db:"serving_size"`
	CategoryID  int64      `db:"category_id"`
	ImageKey    *string    `db:"image_key"`
	Calories    float64    `db:"calories"`
	Protein     float64    `db:"protein"`
	Carbs       float64    `db:"carbs"`
	TotalFat    float64    `db:"total_fat"`
	SatFat      float64    `db:"saturated_fat"`
	TotalSugar  float64    `db:"total_sugar"`
	AddedSugar  float64    `db:"added_sugar"`
	Sodium      float64    `db:"sodium"`
	Fiber       float64    `db:"fiber"`
	HighSodium  bool       `db:"high_sodium"`
	HighSugar   bool       `db:"high_sugar"`
	HighSatFat  bool       `db:"high_sat_fat"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// TagModel представляет запись одной из таблиц-справочников:
// ingredients, allergens или contamination_warnings.
type TagModel struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// OrderModel представляет запись таблицы orders в PostgreSQL.
type OrderModel struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

// OrderItemModel представляет запись таблицы order_items в PostgreSQL.
type OrderItemModel struct {
	ID          int64  `db:"id"`
	OrderID     int64  `db:"order_id"`
	ProductID   int64  `db:"product_id"`
	ProductName string `db:"product_name"`
	Quantity    int64  `db:"quantity"`
	UnitPrice   int64  `db:"unit_price"`
}

// UserModel представляет запись таблицы users в PostgreSQL.
type UserModel struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	OrderID     int64      `db:"order_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
