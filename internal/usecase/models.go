package usecase

import (
	"time"

	"github.com/nutrimercado/go-backend/internal/domain"
)

// CATALOG USECASE

// ListProductsReq — запрос списка продуктов каталога.
type ListProductsReq struct {
	Filter ProductFilter
	Search string // свободный текстовый поиск по имени продукта и именам ингредиентов
	Sort   ProductSort
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// ProductRelations — списки ID связанных сущностей продукта.
type ProductRelations struct {
	IngredientIDs []int64
	AllergenIDs   []int64
	WarningIDs    []int64
}

// CreateProductReq — запрос на добавление продукта в каталог.
type CreateProductReq struct {
	Name        string
	Description string
	Price       int64 // сентаво
	Stock       int64
	Barcode     string
	ServingSize float64
	CategoryID  int64
	Nutrition   domain.Nutrition
	HighSodium  bool
	HighSugar   bool
	HighSatFat  bool
	Relations   ProductRelations
	Image       *ProductImage
}

// UpdateProductReq — запрос на обновление продукта.
type UpdateProductReq struct {
	ID int64
	CreateProductReq
}

// ORDER USECASE

// OrderLine — строка корзины: ссылка на продукт и количество.
type OrderLine struct {
	ProductID int64
	Quantity  int64
}

// PlaceOrderReq — запрос на оформление заказа из корзины.
type PlaceOrderReq struct {
	Lines []OrderLine
}

// AUTH USECASE

// Identity — аутентифицированный пользователь, передаётся в usecase явно.
type Identity struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

type RegisterReq struct {
	Username string
	Email    string
	Password string
}

type LoginReq struct {
	Username string
	Password string
}

// TokenPair — пара JWT-токенов, выдаваемая при входе и обновлении.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "PENDING"
	Processing OutboxStatus = "PROCESSING"
	Processed  OutboxStatus = "PROCESSED"
)

type OutboxEventType string

const (
	OrderPlacedEvent OutboxEventType = "order.placed"
)

// OutboxEvent — событие transactional outbox, публикуемое в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	OrderID     int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// WriteRawMessageReq — запрос на отправку готового payload в брокер.
type WriteRawMessageReq struct {
	OrderID int64
	Payload []byte
}

// MAPPERS

func NewOutboxEvent(eventID string, eventType OutboxEventType, orderID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		OrderID:   orderID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now(),
	}
}

func NewWriteRawMessageReq(orderID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		OrderID: orderID,
		Payload: payload,
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewIdentity(userID int64, username string, isAdmin bool) *Identity {
	return &Identity{
		UserID:   userID,
		Username: username,
		IsAdmin:  isAdmin,
	}
}
