package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidQuantity      = fmt.Errorf("quantity must be positive")
	ErrNegativeNutrition    = fmt.Errorf("nutrition values must be non-negative")
	ErrProductNameRequired  = fmt.Errorf("product name is required")
	ErrBarcodeRequired      = fmt.Errorf("barcode is required")
	ErrNameRequired         = fmt.Errorf("name is required")
	ErrEmptyCart            = fmt.Errorf("cart is empty")
	ErrTooManyImages        = fmt.Errorf("too many images")
	ErrNoImages             = fmt.Errorf("no images provided")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrInvalidStatus        = fmt.Errorf("invalid order status")

	// 401 / 403
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrForbidden          = fmt.Errorf("forbidden")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidToken       = fmt.Errorf("invalid token")

	// 404 Not Found
	ErrProductNotFound  = fmt.Errorf("product not found")
	ErrCategoryNotFound = fmt.Errorf("category not found")
	ErrOrderNotFound    = fmt.Errorf("order not found")
	ErrUserNotFound     = fmt.Errorf("user not found")

	// 409 Conflict
	ErrUserExists    = fmt.Errorf("username or email already registered")
	ErrBarcodeExists = fmt.Errorf("barcode already registered")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// ValidationError — ошибка валидации входного параметра фильтра или формы.
// Хранит имя поля, чтобы вернуть его клиенту в ответе 400.
type ValidationError struct {
	Field string
	Err   error
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for field %q: %v", v.Field, v.Err)
}

func (v *ValidationError) Unwrap() error {
	return v.Err
}

// NewValidationError создаёт ошибку валидации для указанного поля.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
