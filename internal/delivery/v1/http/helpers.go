package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/internal/usecase"
	"github.com/nutrimercado/go-backend/pkg/e"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest),
		errors.Is(err, e.ErrExpectedMultipart),
		errors.Is(err, e.ErrMissingFields),
		errors.Is(err, e.ErrInvalidPrice),
		errors.Is(err, e.ErrPricePrecision),
		errors.Is(err, e.ErrInvalidQuantity),
		errors.Is(err, e.ErrNegativeNutrition),
		errors.Is(err, e.ErrProductNameRequired),
		errors.Is(err, e.ErrBarcodeRequired),
		errors.Is(err, e.ErrNameRequired),
		errors.Is(err, e.ErrEmptyCart),
		errors.Is(err, e.ErrTooManyImages),
		errors.Is(err, e.ErrNoImages),
		errors.Is(err, e.ErrFileTooLarge),
		errors.Is(err, e.ErrUnsupportedMediaType),
		errors.Is(err, e.ErrInvalidStatus):
		return http.StatusBadRequest, unwrapMessage(err)
	case errors.Is(err, e.ErrUnauthorized),
		errors.Is(err, e.ErrInvalidToken),
		errors.Is(err, e.ErrInvalidCredentials):
		return http.StatusUnauthorized, unwrapMessage(err)
	case errors.Is(err, e.ErrForbidden):
		return http.StatusForbidden, e.ErrForbidden.Error()
	case errors.Is(err, e.ErrProductNotFound),
		errors.Is(err, e.ErrCategoryNotFound),
		errors.Is(err, e.ErrOrderNotFound),
		errors.Is(err, e.ErrUserNotFound):
		return http.StatusNotFound, unwrapMessage(err)
	case errors.Is(err, e.ErrUserExists),
		errors.Is(err, e.ErrBarcodeExists):
		return http.StatusConflict, unwrapMessage(err)
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

// unwrapMessage выдаёт клиенту текст доменной ошибки без внутренних префиксов.
func unwrapMessage(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}

func WriteError(w http.ResponseWriter, err error) {
	// Ошибка валидации несёт имя поля, возвращаем его клиенту
	var vErr *e.ValidationError
	if errors.As(err, &vErr) {
		resp := NewErrorResponse(http.StatusBadRequest, vErr.Err.Error())
		resp.Field = vErr.Field
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(resp)
		return
	}

	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
	}

	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.NewValidationError("id", e.ErrStatusBadRequest)
	}

	return id, nil
}

// parsePriceToCents конвертирует строку вида "599.99" или "600" в сентаво (int64).
// Отклоняет отрицательные цены, больше двух знаков после запятой и
// значения за разумным пределом.
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, e.ErrInvalidPrice
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000_000).Mul(decimal.NewFromInt(100))
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return 0, e.ErrPricePrecision
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0)

	return cents.IntPart(), nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

// parseProductForm разбирает multipart-форму продукта в запрос usecase.
// Изображение и связи необязательны.
func parseProductForm(r *http.Request) (*usecase.CreateProductReq, error) {
	name := r.FormValue("name")
	barcode := r.FormValue("barcode")
	priceStr := r.FormValue("price")
	categoryStr := r.FormValue("category_id")

	if name == "" || barcode == "" || priceStr == "" || categoryStr == "" {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrMissingFields)
	}

	price, err := parsePriceToCents(priceStr)
	if err != nil {
		return nil, err
	}

	categoryID, err := strconv.ParseInt(categoryStr, 10, 64)
	if err != nil {
		return nil, e.NewValidationError("category_id", e.ErrStatusBadRequest)
	}

	stock, err := formInt(r, "stock")
	if err != nil {
		return nil, err
	}

	servingSize, err := formFloat(r, "serving_size")
	if err != nil {
		return nil, err
	}

	nutrition, err := parseNutritionForm(r)
	if err != nil {
		return nil, err
	}

	highSodium, err := usecase.ParseBoolFlag("high_sodium", r.FormValue("high_sodium"))
	if err != nil {
		return nil, err
	}
	highSugar, err := usecase.ParseBoolFlag("high_sugar", r.FormValue("high_sugar"))
	if err != nil {
		return nil, err
	}
	highSatFat, err := usecase.ParseBoolFlag("high_sat_fat", r.FormValue("high_sat_fat"))
	if err != nil {
		return nil, err
	}

	req := &usecase.CreateProductReq{
		Name:        name,
		Description: r.FormValue("description"),
		Price:       price,
		Stock:       stock,
		Barcode:     barcode,
		ServingSize: servingSize,
		CategoryID:  categoryID,
		Nutrition:   *nutrition,
		HighSodium:  highSodium,
		HighSugar:   highSugar,
		HighSatFat:  highSatFat,
		Relations: usecase.ProductRelations{
			IngredientIDs: usecase.ParseIDList(r.FormValue("ingredient_ids")),
			AllergenIDs:   usecase.ParseIDList(r.FormValue("allergen_ids")),
			WarningIDs:    usecase.ParseIDList(r.FormValue("warning_ids")),
		},
	}

	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		image, err := parseImage(files[0])
		if err != nil {
			return nil, err
		}
		req.Image = image
	}

	return req, nil
}

func parseNutritionForm(r *http.Request) (*domain.Nutrition, error) {
	n := &domain.Nutrition{}

	fields := map[string]*float64{
		"calories":      &n.Calories,
		"protein":       &n.Protein,
		"carbs":         &n.Carbs,
		"total_fat":     &n.TotalFat,
		"saturated_fat": &n.SaturatedFat,
		"total_sugar":   &n.TotalSugar,
		"added_sugar":   &n.AddedSugar,
		"sodium":        &n.Sodium,
		"fiber":         &n.Fiber,
	}

	for name, dst := range fields {
		v, err := formFloat(r, name)
		if err != nil {
			return nil, err
		}
		*dst = v
	}

	return n, nil
}

func formInt(r *http.Request, field string) (int64, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, e.NewValidationError(field, e.ErrStatusBadRequest)
	}

	return v, nil
}

func formFloat(r *http.Request, field string) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, e.NewValidationError(field, e.ErrStatusBadRequest)
	}

	return v, nil
}

func parseImage(fh *multipart.FileHeader) (*usecase.ProductImage, error) {
	const maxFileSize = 15 << 20

	data, mimeType, err := readFile(fh, maxFileSize)
	if err != nil {
		return nil, err
	}

	return usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
