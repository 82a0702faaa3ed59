package usecase

import (
	"context"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/pkg/e"
	"github.com/nutrimercado/go-backend/pkg/logger"
)

// CatalogUseCase реализует бизнес-логику каталога: фильтрацию продуктов,
// кэшируемое чтение и административное управление.
type CatalogUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	tagRepo      TagRepository
	dbPool       transaction.Transactional
	imagesInfra  ImagesInfra
	cacheRepo    CacheRepository
	logger       logger.Logger
}

func NewCatalogUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	tagRepo TagRepository,
	dbPool transaction.Transactional,
	imagesInfra ImagesInfra,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		dbPool:       dbPool,
		imagesInfra:  imagesInfra,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

// ListProducts возвращает продукты, удовлетворяющие конъюнкции всех заданных
// фильтров. Репозиторий выполняет текстовый поиск и сортировку, набор
// предикатов применяется к полученной коллекции.
func (c *CatalogUseCase) ListProducts(ctx context.Context, req *ListProductsReq) ([]domain.Product, error) {
	const op = "CatalogUseCase.ListProducts"

	products, err := c.productRepo.Search(ctx, req.Search, req.Sort)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return req.Filter.Apply(products), nil
}

// GetProduct возвращает продукт по ID, сперва заглядывая в кэш.
func (c *CatalogUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "CatalogUseCase.GetProduct"

	cached, err := c.cacheRepo.GetProducts(ctx, []int64{id})
	if err == nil {
		if product, ok := cached[id]; ok {
			return &product, nil
		}
	}

	product, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление продукта в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := c.cacheRepo.SetProducts(bgCtx, []domain.Product{*product}); err != nil {
			c.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return product, nil
}

// CreateProduct добавляет продукт с изображением и связями в одной транзакции.
// При ошибке транзакция откатывается, а уже загруженное изображение удаляется.
func (c *CatalogUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.CreateProduct"

	var err error
	if err = c.validateProduct(&req.Name, &req.Barcode, req.Price, req.Stock, &req.Nutrition); err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		imagesRes *UploadImagesRes
		uploaded  bool
	)

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// Если произошла ошибка, происходит Rollback транзакции и очистка загруженного изображения
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if uploaded && imagesRes != nil {
				c.logger.Warnf(
					"Cleaning up orphaned image after transaction failure. product_name: %s, error: %v",
					req.Name,
					e.Wrap(op, err),
				)

				c.imagesInfra.CleanupImages(imagesRes.ImagesKeys)
			}
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	product := c.buildProduct(0, req)

	if req.Image != nil {
		imagesRes, err = c.imagesInfra.UploadImages(ctx, NewUploadImagesReq(req.Name, []ProductImage{*req.Image}))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		uploaded = true
		product.ImageKey = &imagesRes.ImagesKeys[0]
	}

	created, err := c.productRepo.Create(ctx, product, &req.Relations)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := c.cacheRepo.DeleteProducts(ctx, []int64{created.ID}); err != nil {
		c.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	return created, nil
}

// UpdateProduct обновляет продукт и его связи; старое изображение удаляется
// только после успешного коммита.
func (c *CatalogUseCase) UpdateProduct(ctx context.Context, req *UpdateProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.UpdateProduct"

	var err error
	if err = c.validateProduct(&req.Name, &req.Barcode, req.Price, req.Stock, &req.Nutrition); err != nil {
		return nil, e.Wrap(op, err)
	}

	current, err := c.productRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		imagesRes *UploadImagesRes
		uploaded  bool
	)

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if uploaded && imagesRes != nil {
				c.imagesInfra.CleanupImages(imagesRes.ImagesKeys)
			}
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	product := c.buildProduct(req.ID, &req.CreateProductReq)
	product.ImageKey = current.ImageKey

	if req.Image != nil {
		imagesRes, err = c.imagesInfra.UploadImages(ctx, NewUploadImagesReq(req.Name, []ProductImage{*req.Image}))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		uploaded = true
		product.ImageKey = &imagesRes.ImagesKeys[0]
	}

	updated, err := c.productRepo.Update(ctx, product, &req.Relations)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Старое изображение больше не нужно
	if req.Image != nil && current.ImageKey != nil {
		c.imagesInfra.CleanupImages([]string{*current.ImageKey})
	}

	if err := c.cacheRepo.DeleteProducts(ctx, []int64{updated.ID}); err != nil {
		c.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	return updated, nil
}

// DeleteProduct удаляет продукт, его кэш и изображение.
func (c *CatalogUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "CatalogUseCase.DeleteProduct"

	product, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := c.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err := c.cacheRepo.DeleteProducts(ctx, []int64{id}); err != nil {
		c.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	if product.ImageKey != nil {
		c.imagesInfra.CleanupImages([]string{*product.ImageKey})
	}

	return nil
}

func (c *CatalogUseCase) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, e.ErrNameRequired
	}
	return c.categoryRepo.Create(ctx, domain.NewCategory(name))
}

func (c *CatalogUseCase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return c.categoryRepo.List(ctx)
}

func (c *CatalogUseCase) CreateIngredient(ctx context.Context, name string) (*domain.Ingredient, error) {
	if strings.TrimSpace(name) == "" {
		return nil, e.ErrNameRequired
	}
	return c.tagRepo.CreateIngredient(ctx, domain.NewIngredient(name))
}

func (c *CatalogUseCase) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	return c.tagRepo.ListIngredients(ctx)
}

func (c *CatalogUseCase) CreateAllergen(ctx context.Context, name string) (*domain.Allergen, error) {
	if strings.TrimSpace(name) == "" {
		return nil, e.ErrNameRequired
	}
	return c.tagRepo.CreateAllergen(ctx, domain.NewAllergen(name))
}

func (c *CatalogUseCase) ListAllergens(ctx context.Context) ([]domain.Allergen, error) {
	return c.tagRepo.ListAllergens(ctx)
}

func (c *CatalogUseCase) CreateWarning(ctx context.Context, name string) (*domain.ContaminationWarning, error) {
	if strings.TrimSpace(name) == "" {
		return nil, e.ErrNameRequired
	}
	return c.tagRepo.CreateWarning(ctx, domain.NewContaminationWarning(name))
}

func (c *CatalogUseCase) ListWarnings(ctx context.Context) ([]domain.ContaminationWarning, error) {
	return c.tagRepo.ListWarnings(ctx)
}

// buildProduct собирает доменную модель продукта из запроса.
func (c *CatalogUseCase) buildProduct(id int64, req *CreateProductReq) *domain.Product {
	product := domain.NewProduct(req.Name, req.Price, req.CategoryID)
	product.ID = id
	product.Description = req.Description
	product.Stock = req.Stock
	product.Barcode = req.Barcode
	product.ServingSize = req.ServingSize
	product.Nutrition = req.Nutrition
	product.HighSodium = req.HighSodium
	product.HighSugar = req.HighSugar
	product.HighSatFat = req.HighSatFat

	return product
}

// validateProduct проверяет корректность входных данных продукта.
func (c *CatalogUseCase) validateProduct(name, barcode *string, price, stock int64, n *domain.Nutrition) error {
	if strings.TrimSpace(*name) == "" {
		return e.ErrProductNameRequired
	}

	if strings.TrimSpace(*barcode) == "" {
		return e.ErrBarcodeRequired
	}

	if price <= 0 {
		return e.ErrInvalidPrice
	}

	if stock < 0 {
		return e.NewValidationError("stock", e.ErrInvalidQuantity)
	}

	values := []float64{
		n.Calories, n.Protein, n.Carbs, n.TotalFat, n.SaturatedFat,
		n.TotalSugar, n.AddedSugar, n.Sodium, n.Fiber,
	}
	for _, v := range values {
		if v < 0 {
			return e.ErrNegativeNutrition
		}
	}

	return nil
}
