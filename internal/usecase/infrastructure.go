package usecase

import (
	"context"

	"github.com/nutrimercado/go-backend/internal/domain"
)

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// TokenManager выпускает и проверяет JWT-токены.
type TokenManager interface {
	GeneratePair(user *domain.User) (*TokenPair, error)
	ParseAccess(token string) (*Identity, error)
	ParseRefresh(token string) (int64, error)
}

// UploadImagesReq — запрос на загрузку изображений продукта.
type UploadImagesReq struct {
	Name   string
	Images []ProductImage
}

// UploadImagesRes — результат загрузки изображений (ключи в MinIO).
type UploadImagesRes struct {
	ImagesKeys []string
}

func NewUploadImagesReq(name string, images []ProductImage) *UploadImagesReq {
	return &UploadImagesReq{
		Name:   name,
		Images: images,
	}
}

func NewUploadImagesRes(imagesKeys []string) *UploadImagesRes {
	return &UploadImagesRes{
		ImagesKeys: imagesKeys,
	}
}
