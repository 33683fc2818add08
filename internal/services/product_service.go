package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"plmsourcing/internal/common"
	"plmsourcing/internal/models"
	"plmsourcing/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrImageStorageDisabled is returned by image operations when no object store is configured
var ErrImageStorageDisabled = errors.New("image storage is not configured")

type ProductService interface {
	Create(ctx context.Context, name string, description *string) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
	UploadImage(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) (*models.Product, error)
}

type productService struct {
	productRepo   repositories.ProductRepository
	minioService  MinioService
	presignExpiry time.Duration
	logger        *zap.Logger
}

// NewProductService creates a product service. minioService may be nil, in
// which case image upload is unavailable and no image URLs are produced.
func NewProductService(productRepo repositories.ProductRepository, minioService MinioService, presignExpiry time.Duration, logger *zap.Logger) ProductService {
	return &productService{
		productRepo:   productRepo,
		minioService:  minioService,
		presignExpiry: presignExpiry,
		logger:        logger,
	}
}

// ProductImageObjectName is the object key of a product's image
func ProductImageObjectName(productID uuid.UUID) string {
	return fmt.Sprintf("products/%s/image.bin", productID)
}

func (s *productService) Create(ctx context.Context, name string, description *string) (*models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewInvalidArgument("Product name is required.")
	}

	product := &models.Product{ID: uuid.New(), Name: name, Description: description}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.logger.Info("product created", zap.String("product_id", product.ID.String()))
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFound(msgProductNotFound)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	s.attachImageURL(ctx, product)
	return product, nil
}

func (s *productService) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return nil, common.NewInvalidArgument(err.Error())
	}
	products, err := s.productRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *productService) UploadImage(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) (*models.Product, error) {
	if s.minioService == nil {
		return nil, ErrImageStorageDisabled
	}
	if size <= 0 {
		return nil, common.NewInvalidArgument("Image payload is required.")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFound(msgProductNotFound)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	objectName := ProductImageObjectName(id)
	if err := s.minioService.UploadObject(ctx, objectName, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("upload product image: %w", err)
	}
	if err := s.productRepo.SetImageReference(ctx, id, objectName); err != nil {
		// product vanished after the upload; do not leave the object behind
		if delErr := s.minioService.DeleteObject(ctx, objectName); delErr != nil {
			s.logger.Warn("remove orphaned product image failed", zap.String("object", objectName), zap.Error(delErr))
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFound(msgProductNotFound)
		}
		return nil, fmt.Errorf("store image reference: %w", err)
	}

	product.ImageReference = &objectName
	s.attachImageURL(ctx, product)
	s.logger.Info("product image stored", zap.String("product_id", id.String()), zap.Int64("size", size))
	return product, nil
}

func (s *productService) attachImageURL(ctx context.Context, product *models.Product) {
	if s.minioService == nil || product.ImageReference == nil {
		return
	}
	url, err := s.minioService.GetPresignedURL(ctx, *product.ImageReference, s.presignExpiry)
	if err != nil {
		s.logger.Warn("presign product image failed", zap.String("product_id", product.ID.String()), zap.Error(err))
		return
	}
	product.ImageURL = &url
}
