package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"plmsourcing/internal/common"
	"plmsourcing/internal/models"
	"plmsourcing/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VendorService interface {
	Create(ctx context.Context, input *models.VendorInput, actor string) (*models.Vendor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	List(ctx context.Context, limit, offset int) ([]*models.Vendor, error)
	Update(ctx context.Context, id uuid.UUID, input *models.VendorInput, expectedVersion int64, actor string) (*models.Vendor, error)
}

type vendorService struct {
	txm    repositories.TxManager
	logger *zap.Logger
}

func NewVendorService(txm repositories.TxManager, logger *zap.Logger) VendorService {
	return &vendorService{txm: txm, logger: logger}
}

func validateVendorInput(input *models.VendorInput) error {
	if input == nil {
		return common.NewInvalidArgument("Vendor payload is required.")
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return common.NewInvalidArgument("Vendor name is required.")
	}
	return nil
}

func (s *vendorService) Create(ctx context.Context, input *models.VendorInput, actor string) (*models.Vendor, error) {
	if err := validateVendorInput(input); err != nil {
		return nil, err
	}

	vendor := &models.Vendor{ID: uuid.New(), CreatedBy: actor, UpdatedBy: actor}
	input.Apply(vendor)

	err := runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		return repos.Vendors.Create(ctx, vendor)
	})
	if err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}
	s.logger.Info("vendor created", zap.String("vendor_id", vendor.ID.String()), zap.String("actor", actor))
	return vendor, nil
}

func (s *vendorService) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor *models.Vendor
	err := runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		var err error
		vendor, err = repos.Vendors.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFound(msgVendorNotFound)
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return vendor, nil
}

func (s *vendorService) List(ctx context.Context, limit, offset int) ([]*models.Vendor, error) {
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return nil, common.NewInvalidArgument(err.Error())
	}

	var vendors []*models.Vendor
	err = runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		var err error
		vendors, err = repos.Vendors.List(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return vendors, nil
}

func (s *vendorService) Update(ctx context.Context, id uuid.UUID, input *models.VendorInput, expectedVersion int64, actor string) (*models.Vendor, error) {
	if err := validateVendorInput(input); err != nil {
		return nil, err
	}

	var vendor *models.Vendor
	err := runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		var err error
		vendor, err = repos.Vendors.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return common.NewNotFound(msgVendorNotFound)
			}
			return fmt.Errorf("get vendor: %w", err)
		}
		return updateWithVersion[*models.Vendor](ctx, repos.Vendors, vendor, expectedVersion, func(v *models.Vendor) error {
			input.Apply(v)
			v.UpdatedBy = actor
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("vendor updated", zap.String("vendor_id", id.String()), zap.Int64("version", vendor.Version))
	return vendor, nil
}
