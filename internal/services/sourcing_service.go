package services

import (
	"context"
	"errors"
	"fmt"

	"plmsourcing/internal/common"
	"plmsourcing/internal/models"
	"plmsourcing/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgProductNotFound  = "Product not found."
	msgVendorNotFound   = "Vendor not found."
	msgVendorRequired   = "Vendor is required."
	msgLinkNotFound     = "Product vendor link not found."
	msgVendorLinked     = "Vendor is already linked to this product."
	msgPrimaryExclusive = "Only one primary vendor is allowed per product."
)

// SourcingLinkService manages which vendors source a product
type SourcingLinkService interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.SourcingLink, error)
	Create(ctx context.Context, productID uuid.UUID, input *models.SourcingLinkInput, actor string) (*models.SourcingLink, error)
	Update(ctx context.Context, productID, linkID uuid.UUID, input *models.SourcingLinkInput, expectedVersion int64, actor string) (*models.SourcingLink, error)
	Delete(ctx context.Context, productID, linkID uuid.UUID) (bool, error)
}

type sourcingLinkService struct {
	txm    repositories.TxManager
	logger *zap.Logger
}

func NewSourcingLinkService(txm repositories.TxManager, logger *zap.Logger) SourcingLinkService {
	return &sourcingLinkService{txm: txm, logger: logger}
}

func (s *sourcingLinkService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.SourcingLink, error) {
	var links []*models.SourcingLink
	err := runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		if err := requireProduct(ctx, repos, productID); err != nil {
			return err
		}
		var err error
		links, err = repos.Links.ListByProduct(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (s *sourcingLinkService) Create(ctx context.Context, productID uuid.UUID, input *models.SourcingLinkInput, actor string) (*models.SourcingLink, error) {
	var link *models.SourcingLink
	err := runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		if err := requireProduct(ctx, repos, productID); err != nil {
			return err
		}
		if input == nil || input.VendorID == uuid.Nil {
			return common.NewInvalidArgument(msgVendorRequired)
		}

		vendor, err := repos.Vendors.GetByID(ctx, input.VendorID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return common.NewNotFound(msgVendorNotFound)
			}
			return fmt.Errorf("get vendor: %w", err)
		}

		exists, err := repos.Links.ExistsForVendor(ctx, productID, vendor.ID)
		if err != nil {
			return fmt.Errorf("check existing link: %w", err)
		}
		if exists {
			return common.NewInvalidArgument(msgVendorLinked)
		}
		if input.PrimaryVendor {
			if err := ensureNoOtherPrimary(ctx, repos, productID, uuid.Nil); err != nil {
				return err
			}
		}

		link = &models.SourcingLink{
			ID:         uuid.New(),
			ProductID:  productID,
			VendorID:   vendor.ID,
			VendorName: vendor.Name,
			CreatedBy:  actor,
			UpdatedBy:  actor,
		}
		input.Apply(link)

		if err := repos.Links.Create(ctx, link); err != nil {
			return translateLinkWriteError(err, "create sourcing link")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sourcing link created",
		zap.String("product_id", productID.String()),
		zap.String("link_id", link.ID.String()),
		zap.String("vendor_id", link.VendorID.String()),
		zap.Bool("primary_vendor", link.PrimaryVendor),
		zap.String("actor", actor),
	)
	return link, nil
}

func (s *sourcingLinkService) Update(ctx context.Context, productID, linkID uuid.UUID, input *models.SourcingLinkInput, expectedVersion int64, actor string) (*models.SourcingLink, error) {
	var link *models.SourcingLink
	err := runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		var err error
		link, err = repos.Links.GetByID(ctx, productID, linkID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return common.NewNotFound(msgLinkNotFound)
			}
			return fmt.Errorf("get sourcing link: %w", err)
		}
		if input == nil {
			input = &models.SourcingLinkInput{}
		}

		err = updateWithVersion[*models.SourcingLink](ctx, repos.Links, link, expectedVersion, func(l *models.SourcingLink) error {
			if input.PrimaryVendor {
				if err := ensureNoOtherPrimary(ctx, repos, productID, l.ID); err != nil {
					return err
				}
			}
			input.Apply(l)
			l.UpdatedBy = actor
			return nil
		})
		return translateLinkWriteError(err, "update sourcing link")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sourcing link updated",
		zap.String("product_id", productID.String()),
		zap.String("link_id", linkID.String()),
		zap.Int64("version", link.Version),
		zap.String("actor", actor),
	)
	return link, nil
}

func (s *sourcingLinkService) Delete(ctx context.Context, productID, linkID uuid.UUID) (bool, error) {
	var found bool
	err := runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		var err error
		found, err = repos.Links.Delete(ctx, productID, linkID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete sourcing link: %w", err)
	}
	if found {
		s.logger.Info("sourcing link deleted", zap.String("product_id", productID.String()), zap.String("link_id", linkID.String()))
	}
	return found, nil
}

func requireProduct(ctx context.Context, repos *repositories.Repositories, productID uuid.UUID) error {
	if _, err := repos.Products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.NewNotFound(msgProductNotFound)
		}
		return fmt.Errorf("get product: %w", err)
	}
	return nil
}

func requireLink(ctx context.Context, repos *repositories.Repositories, productID, linkID uuid.UUID) (*models.SourcingLink, error) {
	link, err := repos.Links.GetByID(ctx, productID, linkID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFound(msgLinkNotFound)
		}
		return nil, fmt.Errorf("get sourcing link: %w", err)
	}
	return link, nil
}

// ensureNoOtherPrimary fails when a primary link other than current exists for the product
func ensureNoOtherPrimary(ctx context.Context, repos *repositories.Repositories, productID, current uuid.UUID) error {
	primaryID, err := repos.Links.FindPrimary(ctx, productID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find primary link: %w", err)
	}
	if primaryID != current {
		return common.NewInvalidArgument(msgPrimaryExclusive)
	}
	return nil
}

// translateLinkWriteError maps store-level constraint violations that slipped
// past the application checks onto the same caller-facing errors
func translateLinkWriteError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case repositories.UniqueViolation(err, repositories.ConstraintLinkProductVendor):
		return &common.AppError{Kind: common.KindInvalidArgument, Message: msgVendorLinked, Err: err}
	case repositories.UniqueViolation(err, repositories.ConstraintLinkPrimaryVendor):
		return &common.AppError{Kind: common.KindInvalidArgument, Message: msgPrimaryExclusive, Err: err}
	case common.KindOf(err) != common.KindInternal:
		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
