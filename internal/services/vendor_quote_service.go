package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"plmsourcing/internal/common"
	"plmsourcing/internal/models"
	"plmsourcing/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgQuoteNotFound     = "Vendor quote not found."
	msgQuoteNotUnique    = "Quote number and version must be unique per vendor link."
	msgApprovedImmutable = "Approved quote cannot be updated."
	msgStatusRequired    = "Status payload is required."
)

// VendorQuoteService runs the quote lifecycle under a sourcing link
type VendorQuoteService interface {
	ListByLink(ctx context.Context, productID, linkID uuid.UUID, filter models.QuoteFilter) ([]*models.VendorQuote, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, filter models.QuoteFilter) ([]*models.VendorQuote, error)
	FindByID(ctx context.Context, productID, linkID, quoteID uuid.UUID, filter models.QuoteFilter) (*models.VendorQuote, error)
	Create(ctx context.Context, productID, linkID uuid.UUID, input *models.VendorQuoteInput, actor string) (*models.VendorQuote, error)
	Update(ctx context.Context, productID, linkID, quoteID uuid.UUID, input *models.VendorQuoteInput, expectedVersion int64) (*models.VendorQuote, error)
	TransitionStatus(ctx context.Context, productID, linkID, quoteID uuid.UUID, change *models.QuoteStatusChange) (*models.VendorQuote, error)
	SoftDelete(ctx context.Context, productID, linkID, quoteID uuid.UUID, actor string) (bool, error)
}

type vendorQuoteService struct {
	txm    repositories.TxManager
	logger *zap.Logger
	now    func() time.Time
}

func NewVendorQuoteService(txm repositories.TxManager, logger *zap.Logger) VendorQuoteService {
	return &vendorQuoteService{txm: txm, logger: logger, now: time.Now}
}

func (s *vendorQuoteService) ListByLink(ctx context.Context, productID, linkID uuid.UUID, filter models.QuoteFilter) ([]*models.VendorQuote, error) {
	var quotes []*models.VendorQuote
	err := runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		if err := requireProduct(ctx, repos, productID); err != nil {
			return err
		}
		if _, err := requireLink(ctx, repos, productID, linkID); err != nil {
			return err
		}
		var err error
		quotes, err = repos.Quotes.ListByLink(ctx, productID, linkID, filter.IncludeDeleted)
		return err
	})
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (s *vendorQuoteService) ListByProduct(ctx context.Context, productID uuid.UUID, filter models.QuoteFilter) ([]*models.VendorQuote, error) {
	var quotes []*models.VendorQuote
	err := runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		if err := requireProduct(ctx, repos, productID); err != nil {
			return err
		}
		var err error
		quotes, err = repos.Quotes.ListByProduct(ctx, productID, filter.IncludeDeleted)
		return err
	})
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (s *vendorQuoteService) FindByID(ctx context.Context, productID, linkID, quoteID uuid.UUID, filter models.QuoteFilter) (*models.VendorQuote, error) {
	var quote *models.VendorQuote
	err := runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		var err error
		quote, err = findQuote(ctx, repos, productID, linkID, quoteID, filter.IncludeDeleted)
		return err
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *vendorQuoteService) Create(ctx context.Context, productID, linkID uuid.UUID, input *models.VendorQuoteInput, actor string) (*models.VendorQuote, error) {
	if err := normalizeQuoteInput(input); err != nil {
		return nil, err
	}

	var quote *models.VendorQuote
	err := runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		if err := requireProduct(ctx, repos, productID); err != nil {
			return err
		}
		link, err := requireLink(ctx, repos, productID, linkID)
		if err != nil {
			return err
		}
		if err := ensureUniqueQuoteVersion(ctx, repos, linkID, input.QuoteNumber, input.VersionNumber, uuid.Nil); err != nil {
			return err
		}

		// creation is the submission event
		now := s.now().UTC()
		submittedBy := actor
		quote = &models.VendorQuote{
			ID:             uuid.New(),
			SourcingLinkID: link.ID,
			ProductID:      link.ProductID,
			VendorID:       link.VendorID,
			VendorName:     link.VendorName,
			Status:         models.QuoteStatusSubmitted,
			CreatedBy:      actor,
			SubmittedBy:    &submittedBy,
			SubmittedAt:    &now,
		}
		input.Apply(quote)

		if err := repos.Quotes.Create(ctx, quote); err != nil {
			return translateQuoteWriteError(err, "create vendor quote")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("vendor quote created",
		zap.String("product_id", productID.String()),
		zap.String("link_id", linkID.String()),
		zap.String("quote_id", quote.ID.String()),
		zap.String("quote_number", quote.QuoteNumber),
		zap.Int("version_number", quote.VersionNumber),
		zap.String("actor", actor),
	)
	return quote, nil
}

func (s *vendorQuoteService) Update(ctx context.Context, productID, linkID, quoteID uuid.UUID, input *models.VendorQuoteInput, expectedVersion int64) (*models.VendorQuote, error) {
	var quote *models.VendorQuote
	err := runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		var err error
		quote, err = findQuote(ctx, repos, productID, linkID, quoteID, false)
		if err != nil {
			return err
		}
		if quote.Status == models.QuoteStatusApproved {
			return common.NewInvalidArgument(msgApprovedImmutable)
		}

		err = updateWithVersion[*models.VendorQuote](ctx, repos.Quotes, quote, expectedVersion, func(q *models.VendorQuote) error {
			if err := normalizeQuoteInput(input); err != nil {
				return err
			}
			if err := ensureUniqueQuoteVersion(ctx, repos, linkID, input.QuoteNumber, input.VersionNumber, q.ID); err != nil {
				return err
			}
			input.Apply(q)
			return nil
		})
		return translateQuoteWriteError(err, "update vendor quote")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("vendor quote updated",
		zap.String("quote_id", quoteID.String()),
		zap.Int64("version", quote.Version),
	)
	return quote, nil
}

// TransitionStatus moves a quote through the approval workflow. The caller
// supplies no version; the write is guarded by the version read in the same
// transaction.
func (s *vendorQuoteService) TransitionStatus(ctx context.Context, productID, linkID, quoteID uuid.UUID, change *models.QuoteStatusChange) (*models.VendorQuote, error) {
	if change == nil || change.Status == "" {
		return nil, common.NewInvalidArgument(msgStatusRequired)
	}
	var (
		quote *models.VendorQuote
		from  models.QuoteStatus
	)
	err := runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		var err error
		quote, err = findQuote(ctx, repos, productID, linkID, quoteID, false)
		if err != nil {
			return err
		}
		from = quote.Status
		if _, ok := models.ParseQuoteStatus(string(change.Status)); !ok {
			return common.NewInvalidArgumentf("Unknown quote status %q.", change.Status)
		}

		now := s.now().UTC()
		if err := checkTransition(quote, change.Status, now); err != nil {
			return err
		}
		return updateWithVersion[*models.VendorQuote](ctx, repos.Quotes, quote, quote.Version, func(q *models.VendorQuote) error {
			applyTransition(q, change, now)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("vendor quote status changed",
		zap.String("quote_id", quoteID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(quote.Status)),
		zap.String("actor", change.Actor),
	)
	return quote, nil
}

func (s *vendorQuoteService) SoftDelete(ctx context.Context, productID, linkID, quoteID uuid.UUID, actor string) (bool, error) {
	found := false
	err := runInTx(ctx, s.txm, func(repos *repositories.Repositories) error {
		quote, err := repos.Quotes.GetByID(ctx, productID, linkID, quoteID, false)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get vendor quote: %w", err)
		}
		found = true

		now := s.now().UTC()
		deletedBy := actor
		return updateWithVersion[*models.VendorQuote](ctx, repos.Quotes, quote, quote.Version, func(q *models.VendorQuote) error {
			q.Deleted = true
			q.DeletedBy = &deletedBy
			q.DeletedAt = &now
			return nil
		})
	})
	if err != nil {
		return false, err
	}

	if found {
		s.logger.Info("vendor quote soft deleted", zap.String("quote_id", quoteID.String()), zap.String("actor", actor))
	}
	return found, nil
}

func findQuote(ctx context.Context, repos *repositories.Repositories, productID, linkID, quoteID uuid.UUID, includeDeleted bool) (*models.VendorQuote, error) {
	if err := requireProduct(ctx, repos, productID); err != nil {
		return nil, err
	}
	if _, err := requireLink(ctx, repos, productID, linkID); err != nil {
		return nil, err
	}
	quote, err := repos.Quotes.GetByID(ctx, productID, linkID, quoteID, includeDeleted)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFound(msgQuoteNotFound)
		}
		return nil, fmt.Errorf("get vendor quote: %w", err)
	}
	return quote, nil
}

// ensureUniqueQuoteVersion checks every quote of the link, soft-deleted ones included
func ensureUniqueQuoteVersion(ctx context.Context, repos *repositories.Repositories, linkID uuid.UUID, quoteNumber string, versionNumber int, current uuid.UUID) error {
	id, err := repos.Quotes.FindIDByNumberAndVersion(ctx, linkID, strings.TrimSpace(quoteNumber), versionNumber)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check quote uniqueness: %w", err)
	}
	if id != current {
		return common.NewInvalidArgument(msgQuoteNotUnique)
	}
	return nil
}

func translateQuoteWriteError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case repositories.UniqueViolation(err, repositories.ConstraintQuoteNumberVersion):
		return &common.AppError{Kind: common.KindInvalidArgument, Message: msgQuoteNotUnique, Err: err}
	case common.KindOf(err) != common.KindInternal:
		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
