package handlers

import (
	"context"
	"io"

	"plmsourcing/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockSourcingLinkService struct {
	mock.Mock
}

func (m *MockSourcingLinkService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.SourcingLink, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SourcingLink), args.Error(1)
}

func (m *MockSourcingLinkService) Create(ctx context.Context, productID uuid.UUID, input *models.SourcingLinkInput, actor string) (*models.SourcingLink, error) {
	args := m.Called(ctx, productID, input, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SourcingLink), args.Error(1)
}

func (m *MockSourcingLinkService) Update(ctx context.Context, productID, linkID uuid.UUID, input *models.SourcingLinkInput, expectedVersion int64, actor string) (*models.SourcingLink, error) {
	args := m.Called(ctx, productID, linkID, input, expectedVersion, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SourcingLink), args.Error(1)
}

func (m *MockSourcingLinkService) Delete(ctx context.Context, productID, linkID uuid.UUID) (bool, error) {
	args := m.Called(ctx, productID, linkID)
	return args.Bool(0), args.Error(1)
}

type MockVendorQuoteService struct {
	mock.Mock
}

func (m *MockVendorQuoteService) ListByLink(ctx context.Context, productID, linkID uuid.UUID, filter models.QuoteFilter) ([]*models.VendorQuote, error) {
	args := m.Called(ctx, productID, linkID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.VendorQuote), args.Error(1)
}

func (m *MockVendorQuoteService) ListByProduct(ctx context.Context, productID uuid.UUID, filter models.QuoteFilter) ([]*models.VendorQuote, error) {
	args := m.Called(ctx, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.VendorQuote), args.Error(1)
}

func (m *MockVendorQuoteService) FindByID(ctx context.Context, productID, linkID, quoteID uuid.UUID, filter models.QuoteFilter) (*models.VendorQuote, error) {
	args := m.Called(ctx, productID, linkID, quoteID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorQuote), args.Error(1)
}

func (m *MockVendorQuoteService) Create(ctx context.Context, productID, linkID uuid.UUID, input *models.VendorQuoteInput, actor string) (*models.VendorQuote, error) {
	args := m.Called(ctx, productID, linkID, input, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorQuote), args.Error(1)
}

func (m *MockVendorQuoteService) Update(ctx context.Context, productID, linkID, quoteID uuid.UUID, input *models.VendorQuoteInput, expectedVersion int64) (*models.VendorQuote, error) {
	args := m.Called(ctx, productID, linkID, quoteID, input, expectedVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorQuote), args.Error(1)
}

func (m *MockVendorQuoteService) TransitionStatus(ctx context.Context, productID, linkID, quoteID uuid.UUID, change *models.QuoteStatusChange) (*models.VendorQuote, error) {
	args := m.Called(ctx, productID, linkID, quoteID, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorQuote), args.Error(1)
}

func (m *MockVendorQuoteService) SoftDelete(ctx context.Context, productID, linkID, quoteID uuid.UUID, actor string) (bool, error) {
	args := m.Called(ctx, productID, linkID, quoteID, actor)
	return args.Bool(0), args.Error(1)
}

type MockVendorService struct {
	mock.Mock
}

func (m *MockVendorService) Create(ctx context.Context, input *models.VendorInput, actor string) (*models.Vendor, error) {
	args := m.Called(ctx, input, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

func (m *MockVendorService) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

func (m *MockVendorService) List(ctx context.Context, limit, offset int) ([]*models.Vendor, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Vendor), args.Error(1)
}

func (m *MockVendorService) Update(ctx context.Context, id uuid.UUID, input *models.VendorInput, expectedVersion int64, actor string) (*models.Vendor, error) {
	args := m.Called(ctx, id, input, expectedVersion, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, name string, description *string) (*models.Product, error) {
	args := m.Called(ctx, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductService) UploadImage(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) (*models.Product, error) {
	args := m.Called(ctx, id, reader, size, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
