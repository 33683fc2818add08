package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"plmsourcing/internal/models"
	"plmsourcing/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore is an in-memory stand-in for the postgres schema. WithinTx is
// serialized and restores a snapshot when fn fails, so it behaves like a
// SERIALIZABLE transaction with the same unique constraints as the migrations.
type memStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]models.Product
	vendors  map[uuid.UUID]models.Vendor
	links    map[uuid.UUID]models.SourcingLink
	quotes   map[uuid.UUID]models.VendorQuote
	clock    time.Time
	writes   int
}

func newMemStore() *memStore {
	return &memStore{
		products: map[uuid.UUID]models.Product{},
		vendors:  map[uuid.UUID]models.Vendor{},
		links:    map[uuid.UUID]models.SourcingLink{},
		quotes:   map[uuid.UUID]models.VendorQuote{},
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(repos *repositories.Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	if err := fn(m.repos()); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *memStore) repos() *repositories.Repositories {
	return &repositories.Repositories{
		Products: memProducts{m},
		Vendors:  memVendors{m},
		Links:    memLinks{m},
		Quotes:   memQuotes{m},
	}
}

type memSnapshot struct {
	products map[uuid.UUID]models.Product
	vendors  map[uuid.UUID]models.Vendor
	links    map[uuid.UUID]models.SourcingLink
	quotes   map[uuid.UUID]models.VendorQuote
	writes   int
}

func (m *memStore) snapshot() memSnapshot {
	return memSnapshot{
		products: cloneMap(m.products),
		vendors:  cloneMap(m.vendors),
		links:    cloneMap(m.links),
		quotes:   cloneMap(m.quotes),
		writes:   m.writes,
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.products, m.vendors, m.links, m.quotes, m.writes = s.products, s.vendors, s.links, s.quotes, s.writes
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// tick returns strictly increasing timestamps so creation order is observable
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Millisecond)
	return m.clock
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// seeding helpers, used outside transactions

func (m *memStore) addProduct(name string) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	now := m.tick()
	m.products[id] = models.Product{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
	return id
}

func (m *memStore) addVendor(name string) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	now := m.tick()
	m.vendors[id] = models.Vendor{ID: id, Name: name, Active: true, CreatedBy: "seed", UpdatedBy: "seed", CreatedAt: now, UpdatedAt: now}
	return id
}

func (m *memStore) storedQuote(id uuid.UUID) (models.VendorQuote, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotes[id]
	return q, ok
}

func (m *memStore) storedLink(id uuid.UUID) (models.SourcingLink, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[id]
	return l, ok
}

func (m *memStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

type memProducts struct{ m *memStore }

func (r memProducts) Create(ctx context.Context, product *models.Product) error {
	now := r.m.tick()
	product.CreatedAt, product.UpdatedAt = now, now
	r.m.products[product.ID] = *product
	r.m.writes++
	return nil
}

func (r memProducts) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := r.m.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (r memProducts) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	out := []*models.Product{}
	for _, p := range r.m.products {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r memProducts) SetImageReference(ctx context.Context, id uuid.UUID, reference string) error {
	p, ok := r.m.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.ImageReference = &reference
	p.UpdatedAt = r.m.tick()
	r.m.products[id] = p
	r.m.writes++
	return nil
}

type memVendors struct{ m *memStore }

func (r memVendors) Create(ctx context.Context, vendor *models.Vendor) error {
	now := r.m.tick()
	vendor.Version, vendor.CreatedAt, vendor.UpdatedAt = 0, now, now
	r.m.vendors[vendor.ID] = *vendor
	r.m.writes++
	return nil
}

func (r memVendors) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	v, ok := r.m.vendors[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &v, nil
}

func (r memVendors) List(ctx context.Context, limit, offset int) ([]*models.Vendor, error) {
	out := []*models.Vendor{}
	for _, v := range r.m.vendors {
		v := v
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r memVendors) Update(ctx context.Context, vendor *models.Vendor, expectedVersion int64) error {
	stored, ok := r.m.vendors[vendor.ID]
	if !ok || stored.Version != expectedVersion {
		return repositories.ErrStaleVersion
	}
	vendor.Version = expectedVersion + 1
	vendor.UpdatedAt = r.m.tick()
	r.m.vendors[vendor.ID] = *vendor
	r.m.writes++
	return nil
}

type memLinks struct{ m *memStore }

func (r memLinks) hydrate(l models.SourcingLink) *models.SourcingLink {
	l.VendorName = r.m.vendors[l.VendorID].Name
	return &l
}

func (r memLinks) checkConstraints(link *models.SourcingLink) error {
	for _, other := range r.m.links {
		if other.ID == link.ID || other.ProductID != link.ProductID {
			continue
		}
		if other.VendorID == link.VendorID {
			return uniqueViolation(repositories.ConstraintLinkProductVendor)
		}
		if other.PrimaryVendor && link.PrimaryVendor {
			return uniqueViolation(repositories.ConstraintLinkPrimaryVendor)
		}
	}
	return nil
}

func (r memLinks) Create(ctx context.Context, link *models.SourcingLink) error {
	if err := r.checkConstraints(link); err != nil {
		return err
	}
	now := r.m.tick()
	link.Version, link.CreatedAt, link.UpdatedAt = 0, now, now
	r.m.links[link.ID] = *link
	r.m.writes++
	return nil
}

func (r memLinks) GetByID(ctx context.Context, productID, linkID uuid.UUID) (*models.SourcingLink, error) {
	l, ok := r.m.links[linkID]
	if !ok || l.ProductID != productID {
		return nil, repositories.ErrNotFound
	}
	return r.hydrate(l), nil
}

func (r memLinks) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.SourcingLink, error) {
	out := []*models.SourcingLink{}
	for _, l := range r.m.links {
		if l.ProductID == productID {
			out = append(out, r.hydrate(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memLinks) ExistsForVendor(ctx context.Context, productID, vendorID uuid.UUID) (bool, error) {
	for _, l := range r.m.links {
		if l.ProductID == productID && l.VendorID == vendorID {
			return true, nil
		}
	}
	return false, nil
}

func (r memLinks) FindPrimary(ctx context.Context, productID uuid.UUID) (uuid.UUID, error) {
	for _, l := range r.m.links {
		if l.ProductID == productID && l.PrimaryVendor {
			return l.ID, nil
		}
	}
	return uuid.Nil, repositories.ErrNotFound
}

func (r memLinks) Update(ctx context.Context, link *models.SourcingLink, expectedVersion int64) error {
	stored, ok := r.m.links[link.ID]
	if !ok || stored.ProductID != link.ProductID || stored.Version != expectedVersion {
		return repositories.ErrStaleVersion
	}
	if err := r.checkConstraints(link); err != nil {
		return err
	}
	link.Version = expectedVersion + 1
	link.UpdatedAt = r.m.tick()
	r.m.links[link.ID] = *link
	r.m.writes++
	return nil
}

func (r memLinks) Delete(ctx context.Context, productID, linkID uuid.UUID) (bool, error) {
	l, ok := r.m.links[linkID]
	if !ok || l.ProductID != productID {
		return false, nil
	}
	delete(r.m.links, linkID)
	r.m.writes++
	return true, nil
}

type memQuotes struct{ m *memStore }

// hydrate mirrors the join against product_vendor_links and vendors; quotes of
// a deleted link drop out
func (r memQuotes) hydrate(q models.VendorQuote) (*models.VendorQuote, bool) {
	link, ok := r.m.links[q.SourcingLinkID]
	if !ok {
		return nil, false
	}
	q.ProductID = link.ProductID
	q.VendorID = link.VendorID
	q.VendorName = r.m.vendors[link.VendorID].Name
	return &q, true
}

func (r memQuotes) checkConstraints(quote *models.VendorQuote) error {
	for _, other := range r.m.quotes {
		if other.ID != quote.ID && other.SourcingLinkID == quote.SourcingLinkID &&
			other.QuoteNumber == quote.QuoteNumber && other.VersionNumber == quote.VersionNumber {
			return uniqueViolation(repositories.ConstraintQuoteNumberVersion)
		}
	}
	return nil
}

func (r memQuotes) Create(ctx context.Context, quote *models.VendorQuote) error {
	if err := r.checkConstraints(quote); err != nil {
		return err
	}
	now := r.m.tick()
	quote.Version, quote.CreatedAt, quote.UpdatedAt = 0, now, now
	r.m.quotes[quote.ID] = *quote
	r.m.writes++
	return nil
}

func (r memQuotes) GetByID(ctx context.Context, productID, linkID, quoteID uuid.UUID, includeDeleted bool) (*models.VendorQuote, error) {
	q, ok := r.m.quotes[quoteID]
	if !ok || q.SourcingLinkID != linkID || (q.Deleted && !includeDeleted) {
		return nil, repositories.ErrNotFound
	}
	out, ok := r.hydrate(q)
	if !ok || out.ProductID != productID {
		return nil, repositories.ErrNotFound
	}
	return out, nil
}

func (r memQuotes) list(match func(q *models.VendorQuote) bool, includeDeleted bool) []*models.VendorQuote {
	out := []*models.VendorQuote{}
	for _, stored := range r.m.quotes {
		if stored.Deleted && !includeDeleted {
			continue
		}
		q, ok := r.hydrate(stored)
		if ok && match(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memQuotes) ListByLink(ctx context.Context, productID, linkID uuid.UUID, includeDeleted bool) ([]*models.VendorQuote, error) {
	return r.list(func(q *models.VendorQuote) bool {
		return q.SourcingLinkID == linkID && q.ProductID == productID
	}, includeDeleted), nil
}

func (r memQuotes) ListByProduct(ctx context.Context, productID uuid.UUID, includeDeleted bool) ([]*models.VendorQuote, error) {
	return r.list(func(q *models.VendorQuote) bool { return q.ProductID == productID }, includeDeleted), nil
}

func (r memQuotes) FindIDByNumberAndVersion(ctx context.Context, linkID uuid.UUID, quoteNumber string, versionNumber int) (uuid.UUID, error) {
	for _, q := range r.m.quotes {
		if q.SourcingLinkID == linkID && q.QuoteNumber == quoteNumber && q.VersionNumber == versionNumber {
			return q.ID, nil
		}
	}
	return uuid.Nil, repositories.ErrNotFound
}

func (r memQuotes) Update(ctx context.Context, quote *models.VendorQuote, expectedVersion int64) error {
	stored, ok := r.m.quotes[quote.ID]
	if !ok || stored.Version != expectedVersion {
		return repositories.ErrStaleVersion
	}
	if err := r.checkConstraints(quote); err != nil {
		return err
	}
	quote.Version = expectedVersion + 1
	quote.UpdatedAt = r.m.tick()
	r.m.quotes[quote.ID] = *quote
	r.m.writes++
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
