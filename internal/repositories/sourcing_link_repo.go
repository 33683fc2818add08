package repositories

import (
	"context"
	"errors"

	"plmsourcing/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SourcingLinkRepository interface {
	Create(ctx context.Context, link *models.SourcingLink) error
	GetByID(ctx context.Context, productID, linkID uuid.UUID) (*models.SourcingLink, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.SourcingLink, error)
	ExistsForVendor(ctx context.Context, productID, vendorID uuid.UUID) (bool, error)
	FindPrimary(ctx context.Context, productID uuid.UUID) (uuid.UUID, error)
	Update(ctx context.Context, link *models.SourcingLink, expectedVersion int64) error
	Delete(ctx context.Context, productID, linkID uuid.UUID) (bool, error)
}

type sourcingLinkRepo struct {
	db DBTX
}

func NewSourcingLinkRepository(db DBTX) SourcingLinkRepository {
	return &sourcingLinkRepo{db: db}
}

const sourcingLinkSelect = `
	SELECT l.id, l.product_id, l.vendor_id, v.name, l.primary_vendor, l.vsn, l.factory_name, l.factory_code,
		l.factory_country, l.sustainable, l.contact_name, l.contact_email, l.contact_phone, l.version,
		l.created_by, l.updated_by, l.created_at, l.updated_at
	FROM product_vendor_links l
	JOIN vendors v ON v.id = l.vendor_id
`

func scanSourcingLink(row pgx.Row) (*models.SourcingLink, error) {
	l := &models.SourcingLink{}
	err := row.Scan(&l.ID, &l.ProductID, &l.VendorID, &l.VendorName, &l.PrimaryVendor, &l.VSN, &l.FactoryName, &l.FactoryCode,
		&l.FactoryCountry, &l.Sustainable, &l.ContactName, &l.ContactEmail, &l.ContactPhone, &l.Version,
		&l.CreatedBy, &l.UpdatedBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *sourcingLinkRepo) Create(ctx context.Context, link *models.SourcingLink) error {
	query := `
		INSERT INTO product_vendor_links (id, product_id, vendor_id, primary_vendor, vsn, factory_name, factory_code, factory_country,
			sustainable, contact_name, contact_email, contact_phone, version, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, $13, $14, NOW(), NOW())
		RETURNING version, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, link.ID, link.ProductID, link.VendorID, link.PrimaryVendor, link.VSN, link.FactoryName, link.FactoryCode, link.FactoryCountry,
		link.Sustainable, link.ContactName, link.ContactEmail, link.ContactPhone, link.CreatedBy, link.UpdatedBy).
		Scan(&link.Version, &link.CreatedAt, &link.UpdatedAt)
}

func (r *sourcingLinkRepo) GetByID(ctx context.Context, productID, linkID uuid.UUID) (*models.SourcingLink, error) {
	query := sourcingLinkSelect + `WHERE l.id = $1 AND l.product_id = $2`
	link, err := scanSourcingLink(r.db.QueryRow(ctx, query, linkID, productID))
	if err != nil {
		return nil, notFound(err)
	}
	return link, nil
}

func (r *sourcingLinkRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.SourcingLink, error) {
	query := sourcingLinkSelect + `WHERE l.product_id = $1 ORDER BY l.created_at ASC, l.id`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []*models.SourcingLink{}
	for rows.Next() {
		link, err := scanSourcingLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *sourcingLinkRepo) ExistsForVendor(ctx context.Context, productID, vendorID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM product_vendor_links WHERE product_id = $1 AND vendor_id = $2)`
	if err := r.db.QueryRow(ctx, query, productID, vendorID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FindPrimary returns the id of the product's primary link, or ErrNotFound
func (r *sourcingLinkRepo) FindPrimary(ctx context.Context, productID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	query := `SELECT id FROM product_vendor_links WHERE product_id = $1 AND primary_vendor LIMIT 1`
	if err := r.db.QueryRow(ctx, query, productID).Scan(&id); err != nil {
		return uuid.Nil, notFound(err)
	}
	return id, nil
}

func (r *sourcingLinkRepo) Update(ctx context.Context, link *models.SourcingLink, expectedVersion int64) error {
	query := `
		UPDATE product_vendor_links
		SET primary_vendor = $1, vsn = $2, factory_name = $3, factory_code = $4, factory_country = $5, sustainable = $6,
			contact_name = $7, contact_email = $8, contact_phone = $9, updated_by = $10,
			version = version + 1, updated_at = NOW()
		WHERE id = $11 AND product_id = $12 AND version = $13
		RETURNING version, updated_at
	`
	err := r.db.QueryRow(ctx, query, link.PrimaryVendor, link.VSN, link.FactoryName, link.FactoryCode, link.FactoryCountry, link.Sustainable,
		link.ContactName, link.ContactEmail, link.ContactPhone, link.UpdatedBy, link.ID, link.ProductID, expectedVersion).
		Scan(&link.Version, &link.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStaleVersion
	}
	return err
}

func (r *sourcingLinkRepo) Delete(ctx context.Context, productID, linkID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM product_vendor_links WHERE id = $1 AND product_id = $2`, linkID, productID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
