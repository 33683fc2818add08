package repositories

import (
	"context"
	"errors"

	"plmsourcing/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type VendorRepository interface {
	Create(ctx context.Context, vendor *models.Vendor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	List(ctx context.Context, limit, offset int) ([]*models.Vendor, error)
	Update(ctx context.Context, vendor *models.Vendor, expectedVersion int64) error
}

type vendorRepo struct {
	db DBTX
}

func NewVendorRepository(db DBTX) VendorRepository {
	return &vendorRepo{db: db}
}

const vendorColumns = `id, name, type, supplier_name, supplier_number, vendor_group, agreement_status, active, version, created_by, updated_by, created_at, updated_at`

func scanVendor(row pgx.Row) (*models.Vendor, error) {
	v := &models.Vendor{}
	err := row.Scan(&v.ID, &v.Name, &v.Type, &v.SupplierName, &v.SupplierNumber, &v.VendorGroup, &v.AgreementStatus, &v.Active, &v.Version, &v.CreatedBy, &v.UpdatedBy, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vendorRepo) Create(ctx context.Context, vendor *models.Vendor) error {
	query := `
		INSERT INTO vendors (id, name, type, supplier_name, supplier_number, vendor_group, agreement_status, active, version, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10, NOW(), NOW())
		RETURNING version, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, vendor.ID, vendor.Name, vendor.Type, vendor.SupplierName, vendor.SupplierNumber, vendor.VendorGroup, vendor.AgreementStatus, vendor.Active, vendor.CreatedBy, vendor.UpdatedBy).
		Scan(&vendor.Version, &vendor.CreatedAt, &vendor.UpdatedAt)
}

func (r *vendorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1`
	v, err := scanVendor(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

func (r *vendorRepo) List(ctx context.Context, limit, offset int) ([]*models.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors ORDER BY name, id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors := []*models.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// Update writes vendor only if the stored version still equals expectedVersion.
// On success vendor.Version and vendor.UpdatedAt are refreshed.
func (r *vendorRepo) Update(ctx context.Context, vendor *models.Vendor, expectedVersion int64) error {
	query := `
		UPDATE vendors
		SET name = $1, type = $2, supplier_name = $3, supplier_number = $4, vendor_group = $5,
			agreement_status = $6, active = $7, updated_by = $8, version = version + 1, updated_at = NOW()
		WHERE id = $9 AND version = $10
		RETURNING version, updated_at
	`
	err := r.db.QueryRow(ctx, query, vendor.Name, vendor.Type, vendor.SupplierName, vendor.SupplierNumber, vendor.VendorGroup, vendor.AgreementStatus, vendor.Active, vendor.UpdatedBy, vendor.ID, expectedVersion).
		Scan(&vendor.Version, &vendor.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStaleVersion
	}
	return err
}
