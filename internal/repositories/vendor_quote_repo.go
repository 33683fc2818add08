package repositories

import (
	"context"
	"errors"

	"plmsourcing/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type VendorQuoteRepository interface {
	Create(ctx context.Context, quote *models.VendorQuote) error
	GetByID(ctx context.Context, productID, linkID, quoteID uuid.UUID, includeDeleted bool) (*models.VendorQuote, error)
	ListByLink(ctx context.Context, productID, linkID uuid.UUID, includeDeleted bool) ([]*models.VendorQuote, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, includeDeleted bool) ([]*models.VendorQuote, error)
	// FindIDByNumberAndVersion searches every quote of the link, soft-deleted ones included
	FindIDByNumberAndVersion(ctx context.Context, linkID uuid.UUID, quoteNumber string, versionNumber int) (uuid.UUID, error)
	Update(ctx context.Context, quote *models.VendorQuote, expectedVersion int64) error
}

type vendorQuoteRepo struct {
	db DBTX
}

func NewVendorQuoteRepository(db DBTX) VendorQuoteRepository {
	return &vendorQuoteRepo{db: db}
}

const vendorQuoteSelect = `
	SELECT q.id, q.sourcing_link_id, l.product_id, l.vendor_id, v.name,
		q.quote_number, q.version_number, q.currency_code, q.incoterm, q.unit_cost, q.moq, q.lead_time_days,
		q.sample_lead_time_days, q.material_cost, q.labor_cost, q.overhead_cost, q.logistics_cost, q.duty_cost,
		q.packaging_cost, q.margin_percent, q.total_cost, q.capacity_per_month, q.payment_terms,
		q.valid_from, q.valid_to, q.compliance_notes, q.sustainability_notes, q.status, q.created_by,
		q.submitted_by, q.submitted_at, q.reviewed_by, q.reviewed_at, q.approval_comment,
		q.deleted, q.deleted_by, q.deleted_at, q.version, q.created_at, q.updated_at
	FROM vendor_quotes q
	JOIN product_vendor_links l ON l.id = q.sourcing_link_id
	JOIN vendors v ON v.id = l.vendor_id
`

func scanVendorQuote(row pgx.Row) (*models.VendorQuote, error) {
	q := &models.VendorQuote{}
	var status string
	var material, labor, overhead, logistics, duty, packaging, margin, total decimal.NullDecimal
	err := row.Scan(&q.ID, &q.SourcingLinkID, &q.ProductID, &q.VendorID, &q.VendorName,
		&q.QuoteNumber, &q.VersionNumber, &q.CurrencyCode, &q.Incoterm, &q.UnitCost, &q.MOQ, &q.LeadTimeDays,
		&q.SampleLeadTimeDays, &material, &labor, &overhead, &logistics, &duty,
		&packaging, &margin, &total, &q.CapacityPerMonth, &q.PaymentTerms,
		&q.ValidFrom, &q.ValidTo, &q.ComplianceNotes, &q.SustainabilityNotes, &status, &q.CreatedBy,
		&q.SubmittedBy, &q.SubmittedAt, &q.ReviewedBy, &q.ReviewedAt, &q.ApprovalComment,
		&q.Deleted, &q.DeletedBy, &q.DeletedAt, &q.Version, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	q.Status = models.QuoteStatus(status)
	q.MaterialCost = decimalPtr(material)
	q.LaborCost = decimalPtr(labor)
	q.OverheadCost = decimalPtr(overhead)
	q.LogisticsCost = decimalPtr(logistics)
	q.DutyCost = decimalPtr(duty)
	q.PackagingCost = decimalPtr(packaging)
	q.MarginPercent = decimalPtr(margin)
	q.TotalCost = decimalPtr(total)
	return q, nil
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func (r *vendorQuoteRepo) Create(ctx context.Context, quote *models.VendorQuote) error {
	query := `
		INSERT INTO vendor_quotes (id, sourcing_link_id, quote_number, version_number, currency_code, incoterm, unit_cost, moq,
			lead_time_days, sample_lead_time_days, material_cost, labor_cost, overhead_cost, logistics_cost, duty_cost,
			packaging_cost, margin_percent, total_cost, capacity_per_month, payment_terms, valid_from, valid_to,
			compliance_notes, sustainability_notes, status, created_by, submitted_by, submitted_at, approval_comment,
			deleted, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22,
			$23, $24, $25, $26, $27, $28, $29, FALSE, 0, NOW(), NOW())
		RETURNING version, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, quote.ID, quote.SourcingLinkID, quote.QuoteNumber, quote.VersionNumber, quote.CurrencyCode, quote.Incoterm, quote.UnitCost, quote.MOQ,
		quote.LeadTimeDays, quote.SampleLeadTimeDays, quote.MaterialCost, quote.LaborCost, quote.OverheadCost, quote.LogisticsCost, quote.DutyCost,
		quote.PackagingCost, quote.MarginPercent, quote.TotalCost, quote.CapacityPerMonth, quote.PaymentTerms, quote.ValidFrom, quote.ValidTo,
		quote.ComplianceNotes, quote.SustainabilityNotes, string(quote.Status), quote.CreatedBy, quote.SubmittedBy, quote.SubmittedAt, quote.ApprovalComment).
		Scan(&quote.Version, &quote.CreatedAt, &quote.UpdatedAt)
}

func (r *vendorQuoteRepo) GetByID(ctx context.Context, productID, linkID, quoteID uuid.UUID, includeDeleted bool) (*models.VendorQuote, error) {
	query := vendorQuoteSelect + `WHERE q.id = $1 AND q.sourcing_link_id = $2 AND l.product_id = $3 AND ($4 OR NOT q.deleted)`
	quote, err := scanVendorQuote(r.db.QueryRow(ctx, query, quoteID, linkID, productID, includeDeleted))
	if err != nil {
		return nil, notFound(err)
	}
	return quote, nil
}

func (r *vendorQuoteRepo) ListByLink(ctx context.Context, productID, linkID uuid.UUID, includeDeleted bool) ([]*models.VendorQuote, error) {
	query := vendorQuoteSelect + `WHERE q.sourcing_link_id = $1 AND l.product_id = $2 AND ($3 OR NOT q.deleted) ORDER BY q.created_at DESC, q.id`
	return r.list(ctx, query, linkID, productID, includeDeleted)
}

func (r *vendorQuoteRepo) ListByProduct(ctx context.Context, productID uuid.UUID, includeDeleted bool) ([]*models.VendorQuote, error) {
	query := vendorQuoteSelect + `WHERE l.product_id = $1 AND ($2 OR NOT q.deleted) ORDER BY q.created_at DESC, q.id`
	return r.list(ctx, query, productID, includeDeleted)
}

func (r *vendorQuoteRepo) list(ctx context.Context, query string, args ...any) ([]*models.VendorQuote, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := []*models.VendorQuote{}
	for rows.Next() {
		quote, err := scanVendorQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, rows.Err()
}

func (r *vendorQuoteRepo) FindIDByNumberAndVersion(ctx context.Context, linkID uuid.UUID, quoteNumber string, versionNumber int) (uuid.UUID, error) {
	var id uuid.UUID
	query := `SELECT id FROM vendor_quotes WHERE sourcing_link_id = $1 AND quote_number = $2 AND version_number = $3`
	if err := r.db.QueryRow(ctx, query, linkID, quoteNumber, versionNumber).Scan(&id); err != nil {
		return uuid.Nil, notFound(err)
	}
	return id, nil
}

// Update writes every stored column of quote, guarded by expectedVersion.
// Field edits, status transitions and soft deletes all go through here.
func (r *vendorQuoteRepo) Update(ctx context.Context, quote *models.VendorQuote, expectedVersion int64) error {
	query := `
		UPDATE vendor_quotes
		SET quote_number = $1, version_number = $2, currency_code = $3, incoterm = $4, unit_cost = $5, moq = $6,
			lead_time_days = $7, sample_lead_time_days = $8, material_cost = $9, labor_cost = $10, overhead_cost = $11,
			logistics_cost = $12, duty_cost = $13, packaging_cost = $14, margin_percent = $15, total_cost = $16,
			capacity_per_month = $17, payment_terms = $18, valid_from = $19, valid_to = $20, compliance_notes = $21,
			sustainability_notes = $22, status = $23, submitted_by = $24, submitted_at = $25, reviewed_by = $26,
			reviewed_at = $27, approval_comment = $28, deleted = $29, deleted_by = $30, deleted_at = $31,
			version = version + 1, updated_at = NOW()
		WHERE id = $32 AND version = $33
		RETURNING version, updated_at
	`
	err := r.db.QueryRow(ctx, query, quote.QuoteNumber, quote.VersionNumber, quote.CurrencyCode, quote.Incoterm, quote.UnitCost, quote.MOQ,
		quote.LeadTimeDays, quote.SampleLeadTimeDays, quote.MaterialCost, quote.LaborCost, quote.OverheadCost,
		quote.LogisticsCost, quote.DutyCost, quote.PackagingCost, quote.MarginPercent, quote.TotalCost,
		quote.CapacityPerMonth, quote.PaymentTerms, quote.ValidFrom, quote.ValidTo, quote.ComplianceNotes,
		quote.SustainabilityNotes, string(quote.Status), quote.SubmittedBy, quote.SubmittedAt, quote.ReviewedBy,
		quote.ReviewedAt, quote.ApprovalComment, quote.Deleted, quote.DeletedBy, quote.DeletedAt,
		quote.ID, expectedVersion).
		Scan(&quote.Version, &quote.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStaleVersion
	}
	return err
}
