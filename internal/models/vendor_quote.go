package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type QuoteStatus string

const (
	QuoteStatusDraft       QuoteStatus = "DRAFT"
	QuoteStatusSubmitted   QuoteStatus = "SUBMITTED"
	QuoteStatusUnderReview QuoteStatus = "UNDER_REVIEW"
	QuoteStatusApproved    QuoteStatus = "APPROVED"
	QuoteStatusRejected    QuoteStatus = "REJECTED"
)

// ParseQuoteStatus accepts the canonical upper-case names
func ParseQuoteStatus(s string) (QuoteStatus, bool) {
	switch st := QuoteStatus(s); st {
	case QuoteStatusDraft, QuoteStatusSubmitted, QuoteStatusUnderReview, QuoteStatusApproved, QuoteStatusRejected:
		return st, true
	}
	return "", false
}

// VendorQuote is a costed proposal submitted against a sourcing link.
// VersionNumber is the vendor's own revision number; Version is the
// optimistic-lock counter.
type VendorQuote struct {
	ID                  uuid.UUID        `json:"id" db:"id"`
	SourcingLinkID      uuid.UUID        `json:"sourcing_link_id" db:"sourcing_link_id"`
	ProductID           uuid.UUID        `json:"product_id" db:"product_id"`
	VendorID            uuid.UUID        `json:"vendor_id" db:"vendor_id"`
	VendorName          string           `json:"vendor_name" db:"vendor_name"`
	QuoteNumber         string           `json:"quote_number" db:"quote_number"`
	VersionNumber       int              `json:"version_number" db:"version_number"`
	CurrencyCode        string           `json:"currency_code" db:"currency_code"`
	Incoterm            *string          `json:"incoterm" db:"incoterm"`
	UnitCost            decimal.Decimal  `json:"unit_cost" db:"unit_cost"`
	MOQ                 int              `json:"moq" db:"moq"`
	LeadTimeDays        int              `json:"lead_time_days" db:"lead_time_days"`
	SampleLeadTimeDays  *int             `json:"sample_lead_time_days" db:"sample_lead_time_days"`
	MaterialCost        *decimal.Decimal `json:"material_cost" db:"material_cost"`
	LaborCost           *decimal.Decimal `json:"labor_cost" db:"labor_cost"`
	OverheadCost        *decimal.Decimal `json:"overhead_cost" db:"overhead_cost"`
	LogisticsCost       *decimal.Decimal `json:"logistics_cost" db:"logistics_cost"`
	DutyCost            *decimal.Decimal `json:"duty_cost" db:"duty_cost"`
	PackagingCost       *decimal.Decimal `json:"packaging_cost" db:"packaging_cost"`
	MarginPercent       *decimal.Decimal `json:"margin_percent" db:"margin_percent"`
	TotalCost           *decimal.Decimal `json:"total_cost" db:"total_cost"`
	CapacityPerMonth    *int             `json:"capacity_per_month" db:"capacity_per_month"`
	PaymentTerms        *string          `json:"payment_terms" db:"payment_terms"`
	ValidFrom           *time.Time       `json:"valid_from" db:"valid_from"`
	ValidTo             *time.Time       `json:"valid_to" db:"valid_to"`
	ComplianceNotes     *string          `json:"compliance_notes" db:"compliance_notes"`
	SustainabilityNotes *string          `json:"sustainability_notes" db:"sustainability_notes"`
	Status              QuoteStatus      `json:"status" db:"status"`
	CreatedBy           string           `json:"created_by" db:"created_by"`
	SubmittedBy         *string          `json:"submitted_by" db:"submitted_by"`
	SubmittedAt         *time.Time       `json:"submitted_at" db:"submitted_at"`
	ReviewedBy          *string          `json:"reviewed_by" db:"reviewed_by"`
	ReviewedAt          *time.Time       `json:"reviewed_at" db:"reviewed_at"`
	ApprovalComment     *string          `json:"approval_comment" db:"approval_comment"`
	Deleted             bool             `json:"deleted" db:"deleted"`
	DeletedBy           *string          `json:"deleted_by" db:"deleted_by"`
	DeletedAt           *time.Time       `json:"deleted_at" db:"deleted_at"`
	Version             int64            `json:"version" db:"version"`
	CreatedAt           time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at" db:"updated_at"`
}

func (q *VendorQuote) GetVersion() int64 { return q.Version }

// VendorQuoteInput is the full mutable field set of a quote
type VendorQuoteInput struct {
	QuoteNumber         string
	VersionNumber       int
	CurrencyCode        string
	Incoterm            *string
	UnitCost            *decimal.Decimal
	MOQ                 int
	LeadTimeDays        int
	SampleLeadTimeDays  *int
	MaterialCost        *decimal.Decimal
	LaborCost           *decimal.Decimal
	OverheadCost        *decimal.Decimal
	LogisticsCost       *decimal.Decimal
	DutyCost            *decimal.Decimal
	PackagingCost       *decimal.Decimal
	MarginPercent       *decimal.Decimal
	TotalCost           *decimal.Decimal
	CapacityPerMonth    *int
	PaymentTerms        *string
	ValidFrom           *time.Time
	ValidTo             *time.Time
	ComplianceNotes     *string
	SustainabilityNotes *string
}

// Apply overwrites every quote field except workflow, soft-delete and audit
// metadata. The input must already be validated.
func (in *VendorQuoteInput) Apply(q *VendorQuote) {
	q.QuoteNumber = in.QuoteNumber
	q.VersionNumber = in.VersionNumber
	q.CurrencyCode = in.CurrencyCode
	q.Incoterm = in.Incoterm
	if in.UnitCost != nil {
		q.UnitCost = *in.UnitCost
	}
	q.MOQ = in.MOQ
	q.LeadTimeDays = in.LeadTimeDays
	q.SampleLeadTimeDays = in.SampleLeadTimeDays
	q.MaterialCost = in.MaterialCost
	q.LaborCost = in.LaborCost
	q.OverheadCost = in.OverheadCost
	q.LogisticsCost = in.LogisticsCost
	q.DutyCost = in.DutyCost
	q.PackagingCost = in.PackagingCost
	q.MarginPercent = in.MarginPercent
	q.TotalCost = in.TotalCost
	q.CapacityPerMonth = in.CapacityPerMonth
	q.PaymentTerms = in.PaymentTerms
	q.ValidFrom = in.ValidFrom
	q.ValidTo = in.ValidTo
	q.ComplianceNotes = in.ComplianceNotes
	q.SustainabilityNotes = in.SustainabilityNotes
}

// QuoteStatusChange requests a workflow transition
type QuoteStatusChange struct {
	Status  QuoteStatus
	Actor   string
	Comment *string
}

// QuoteFilter narrows quote listings
type QuoteFilter struct {
	IncludeDeleted bool
}
