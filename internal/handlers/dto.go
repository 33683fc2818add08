package handlers

import (
	"strings"

	"plmsourcing/internal/common"
	"plmsourcing/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourcingLinkRequest is the body of link create and update
type SourcingLinkRequest struct {
	VendorID       string  `json:"vendor_id" validate:"omitempty,uuid"`
	PrimaryVendor  bool    `json:"primary_vendor"`
	VSN            *string `json:"vsn" validate:"omitempty,max=100"`
	FactoryName    *string `json:"factory_name" validate:"omitempty,max=255"`
	FactoryCode    *string `json:"factory_code" validate:"omitempty,max=100"`
	FactoryCountry *string `json:"factory_country" validate:"omitempty,max=100"`
	Sustainable    bool    `json:"sustainable"`
	ContactName    *string `json:"contact_name" validate:"omitempty,max=255"`
	ContactEmail   *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone   *string `json:"contact_phone" validate:"omitempty,max=50"`
}

func (r *SourcingLinkRequest) toInput() *models.SourcingLinkInput {
	in := &models.SourcingLinkInput{
		PrimaryVendor:  r.PrimaryVendor,
		VSN:            r.VSN,
		FactoryName:    r.FactoryName,
		FactoryCode:    r.FactoryCode,
		FactoryCountry: r.FactoryCountry,
		Sustainable:    r.Sustainable,
		ContactName:    r.ContactName,
		ContactEmail:   r.ContactEmail,
		ContactPhone:   r.ContactPhone,
	}
	if id, err := uuid.Parse(strings.TrimSpace(r.VendorID)); err == nil {
		in.VendorID = id
	}
	return in
}

// UpdateSourcingLinkRequest carries the full mutable field set and the expected version
type UpdateSourcingLinkRequest struct {
	SourcingLinkRequest
	Version *int64 `json:"version" validate:"required,min=0"`
}

// VendorQuoteRequest is the body of quote create
type VendorQuoteRequest struct {
	QuoteNumber         string           `json:"quote_number"`
	VersionNumber       int              `json:"version_number"`
	CurrencyCode        string           `json:"currency_code"`
	Incoterm            *string          `json:"incoterm"`
	UnitCost            *decimal.Decimal `json:"unit_cost"`
	MOQ                 int              `json:"moq"`
	LeadTimeDays        int              `json:"lead_time_days"`
	SampleLeadTimeDays  *int             `json:"sample_lead_time_days"`
	MaterialCost        *decimal.Decimal `json:"material_cost"`
	LaborCost           *decimal.Decimal `json:"labor_cost"`
	OverheadCost        *decimal.Decimal `json:"overhead_cost"`
	LogisticsCost       *decimal.Decimal `json:"logistics_cost"`
	DutyCost            *decimal.Decimal `json:"duty_cost"`
	PackagingCost       *decimal.Decimal `json:"packaging_cost"`
	MarginPercent       *decimal.Decimal `json:"margin_percent"`
	TotalCost           *decimal.Decimal `json:"total_cost"`
	CapacityPerMonth    *int             `json:"capacity_per_month"`
	PaymentTerms        *string          `json:"payment_terms"`
	ValidFrom           *string          `json:"valid_from"`
	ValidTo             *string          `json:"valid_to"`
	ComplianceNotes     *string          `json:"compliance_notes"`
	SustainabilityNotes *string          `json:"sustainability_notes"`
}

// toInput converts the request, returning per-field date errors
func (r *VendorQuoteRequest) toInput() (*models.VendorQuoteInput, map[string]string) {
	details := map[string]string{}
	validFrom, err := common.ParseDate(r.ValidFrom, "valid_from")
	if err != nil {
		details["valid_from"] = err.Error()
	}
	validTo, err := common.ParseDate(r.ValidTo, "valid_to")
	if err != nil {
		details["valid_to"] = err.Error()
	}
	if len(details) > 0 {
		return nil, details
	}

	return &models.VendorQuoteInput{
		QuoteNumber:         r.QuoteNumber,
		VersionNumber:       r.VersionNumber,
		CurrencyCode:        r.CurrencyCode,
		Incoterm:            r.Incoterm,
		UnitCost:            r.UnitCost,
		MOQ:                 r.MOQ,
		LeadTimeDays:        r.LeadTimeDays,
		SampleLeadTimeDays:  r.SampleLeadTimeDays,
		MaterialCost:        r.MaterialCost,
		LaborCost:           r.LaborCost,
		OverheadCost:        r.OverheadCost,
		LogisticsCost:       r.LogisticsCost,
		DutyCost:            r.DutyCost,
		PackagingCost:       r.PackagingCost,
		MarginPercent:       r.MarginPercent,
		TotalCost:           r.TotalCost,
		CapacityPerMonth:    r.CapacityPerMonth,
		PaymentTerms:        r.PaymentTerms,
		ValidFrom:           validFrom,
		ValidTo:             validTo,
		ComplianceNotes:     r.ComplianceNotes,
		SustainabilityNotes: r.SustainabilityNotes,
	}, nil
}

// UpdateVendorQuoteRequest carries the full mutable field set and the expected version
type UpdateVendorQuoteRequest struct {
	VendorQuoteRequest
	Version *int64 `json:"version" validate:"required,min=0"`
}

// QuoteStatusRequest is the body of a workflow transition
type QuoteStatusRequest struct {
	Status  string  `json:"status"`
	Actor   *string `json:"actor" validate:"omitempty,max=255"`
	Comment *string `json:"comment"`
}

// VendorQuoteResponse renders validity dates as YYYY-MM-DD
type VendorQuoteResponse struct {
	*models.VendorQuote
	ValidFrom *string `json:"valid_from"`
	ValidTo   *string `json:"valid_to"`
}

func newVendorQuoteResponse(q *models.VendorQuote) VendorQuoteResponse {
	resp := VendorQuoteResponse{VendorQuote: q}
	if q.ValidFrom != nil {
		s := q.ValidFrom.Format(common.DateLayout)
		resp.ValidFrom = &s
	}
	if q.ValidTo != nil {
		s := q.ValidTo.Format(common.DateLayout)
		resp.ValidTo = &s
	}
	return resp
}

func newVendorQuoteResponses(quotes []*models.VendorQuote) []VendorQuoteResponse {
	out := make([]VendorQuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, newVendorQuoteResponse(q))
	}
	return out
}

// VendorRequest is the body of vendor create and update
type VendorRequest struct {
	Name            string  `json:"name" validate:"required,max=255"`
	Type            *string `json:"type" validate:"omitempty,max=100"`
	SupplierName    *string `json:"supplier_name" validate:"omitempty,max=255"`
	SupplierNumber  *string `json:"supplier_number" validate:"omitempty,max=100"`
	VendorGroup     *string `json:"vendor_group" validate:"omitempty,max=100"`
	AgreementStatus *string `json:"agreement_status" validate:"omitempty,max=100"`
	Active          *bool   `json:"active"`
}

func (r *VendorRequest) toInput() *models.VendorInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &models.VendorInput{
		Name:            r.Name,
		Type:            r.Type,
		SupplierName:    r.SupplierName,
		SupplierNumber:  r.SupplierNumber,
		VendorGroup:     r.VendorGroup,
		AgreementStatus: r.AgreementStatus,
		Active:          active,
	}
}

// UpdateVendorRequest carries the vendor fields and the expected version
type UpdateVendorRequest struct {
	VendorRequest
	Version *int64 `json:"version" validate:"required,min=0"`
}

// ProductRequest is the body of product create
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}
