package models

import (
	"time"

	"github.com/google/uuid"
)

// SourcingLink records that a vendor sources a product
type SourcingLink struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ProductID      uuid.UUID `json:"product_id" db:"product_id"`
	VendorID       uuid.UUID `json:"vendor_id" db:"vendor_id"`
	VendorName     string    `json:"vendor_name" db:"vendor_name"`
	PrimaryVendor  bool      `json:"primary_vendor" db:"primary_vendor"`
	VSN            *string   `json:"vsn" db:"vsn"`
	FactoryName    *string   `json:"factory_name" db:"factory_name"`
	FactoryCode    *string   `json:"factory_code" db:"factory_code"`
	FactoryCountry *string   `json:"factory_country" db:"factory_country"`
	Sustainable    bool      `json:"sustainable" db:"sustainable"`
	ContactName    *string   `json:"contact_name" db:"contact_name"`
	ContactEmail   *string   `json:"contact_email" db:"contact_email"`
	ContactPhone   *string   `json:"contact_phone" db:"contact_phone"`
	Version        int64     `json:"version" db:"version"`
	CreatedBy      string    `json:"created_by" db:"created_by"`
	UpdatedBy      string    `json:"updated_by" db:"updated_by"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func (l *SourcingLink) GetVersion() int64 { return l.Version }

// SourcingLinkInput carries the caller-supplied fields of a sourcing link
type SourcingLinkInput struct {
	VendorID       uuid.UUID
	PrimaryVendor  bool
	VSN            *string
	FactoryName    *string
	FactoryCode    *string
	FactoryCountry *string
	Sustainable    bool
	ContactName    *string
	ContactEmail   *string
	ContactPhone   *string
}

// Apply overwrites the mutable metadata of l. The vendor reference is not mutable.
func (in *SourcingLinkInput) Apply(l *SourcingLink) {
	l.PrimaryVendor = in.PrimaryVendor
	l.VSN = in.VSN
	l.FactoryName = in.FactoryName
	l.FactoryCode = in.FactoryCode
	l.FactoryCountry = in.FactoryCountry
	l.Sustainable = in.Sustainable
	l.ContactName = in.ContactName
	l.ContactEmail = in.ContactEmail
	l.ContactPhone = in.ContactPhone
}
