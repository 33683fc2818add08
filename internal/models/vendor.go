package models

import (
	"time"

	"github.com/google/uuid"
)

type Vendor struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Type            *string   `json:"type" db:"type"`
	SupplierName    *string   `json:"supplier_name" db:"supplier_name"`
	SupplierNumber  *string   `json:"supplier_number" db:"supplier_number"`
	VendorGroup     *string   `json:"vendor_group" db:"vendor_group"`
	AgreementStatus *string   `json:"agreement_status" db:"agreement_status"`
	Active          bool      `json:"active" db:"active"`
	Version         int64     `json:"version" db:"version"`
	CreatedBy       string    `json:"created_by" db:"created_by"`
	UpdatedBy       string    `json:"updated_by" db:"updated_by"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

func (v *Vendor) GetVersion() int64 { return v.Version }

type VendorInput struct {
	Name            string
	Type            *string
	SupplierName    *string
	SupplierNumber  *string
	VendorGroup     *string
	AgreementStatus *string
	Active          bool
}

func (in *VendorInput) Apply(v *Vendor) {
	v.Name = in.Name
	v.Type = in.Type
	v.SupplierName = in.SupplierName
	v.SupplierNumber = in.SupplierNumber
	v.VendorGroup = in.VendorGroup
	v.AgreementStatus = in.AgreementStatus
	v.Active = in.Active
}
