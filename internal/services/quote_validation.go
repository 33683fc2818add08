package services

import (
	"strings"

	"plmsourcing/internal/common"
	"plmsourcing/internal/models"

	"github.com/shopspring/decimal"
)

// normalizeQuoteInput checks the quote field rules and upper-cases the currency code
func normalizeQuoteInput(in *models.VendorQuoteInput) error {
	if in == nil {
		return common.NewInvalidArgument("Quote payload is required.")
	}

	in.QuoteNumber = strings.TrimSpace(in.QuoteNumber)
	if in.QuoteNumber == "" {
		return common.NewInvalidArgument("Quote number is required.")
	}
	if in.VersionNumber < 1 {
		return common.NewInvalidArgument("Version number must be at least 1.")
	}

	in.CurrencyCode = strings.ToUpper(strings.TrimSpace(in.CurrencyCode))
	if in.CurrencyCode == "" {
		return common.NewInvalidArgument("Currency code is required.")
	}

	if in.UnitCost == nil {
		return common.NewInvalidArgument("Unit cost is required.")
	}
	if err := nonNegativeDecimal(in.UnitCost, "Unit cost"); err != nil {
		return err
	}
	if in.MOQ < 0 {
		return common.NewInvalidArgument("MOQ must be zero or greater.")
	}
	if in.LeadTimeDays < 0 {
		return common.NewInvalidArgument("Lead time days must be zero or greater.")
	}
	if in.SampleLeadTimeDays != nil && *in.SampleLeadTimeDays < 0 {
		return common.NewInvalidArgument("Sample lead time days must be zero or greater.")
	}

	costs := []struct {
		value *decimal.Decimal
		name  string
	}{
		{in.MaterialCost, "Material cost"},
		{in.LaborCost, "Labor cost"},
		{in.OverheadCost, "Overhead cost"},
		{in.LogisticsCost, "Logistics cost"},
		{in.DutyCost, "Duty cost"},
		{in.PackagingCost, "Packaging cost"},
		{in.TotalCost, "Total cost"},
	}
	for _, c := range costs {
		if err := nonNegativeDecimal(c.value, c.name); err != nil {
			return err
		}
	}

	if in.CapacityPerMonth != nil && *in.CapacityPerMonth < 0 {
		return common.NewInvalidArgument("Capacity per month must be zero or greater.")
	}
	if in.ValidFrom != nil && in.ValidTo != nil && in.ValidTo.Before(*in.ValidFrom) {
		return common.NewInvalidArgument("Valid to date must be on or after valid from date.")
	}
	return nil
}

func nonNegativeDecimal(value *decimal.Decimal, name string) error {
	if value != nil && value.IsNegative() {
		return common.NewInvalidArgumentf("%s must be zero or greater.", name)
	}
	return nil
}
