package handlers

import (
	"net/http"
	"strconv"

	"plmsourcing/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// VendorHandlers handles HTTP requests for vendors
type VendorHandlers struct {
	vendorService services.VendorService
	logger        *zap.Logger
}

// NewVendorHandlers creates a new vendor handlers instance
func NewVendorHandlers(vendorService services.VendorService, logger *zap.Logger) *VendorHandlers {
	return &VendorHandlers{vendorService: vendorService, logger: logger}
}

// pagination reads limit and offset; malformed values fall back to the defaults
func pagination(c echo.Context) (limit, offset int) {
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 {
		limit = l
	}
	if o, err := strconv.Atoi(c.QueryParam("offset")); err == nil && o >= 0 {
		offset = o
	}
	return limit, offset
}

// ListVendors handles GET /vendors
//
//	@Summary	List vendors
//	@Tags		Vendors
//	@Produce	json
//	@Param		limit	query		int	false	"Page size"
//	@Param		offset	query		int	false	"Offset"
//	@Success	200		{array}		models.Vendor
//	@Router		/vendors [get]
func (h *VendorHandlers) ListVendors(c echo.Context) error {
	limit, offset := pagination(c)
	vendors, err := h.vendorService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return respondError(c, h.logger, err, "list vendors")
	}
	return c.JSON(http.StatusOK, vendors)
}

// GetVendor handles GET /vendors/:vendorId
//
//	@Summary	Get a vendor
//	@Tags		Vendors
//	@Produce	json
//	@Param		vendorId	path		string	true	"Vendor ID"
//	@Success	200			{object}	models.Vendor
//	@Failure	404			{object}	common.ErrorResponse
//	@Router		/vendors/{vendorId} [get]
func (h *VendorHandlers) GetVendor(c echo.Context) error {
	id, ok, err := pathUUID(c, "vendorId")
	if !ok {
		return err
	}
	vendor, err := h.vendorService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err, "get vendor")
	}
	return c.JSON(http.StatusOK, vendor)
}

// CreateVendor handles POST /vendors
//
//	@Summary	Create a vendor
//	@Tags		Vendors
//	@Accept		json
//	@Produce	json
//	@Param		request	body		VendorRequest	true	"Vendor"
//	@Success	201		{object}	models.Vendor
//	@Failure	400		{object}	common.ErrorResponse
//	@Router		/vendors [post]
func (h *VendorHandlers) CreateVendor(c echo.Context) error {
	var req VendorRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	vendor, err := h.vendorService.Create(c.Request().Context(), req.toInput(), actorOf(c))
	if err != nil {
		return respondError(c, h.logger, err, "create vendor")
	}
	return c.JSON(http.StatusCreated, vendor)
}

// UpdateVendor handles PUT /vendors/:vendorId
//
//	@Summary	Update a vendor
//	@Tags		Vendors
//	@Accept		json
//	@Produce	json
//	@Param		vendorId	path		string				true	"Vendor ID"
//	@Param		request		body		UpdateVendorRequest	true	"Vendor with expected version"
//	@Success	200			{object}	models.Vendor
//	@Failure	400			{object}	common.ErrorResponse
//	@Failure	404			{object}	common.ErrorResponse
//	@Failure	409			{object}	common.ErrorResponse
//	@Router		/vendors/{vendorId} [put]
func (h *VendorHandlers) UpdateVendor(c echo.Context) error {
	id, ok, err := pathUUID(c, "vendorId")
	if !ok {
		return err
	}
	var req UpdateVendorRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	vendor, err := h.vendorService.Update(c.Request().Context(), id, req.toInput(), *req.Version, actorOf(c))
	if err != nil {
		return respondError(c, h.logger, err, "update vendor")
	}
	return c.JSON(http.StatusOK, vendor)
}
