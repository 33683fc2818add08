package handlers

import (
	"net/http"
	"strings"

	"plmsourcing/internal/common"
	"plmsourcing/internal/models"
	"plmsourcing/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// VendorQuoteHandlers serves vendor quotes under a product vendor link
type VendorQuoteHandlers struct {
	quoteService services.VendorQuoteService
	logger       *zap.Logger
}

// NewVendorQuoteHandlers creates a new vendor quote handlers instance
func NewVendorQuoteHandlers(quoteService services.VendorQuoteService, logger *zap.Logger) *VendorQuoteHandlers {
	return &VendorQuoteHandlers{quoteService: quoteService, logger: logger}
}

type quotePath struct {
	productID, linkID, quoteID uuid.UUID
}

// parseQuotePath reads productId, linkId and, when withQuote, quoteId
func parseQuotePath(c echo.Context, withQuote bool) (quotePath, bool, error) {
	var p quotePath
	var ok bool
	var err error
	if p.productID, ok, err = pathUUID(c, "productId"); !ok {
		return p, false, err
	}
	if p.linkID, ok, err = pathUUID(c, "linkId"); !ok {
		return p, false, err
	}
	if withQuote {
		if p.quoteID, ok, err = pathUUID(c, "quoteId"); !ok {
			return p, false, err
		}
	}
	return p, true, nil
}

func quoteFilter(c echo.Context) (models.QuoteFilter, bool, error) {
	includeDeleted, err := common.ParseBoolParam(c, "include_deleted")
	if err != nil {
		return models.QuoteFilter{}, false, common.SendValidationError(c, map[string]string{"include_deleted": err.Error()})
	}
	return models.QuoteFilter{IncludeDeleted: includeDeleted}, true, nil
}

// ListQuotes handles GET /products/:productId/vendors/:linkId/quotes
//
//	@Summary	List quotes of a vendor link, newest first
//	@Tags		Vendor Quotes
//	@Produce	json
//	@Param		productId		path		string	true	"Product ID"
//	@Param		linkId			path		string	true	"Link ID"
//	@Param		include_deleted	query		bool	false	"Include soft-deleted quotes"
//	@Success	200				{array}		VendorQuoteResponse
//	@Failure	404				{object}	common.ErrorResponse
//	@Router		/products/{productId}/vendors/{linkId}/quotes [get]
func (h *VendorQuoteHandlers) ListQuotes(c echo.Context) error {
	p, ok, err := parseQuotePath(c, false)
	if !ok {
		return err
	}
	filter, ok, err := quoteFilter(c)
	if !ok {
		return err
	}

	quotes, err := h.quoteService.ListByLink(c.Request().Context(), p.productID, p.linkID, filter)
	if err != nil {
		return respondError(c, h.logger, err, "list vendor quotes")
	}
	return c.JSON(http.StatusOK, newVendorQuoteResponses(quotes))
}

// ListProductQuotes handles GET /products/:productId/quotes
//
//	@Summary	Compare quotes across every vendor of a product
//	@Tags		Vendor Quotes
//	@Produce	json
//	@Param		productId		path		string	true	"Product ID"
//	@Param		include_deleted	query		bool	false	"Include soft-deleted quotes"
//	@Success	200				{array}		VendorQuoteResponse
//	@Failure	404				{object}	common.ErrorResponse
//	@Router		/products/{productId}/quotes [get]
func (h *VendorQuoteHandlers) ListProductQuotes(c echo.Context) error {
	productID, ok, err := pathUUID(c, "productId")
	if !ok {
		return err
	}
	filter, ok, err := quoteFilter(c)
	if !ok {
		return err
	}

	quotes, err := h.quoteService.ListByProduct(c.Request().Context(), productID, filter)
	if err != nil {
		return respondError(c, h.logger, err, "list product quotes")
	}
	return c.JSON(http.StatusOK, newVendorQuoteResponses(quotes))
}

// GetQuote handles GET /products/:productId/vendors/:linkId/quotes/:quoteId
//
//	@Summary	Get a vendor quote
//	@Tags		Vendor Quotes
//	@Produce	json
//	@Param		productId		path		string	true	"Product ID"
//	@Param		linkId			path		string	true	"Link ID"
//	@Param		quoteId			path		string	true	"Quote ID"
//	@Param		include_deleted	query		bool	false	"Allow a soft-deleted quote"
//	@Success	200				{object}	VendorQuoteResponse
//	@Failure	404				{object}	common.ErrorResponse
//	@Router		/products/{productId}/vendors/{linkId}/quotes/{quoteId} [get]
func (h *VendorQuoteHandlers) GetQuote(c echo.Context) error {
	p, ok, err := parseQuotePath(c, true)
	if !ok {
		return err
	}
	filter, ok, err := quoteFilter(c)
	if !ok {
		return err
	}

	quote, err := h.quoteService.FindByID(c.Request().Context(), p.productID, p.linkID, p.quoteID, filter)
	if err != nil {
		return respondError(c, h.logger, err, "get vendor quote")
	}
	return c.JSON(http.StatusOK, newVendorQuoteResponse(quote))
}

// CreateQuote handles POST /products/:productId/vendors/:linkId/quotes
//
//	@Summary	Submit a vendor quote
//	@Tags		Vendor Quotes
//	@Accept		json
//	@Produce	json
//	@Param		productId	path		string				true	"Product ID"
//	@Param		linkId		path		string				true	"Link ID"
//	@Param		request		body		VendorQuoteRequest	true	"Quote"
//	@Success	201			{object}	VendorQuoteResponse
//	@Failure	400			{object}	common.ErrorResponse
//	@Failure	404			{object}	common.ErrorResponse
//	@Router		/products/{productId}/vendors/{linkId}/quotes [post]
func (h *VendorQuoteHandlers) CreateQuote(c echo.Context) error {
	p, ok, err := parseQuotePath(c, false)
	if !ok {
		return err
	}
	var req VendorQuoteRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	input, details := req.toInput()
	if details != nil {
		return common.SendValidationError(c, details)
	}

	quote, err := h.quoteService.Create(c.Request().Context(), p.productID, p.linkID, input, actorOf(c))
	if err != nil {
		return respondError(c, h.logger, err, "create vendor quote")
	}
	c.Response().Header().Set(echo.HeaderLocation, c.Request().URL.Path+"/"+quote.ID.String())
	return c.JSON(http.StatusCreated, newVendorQuoteResponse(quote))
}

// UpdateQuote handles PUT /products/:productId/vendors/:linkId/quotes/:quoteId
//
//	@Summary	Replace the fields of a vendor quote
//	@Tags		Vendor Quotes
//	@Accept		json
//	@Produce	json
//	@Param		productId	path		string						true	"Product ID"
//	@Param		linkId		path		string						true	"Link ID"
//	@Param		quoteId		path		string						true	"Quote ID"
//	@Param		request		body		UpdateVendorQuoteRequest	true	"Quote with expected version"
//	@Success	200			{object}	VendorQuoteResponse
//	@Failure	400			{object}	common.ErrorResponse
//	@Failure	404			{object}	common.ErrorResponse
//	@Failure	409			{object}	common.ErrorResponse
//	@Router		/products/{productId}/vendors/{linkId}/quotes/{quoteId} [put]
func (h *VendorQuoteHandlers) UpdateQuote(c echo.Context) error {
	p, ok, err := parseQuotePath(c, true)
	if !ok {
		return err
	}
	var req UpdateVendorQuoteRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	input, details := req.toInput()
	if details != nil {
		return common.SendValidationError(c, details)
	}

	quote, err := h.quoteService.Update(c.Request().Context(), p.productID, p.linkID, p.quoteID, input, *req.Version)
	if err != nil {
		return respondError(c, h.logger, err, "update vendor quote")
	}
	return c.JSON(http.StatusOK, newVendorQuoteResponse(quote))
}

// TransitionStatus handles PATCH /products/:productId/vendors/:linkId/quotes/:quoteId/status
//
//	@Summary	Move a quote through the approval workflow
//	@Tags		Vendor Quotes
//	@Accept		json
//	@Produce	json
//	@Param		productId	path		string				true	"Product ID"
//	@Param		linkId		path		string				true	"Link ID"
//	@Param		quoteId		path		string				true	"Quote ID"
//	@Param		request		body		QuoteStatusRequest	true	"Target status"
//	@Success	200			{object}	VendorQuoteResponse
//	@Failure	400			{object}	common.ErrorResponse
//	@Failure	404			{object}	common.ErrorResponse
//	@Failure	409			{object}	common.ErrorResponse
//	@Router		/products/{productId}/vendors/{linkId}/quotes/{quoteId}/status [patch]
func (h *VendorQuoteHandlers) TransitionStatus(c echo.Context) error {
	p, ok, err := parseQuotePath(c, true)
	if !ok {
		return err
	}
	var req QuoteStatusRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	actor := actorOf(c)
	if req.Actor != nil && strings.TrimSpace(*req.Actor) != "" {
		actor = strings.TrimSpace(*req.Actor)
	}
	change := &models.QuoteStatusChange{
		Status:  models.QuoteStatus(strings.TrimSpace(req.Status)),
		Actor:   actor,
		Comment: req.Comment,
	}

	quote, err := h.quoteService.TransitionStatus(c.Request().Context(), p.productID, p.linkID, p.quoteID, change)
	if err != nil {
		return respondError(c, h.logger, err, "transition vendor quote")
	}
	return c.JSON(http.StatusOK, newVendorQuoteResponse(quote))
}

// DeleteQuote handles DELETE /products/:productId/vendors/:linkId/quotes/:quoteId
//
//	@Summary	Soft delete a vendor quote
//	@Tags		Vendor Quotes
//	@Param		productId	path	string	true	"Product ID"
//	@Param		linkId		path	string	true	"Link ID"
//	@Param		quoteId		path	string	true	"Quote ID"
//	@Param		deleted_by	query	string	false	"Acting identity, defaults to the caller"
//	@Success	204
//	@Failure	404	{object}	common.ErrorResponse
//	@Router		/products/{productId}/vendors/{linkId}/quotes/{quoteId} [delete]
func (h *VendorQuoteHandlers) DeleteQuote(c echo.Context) error {
	p, ok, err := parseQuotePath(c, true)
	if !ok {
		return err
	}
	actor := actorOf(c)
	if deletedBy := strings.TrimSpace(c.QueryParam("deleted_by")); deletedBy != "" {
		actor = deletedBy
	}

	found, err := h.quoteService.SoftDelete(c.Request().Context(), p.productID, p.linkID, p.quoteID, actor)
	if err != nil {
		return respondError(c, h.logger, err, "delete vendor quote")
	}
	if !found {
		return common.SendNotFoundError(c, "Vendor quote not found.")
	}
	return c.NoContent(http.StatusNoContent)
}
