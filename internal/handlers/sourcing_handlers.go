package handlers

import (
	"net/http"

	"plmsourcing/internal/common"
	"plmsourcing/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SourcingHandlers serves the vendors linked to a product
type SourcingHandlers struct {
	linkService services.SourcingLinkService
	logger      *zap.Logger
}

// NewSourcingHandlers creates a new sourcing handlers instance
func NewSourcingHandlers(linkService services.SourcingLinkService, logger *zap.Logger) *SourcingHandlers {
	return &SourcingHandlers{linkService: linkService, logger: logger}
}

// ListLinks handles GET /products/:productId/vendors
//
//	@Summary	List vendors linked to a product
//	@Tags		Sourcing
//	@Produce	json
//	@Param		productId	path		string	true	"Product ID"
//	@Success	200			{array}		models.SourcingLink
//	@Failure	404			{object}	common.ErrorResponse
//	@Router		/products/{productId}/vendors [get]
func (h *SourcingHandlers) ListLinks(c echo.Context) error {
	productID, ok, err := pathUUID(c, "productId")
	if !ok {
		return err
	}

	links, err := h.linkService.ListByProduct(c.Request().Context(), productID)
	if err != nil {
		return respondError(c, h.logger, err, "list sourcing links")
	}
	return c.JSON(http.StatusOK, links)
}

// CreateLink handles POST /products/:productId/vendors
//
//	@Summary	Link a vendor to a product
//	@Tags		Sourcing
//	@Accept		json
//	@Produce	json
//	@Param		productId	path		string				true	"Product ID"
//	@Param		request		body		SourcingLinkRequest	true	"Link"
//	@Success	201			{object}	models.SourcingLink
//	@Failure	400			{object}	common.ErrorResponse
//	@Failure	404			{object}	common.ErrorResponse
//	@Router		/products/{productId}/vendors [post]
func (h *SourcingHandlers) CreateLink(c echo.Context) error {
	productID, ok, err := pathUUID(c, "productId")
	if !ok {
		return err
	}
	var req SourcingLinkRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	link, err := h.linkService.Create(c.Request().Context(), productID, req.toInput(), actorOf(c))
	if err != nil {
		return respondError(c, h.logger, err, "create sourcing link")
	}
	return c.JSON(http.StatusCreated, link)
}

// UpdateLink handles PUT /products/:productId/vendors/:linkId
//
//	@Summary	Update a product vendor link
//	@Tags		Sourcing
//	@Accept		json
//	@Produce	json
//	@Param		productId	path		string						true	"Product ID"
//	@Param		linkId		path		string						true	"Link ID"
//	@Param		request		body		UpdateSourcingLinkRequest	true	"Link with expected version"
//	@Success	200			{object}	models.SourcingLink
//	@Failure	400			{object}	common.ErrorResponse
//	@Failure	404			{object}	common.ErrorResponse
//	@Failure	409			{object}	common.ErrorResponse
//	@Router		/products/{productId}/vendors/{linkId} [put]
func (h *SourcingHandlers) UpdateLink(c echo.Context) error {
	productID, ok, err := pathUUID(c, "productId")
	if !ok {
		return err
	}
	linkID, ok, err := pathUUID(c, "linkId")
	if !ok {
		return err
	}
	var req UpdateSourcingLinkRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	link, err := h.linkService.Update(c.Request().Context(), productID, linkID, req.toInput(), *req.Version, actorOf(c))
	if err != nil {
		return respondError(c, h.logger, err, "update sourcing link")
	}
	return c.JSON(http.StatusOK, link)
}

// DeleteLink handles DELETE /products/:productId/vendors/:linkId
//
//	@Summary	Unlink a vendor from a product
//	@Tags		Sourcing
//	@Param		productId	path	string	true	"Product ID"
//	@Param		linkId		path	string	true	"Link ID"
//	@Success	204
//	@Failure	404	{object}	common.ErrorResponse
//	@Router		/products/{productId}/vendors/{linkId} [delete]
func (h *SourcingHandlers) DeleteLink(c echo.Context) error {
	productID, ok, err := pathUUID(c, "productId")
	if !ok {
		return err
	}
	linkID, ok, err := pathUUID(c, "linkId")
	if !ok {
		return err
	}

	found, err := h.linkService.Delete(c.Request().Context(), productID, linkID)
	if err != nil {
		return respondError(c, h.logger, err, "delete sourcing link")
	}
	if !found {
		return common.SendNotFoundError(c, "Product vendor link not found.")
	}
	return c.NoContent(http.StatusNoContent)
}
