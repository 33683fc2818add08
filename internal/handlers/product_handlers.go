package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"plmsourcing/internal/common"
	"plmsourcing/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const maxProductImageBytes = 10 << 20

// ProductHandlers handles HTTP requests for products
type ProductHandlers struct {
	productService services.ProductService
	logger         *zap.Logger
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductService, logger *zap.Logger) *ProductHandlers {
	return &ProductHandlers{
		productService: productService,
		logger:         logger,
	}
}

// CreateProduct handles POST /products
//
//	@Summary	Create a product
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Param		request	body		ProductRequest	true	"Product"
//	@Success	201		{object}	models.Product
//	@Failure	400		{object}	common.ErrorResponse
//	@Router		/products [post]
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var req ProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	product, err := h.productService.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return respondError(c, h.logger, err, "create product")
	}
	return c.JSON(http.StatusCreated, product)
}

// ListProducts handles GET /products
//
//	@Summary	List products
//	@Tags		Products
//	@Produce	json
//	@Param		limit	query		int	false	"Page size"
//	@Param		offset	query		int	false	"Offset"
//	@Success	200		{array}		models.Product
//	@Router		/products [get]
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	limit, offset := pagination(c)
	products, err := h.productService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return respondError(c, h.logger, err, "list products")
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /products/:productId
//
//	@Summary	Get a product with a presigned image URL
//	@Tags		Products
//	@Produce	json
//	@Param		productId	path		string	true	"Product ID"
//	@Success	200			{object}	models.Product
//	@Failure	404			{object}	common.ErrorResponse
//	@Router		/products/{productId} [get]
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	productID, ok, err := pathUUID(c, "productId")
	if !ok {
		return err
	}

	product, err := h.productService.GetByID(c.Request().Context(), productID)
	if err != nil {
		return respondError(c, h.logger, err, "get product")
	}
	return c.JSON(http.StatusOK, product)
}

// UploadProductImage handles PUT /products/:productId/image with the raw image as body
//
//	@Summary	Store the product image
//	@Tags		Products
//	@Accept		octet-stream
//	@Produce	json
//	@Param		productId	path		string	true	"Product ID"
//	@Success	200			{object}	models.Product
//	@Failure	400			{object}	common.ErrorResponse
//	@Failure	404			{object}	common.ErrorResponse
//	@Failure	413			{object}	common.ErrorResponse
//	@Failure	503			{object}	common.ErrorResponse
//	@Router		/products/{productId}/image [put]
func (h *ProductHandlers) UploadProductImage(c echo.Context) error {
	productID, ok, err := pathUUID(c, "productId")
	if !ok {
		return err
	}

	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxProductImageBytes+1))
	if err != nil {
		return common.SendClientError(c, "Could not read image payload.")
	}
	if len(data) > maxProductImageBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, common.CreateErrorResponse("PAYLOAD_TOO_LARGE", "Image exceeds 10 MiB.", nil))
	}

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	product, err := h.productService.UploadImage(c.Request().Context(), productID, bytes.NewReader(data), int64(len(data)), contentType)
	if errors.Is(err, services.ErrImageStorageDisabled) {
		return c.JSON(http.StatusServiceUnavailable, common.CreateErrorResponse("STORAGE_DISABLED", "Image storage is not configured.", nil))
	}
	if err != nil {
		return respondError(c, h.logger, err, "upload product image")
	}
	return c.JSON(http.StatusOK, product)
}
