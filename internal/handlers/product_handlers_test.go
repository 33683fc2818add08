package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	"plmsourcing/internal/common"
	"plmsourcing/internal/models"
	"plmsourcing/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
)

func (suite *APITestSuite) productPath() string {
	return "/v1/products/" + suite.productID.String()
}

func (suite *APITestSuite) upload(body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, suite.productPath()+"/image", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	suite.e.ServeHTTP(rec, req)
	return rec
}

func (suite *APITestSuite) TestCreateProduct() {
	suite.products.On("Create", mock.Anything, "Linen shirt", (*string)(nil)).
		Return(&models.Product{ID: suite.productID, Name: "Linen shirt"}, nil).Once()

	rec := suite.do(http.MethodPost, "/v1/products", `{"name":"Linen shirt"}`)
	suite.Equal(http.StatusCreated, rec.Code)

	rec = suite.do(http.MethodPost, "/v1/products", `{"description":"no name"}`)
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *APITestSuite) TestGetProduct() {
	url := "https://storage.local/plm-assets/products/x/image.bin?X-Amz-Signature=abc"
	suite.products.On("GetByID", mock.Anything, suite.productID).
		Return(&models.Product{ID: suite.productID, ImageURL: &url}, nil).Once()

	rec := suite.do(http.MethodGet, suite.productPath(), "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "X-Amz-Signature")
}

func (suite *APITestSuite) TestUploadProductImage() {
	payload := []byte("png-bytes")
	suite.products.On("UploadImage", mock.Anything, suite.productID, mock.Anything, int64(len(payload)), "image/png").
		Return(&models.Product{ID: suite.productID}, nil).Once()

	rec := suite.upload(payload, "image/png")

	suite.Equal(http.StatusOK, rec.Code)
}

func (suite *APITestSuite) TestUploadProductImage_TooLarge() {
	rec := suite.upload(make([]byte, maxProductImageBytes+1), "image/png")

	suite.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	suite.Equal("PAYLOAD_TOO_LARGE", decodeError(suite.T(), rec).Error.Code)
}

func (suite *APITestSuite) TestUploadProductImage_StorageDisabled() {
	suite.products.On("UploadImage", mock.Anything, suite.productID, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, services.ErrImageStorageDisabled).Once()

	rec := suite.upload([]byte("x"), "image/png")

	suite.Equal(http.StatusServiceUnavailable, rec.Code)
	suite.Equal("STORAGE_DISABLED", decodeError(suite.T(), rec).Error.Code)
}

func (suite *APITestSuite) TestUploadProductImage_EmptyPayload() {
	suite.products.On("UploadImage", mock.Anything, suite.productID, mock.Anything, int64(0), mock.Anything).
		Return(nil, common.NewInvalidArgument("Image payload is required.")).Once()

	rec := suite.upload(nil, "image/png")

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("Image payload is required.", decodeError(suite.T(), rec).Error.Message)
}
