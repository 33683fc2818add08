package handlers

import (
	"net/http"

	"plmsourcing/internal/common"
	"plmsourcing/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func (suite *APITestSuite) linksPath() string {
	return "/v1/products/" + suite.productID.String() + "/vendors"
}

func (suite *APITestSuite) TestCreateLink_Success() {
	vendorID := uuid.New()
	suite.links.On("Create", mock.Anything, suite.productID,
		mock.MatchedBy(func(in *models.SourcingLinkInput) bool {
			return in.VendorID == vendorID && in.PrimaryVendor && *in.FactoryCountry == "PT"
		}), common.DefaultSystemActor).
		Return(&models.SourcingLink{ID: suite.linkID, ProductID: suite.productID, VendorID: vendorID, PrimaryVendor: true}, nil).Once()

	rec := suite.do(http.MethodPost, suite.linksPath(),
		`{"vendor_id":"`+vendorID.String()+`","primary_vendor":true,"factory_country":"PT"}`)

	suite.Equal(http.StatusCreated, rec.Code)
	suite.Contains(rec.Body.String(), `"primary_vendor":true`)
}

func (suite *APITestSuite) TestCreateLink_MissingVendorReachesService() {
	suite.links.On("Create", mock.Anything, suite.productID,
		mock.MatchedBy(func(in *models.SourcingLinkInput) bool { return in.VendorID == uuid.Nil }), mock.Anything).
		Return(nil, common.NewInvalidArgument("Vendor is required.")).Once()

	rec := suite.do(http.MethodPost, suite.linksPath(), `{"primary_vendor":false}`)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("Vendor is required.", decodeError(suite.T(), rec).Error.Message)
}

func (suite *APITestSuite) TestCreateLink_FieldValidation() {
	rec := suite.do(http.MethodPost, suite.linksPath(), `{"vendor_id":"abc","contact_email":"not-an-email"}`)

	suite.Equal(http.StatusBadRequest, rec.Code)
	details := decodeError(suite.T(), rec).Error.Details
	suite.Equal("uuid", details["vendor_id"])
	suite.Equal("email", details["contact_email"])
}

func (suite *APITestSuite) TestCreateLink_Conflicts() {
	suite.links.On("Create", mock.Anything, suite.productID, mock.Anything, mock.Anything).
		Return(nil, common.NewConflict("Only one primary vendor is allowed per product.")).Once()

	rec := suite.do(http.MethodPost, suite.linksPath(), `{"vendor_id":"`+uuid.NewString()+`","primary_vendor":true}`)

	suite.Equal(http.StatusConflict, rec.Code)
	suite.Equal("Only one primary vendor is allowed per product.", decodeError(suite.T(), rec).Error.Message)
}

func (suite *APITestSuite) TestListLinks() {
	suite.links.On("ListByProduct", mock.Anything, suite.productID).
		Return([]*models.SourcingLink{{ID: suite.linkID, VendorName: "Acme"}}, nil).Once()

	rec := suite.do(http.MethodGet, suite.linksPath(), "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), `"vendor_name":"Acme"`)
}

func (suite *APITestSuite) TestUpdateLink() {
	suite.links.On("Update", mock.Anything, suite.productID, suite.linkID, mock.Anything, int64(0), common.DefaultSystemActor).
		Return(&models.SourcingLink{ID: suite.linkID, Version: 1}, nil).Once()

	rec := suite.do(http.MethodPut, suite.linksPath()+"/"+suite.linkID.String(), `{"primary_vendor":true,"version":0}`)
	suite.Equal(http.StatusOK, rec.Code)

	rec = suite.do(http.MethodPut, suite.linksPath()+"/"+suite.linkID.String(), `{"version":-1}`)
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("min=0", decodeError(suite.T(), rec).Error.Details["version"])
}

func (suite *APITestSuite) TestDeleteLink() {
	suite.links.On("Delete", mock.Anything, suite.productID, suite.linkID).Return(true, nil).Once()
	suite.links.On("Delete", mock.Anything, suite.productID, suite.linkID).Return(false, nil).Once()

	rec := suite.do(http.MethodDelete, suite.linksPath()+"/"+suite.linkID.String(), "")
	suite.Equal(http.StatusNoContent, rec.Code)

	rec = suite.do(http.MethodDelete, suite.linksPath()+"/"+suite.linkID.String(), "")
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal("Product vendor link not found.", decodeError(suite.T(), rec).Error.Message)
}
