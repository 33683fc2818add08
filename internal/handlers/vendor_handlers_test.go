package handlers

import (
	"net/http"

	"plmsourcing/internal/common"
	"plmsourcing/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func (suite *APITestSuite) TestCreateVendor_DefaultsActive() {
	suite.vendors.On("Create", mock.Anything,
		mock.MatchedBy(func(in *models.VendorInput) bool { return in.Name == "Acme" && in.Active }),
		common.DefaultSystemActor).
		Return(&models.Vendor{ID: uuid.New(), Name: "Acme", Active: true}, nil).Once()

	rec := suite.do(http.MethodPost, "/v1/vendors", `{"name":"Acme"}`)

	suite.Equal(http.StatusCreated, rec.Code)
}

func (suite *APITestSuite) TestCreateVendor_NameRequired() {
	rec := suite.do(http.MethodPost, "/v1/vendors", `{"active":false}`)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("required", decodeError(suite.T(), rec).Error.Details["name"])
}

func (suite *APITestSuite) TestListVendors_Pagination() {
	suite.vendors.On("List", mock.Anything, 10, 20).Return([]*models.Vendor{}, nil).Once()
	suite.vendors.On("List", mock.Anything, 0, 0).Return([]*models.Vendor{}, nil).Once()

	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/v1/vendors?limit=10&offset=20", "").Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/v1/vendors?limit=abc&offset=-5", "").Code)
}

func (suite *APITestSuite) TestGetVendor_NotFound() {
	id := uuid.New()
	suite.vendors.On("GetByID", mock.Anything, id).Return(nil, common.NewNotFound("Vendor not found.")).Once()

	rec := suite.do(http.MethodGet, "/v1/vendors/"+id.String(), "")

	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *APITestSuite) TestUpdateVendor_VersionConflict() {
	id := uuid.New()
	suite.vendors.On("Update", mock.Anything, id, mock.Anything, int64(2), common.DefaultSystemActor).
		Return(nil, common.NewVersionConflict(2, 3)).Once()

	rec := suite.do(http.MethodPut, "/v1/vendors/"+id.String(), `{"name":"Acme","version":2}`)

	suite.Equal(http.StatusConflict, rec.Code)
	suite.Equal("Version mismatch. Expected 2 but found 3", decodeError(suite.T(), rec).Error.Message)
}
