package handlers

import (
	"errors"
	"reflect"
	"strings"

	"plmsourcing/internal/common"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var v = newValidator()

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// validationDetails flattens validator errors into field -> rule
func validationDetails(err error) map[string]string {
	details := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		details["body"] = err.Error()
		return details
	}
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details[fe.Field()] = rule
	}
	return details
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
// On failure the error response has already been written and ok is false.
func bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, common.SendValidationError(c, map[string]string{"body": "Invalid request format"})
	}
	if err := v.Struct(req); err != nil {
		return false, common.SendValidationError(c, validationDetails(err))
	}
	return true, nil
}

// pathUUID parses a path parameter; ok is false once the error response is written
func pathUUID(c echo.Context, name string) (uuid.UUID, bool, error) {
	id, err := common.ValidateUUID(c.Param(name), name)
	if err != nil {
		return uuid.Nil, false, common.SendValidationError(c, map[string]string{name: err.Error()})
	}
	return id, true, nil
}

// respondError writes err using the error taxonomy and logs anything that maps to 5xx
func respondError(c echo.Context, logger *zap.Logger, err error, op string) error {
	if common.KindOf(err) == common.KindInternal {
		logger.Error(op+" failed",
			zap.Error(err),
			zap.String("request_id", common.GetRequestIDFromContext(c.Request().Context())),
			zap.String("path", c.Path()),
		)
	}
	return common.SendAppError(c, err)
}

// actorOf returns the identity resolved by the actor middleware
func actorOf(c echo.Context) string {
	return common.ActorFromContext(c.Request().Context(), common.DefaultSystemActor)
}
