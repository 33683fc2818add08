package middleware

import (
	"net/http"
	"regexp"
	"sort"
	"time"

	"plmsourcing/internal/common"

	"github.com/labstack/echo/v4"
)

// APIVersion represents API version information
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // "active", "deprecated"
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// VersionMiddleware stamps version headers and rejects unknown /vN prefixes
type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
}

var versionPrefix = regexp.MustCompile(`^/(v[0-9]+)(/|$)`)

// NewVersionMiddleware creates a version middleware with v1 active
func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: map[string]APIVersion{
			"v1": {Version: "v1", Status: "active", Message: "Current stable API version"},
		},
	}
}

// Deprecate marks version as deprecated until sunset
func (vm *VersionMiddleware) Deprecate(version string, sunset time.Time, message string) {
	vm.supportedVersions[version] = APIVersion{
		Version:    version,
		Status:     "deprecated",
		SunsetDate: &sunset,
		Message:    message,
	}
}

// VersionRoute creates a version-specific route group
func (vm *VersionMiddleware) VersionRoute(e *echo.Echo, version string) *echo.Group {
	return e.Group("/"+version, vm.VersionHeader(version))
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", version)
			if ver, ok := vm.supportedVersions[version]; ok {
				if ver.Status == "deprecated" && ver.SunsetDate != nil {
					c.Response().Header().Set("X-API-Deprecated", "true")
					c.Response().Header().Set("X-API-Sunset", ver.SunsetDate.Format(time.RFC3339))
					c.Response().Header().Set("Warning", `299 plmsourcing "This API version is deprecated and will be removed on `+ver.SunsetDate.Format(common.DateLayout)+`"`)
				}
				if ver.Message != "" {
					c.Response().Header().Set("X-API-Message", ver.Message)
				}
			}
			return next(c)
		}
	}
}

// APIVersionResolver rejects requests for versions this server does not serve
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			match := versionPrefix.FindStringSubmatch(c.Request().URL.Path)
			if match == nil {
				return next(c)
			}
			if _, ok := vm.supportedVersions[match[1]]; !ok {
				return c.JSON(http.StatusNotFound, map[string]any{
					"error":              "Unsupported API version",
					"supported_versions": vm.SupportedVersions(),
				})
			}
			c.Set("api_version", match[1])
			return next(c)
		}
	}
}

// SupportedVersions lists the served versions in order
func (vm *VersionMiddleware) SupportedVersions() []string {
	versions := make([]string, 0, len(vm.supportedVersions))
	for version := range vm.supportedVersions {
		versions = append(versions, version)
	}
	sort.Strings(versions)
	return versions
}
