package middleware

import (
	"fmt"
	"strings"
	"time"

	"plmsourcing/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ActorConfig controls how the acting identity of a request is resolved
type ActorConfig struct {
	Enabled     bool
	JWTSecret   string
	JWKSURL     string
	SystemActor string
}

// actorClaims are checked in order; the first non-empty one names the actor
var actorClaims = []string{"sub", "preferred_username", "email"}

// ActorResolver resolves the acting identity of every request.
// Requests without a bearer token act as the system identity; a token that
// is present but invalid is rejected with 401.
type ActorResolver struct {
	cfg    ActorConfig
	jwks   *keyfunc.JWKS
	logger *zap.Logger
}

// NewActorResolver loads the JWKS when one is configured
func NewActorResolver(cfg ActorConfig, logger *zap.Logger) (*ActorResolver, error) {
	if strings.TrimSpace(cfg.SystemActor) == "" {
		cfg.SystemActor = common.DefaultSystemActor
	}
	r := &ActorResolver{cfg: cfg, logger: logger}
	if cfg.Enabled && cfg.JWKSURL != "" {
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				logger.Warn("jwks refresh failed", zap.String("url", cfg.JWKSURL), zap.Error(err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("load jwks: %w", err)
		}
		r.jwks = jwks
	}
	return r, nil
}

// Close stops the JWKS background refresh
func (r *ActorResolver) Close() {
	if r.jwks != nil {
		r.jwks.EndBackground()
	}
}

// Middleware returns the resolver chain: the system identity first, then the
// optional bearer-token check that overrides it
func (r *ActorResolver) Middleware() echo.MiddlewareFunc {
	withSystem := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := common.WithActor(c.Request().Context(), r.cfg.SystemActor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
	if !r.cfg.Enabled {
		return withSystem
	}

	jwtConfig := echojwt.Config{
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get(echo.HeaderAuthorization) == ""
		},
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return jwt.MapClaims{}
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			if actor := actorFromClaims(token.Claims); actor != "" {
				ctx := common.WithActor(c.Request().Context(), actor)
				c.SetRequest(c.Request().WithContext(ctx))
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			r.logger.Debug("bearer token rejected",
				zap.Error(err),
				zap.String("request_id", common.GetRequestIDFromContext(c.Request().Context())),
			)
			return common.SendUnauthorizedError(c)
		},
	}
	if r.jwks != nil {
		jwtConfig.KeyFunc = r.jwks.Keyfunc
	} else {
		jwtConfig.SigningKey = []byte(r.cfg.JWTSecret)
	}
	verify := echojwt.WithConfig(jwtConfig)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return withSystem(verify(next))
	}
}

func actorFromClaims(claims jwt.Claims) string {
	mapClaims, ok := claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	for _, name := range actorClaims {
		if value, ok := mapClaims[name].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
