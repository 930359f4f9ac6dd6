package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"unibook/config"
	"unibook/infras/jwt"
	"unibook/infras/otel"
	userModel "unibook/internal/domains/user/model"
	"unibook/permissions"
	"unibook/shared/constant"
	"unibook/shared/failure"
	"unibook/shared/principal"
	"unibook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Auth authenticates callers, by bearer token or by the internal API key.
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role authorises authenticated callers against permissions.json.
type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

// internalCaller marks requests that presented a valid API key.
type internalCaller struct{}

func isInternal(ctx context.Context) bool {
	internal, _ := ctx.Value(internalCaller{}).(bool)

	return internal
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

// routePattern resolves the full chi pattern (for example /v1/bookings/{id}) of the request.
// Middlewares of a Group run before the sub-router matched, so the root tree is searched again.
func routePattern(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path
	}

	pattern := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
	if pattern == constant.Empty {
		return request.URL.Path
	}

	if len(pattern) > 1 {
		pattern = strings.TrimSuffix(pattern, "/")
	}

	return pattern
}

func (m *authRoleImpl) public(request *http.Request, path string) bool {
	return m.permission != nil && m.permission.Find(path, request.Method).Skip
}

// Auth validates the bearer token and stores the principal in the request context.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		path := routePattern(request)
		if isInternal(ctx) || m.public(request, path) {
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		caller, err := m.authenticate(request.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			scope.TraceError(err)
			response.WithError(writer, request, err)

			return
		}

		next.ServeHTTP(writer, request.WithContext(principal.WithPrincipal(request.Context(), caller)))
	})
}

func (m *authRoleImpl) authenticate(header string) (principal.Principal, error) {
	if header == constant.Empty {
		return principal.Principal{}, failure.Unauthorized("missing authorization header") //nolint:wrapcheck
	}

	token, err := jwt.ExtractTokenFromHeader(header)
	if err != nil {
		return principal.Principal{}, failure.Unauthorized("invalid authorization header format") //nolint:wrapcheck
	}

	claims, err := m.jwtService.ValidateToken(token)
	if err != nil {
		return principal.Principal{}, failure.Unauthorized(tokenProblem(err)) //nolint:wrapcheck
	}

	role, ok := userModel.ParseRole(claims.Role)
	if !ok {
		log.Warn().Str("role", claims.Role).Str("userID", claims.UserID).Msg("token carries an unknown role")

		return principal.Principal{}, failure.Unauthorized("invalid token claims") //nolint:wrapcheck
	}

	return principal.Principal{UserID: claims.UserID, Email: claims.Email, Role: role}, nil
}

func tokenProblem(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return "token has expired"
	case errors.Is(err, jwt.ErrInvalidClaim):
		return "invalid token claims"
	default:
		return "invalid token"
	}
}

// RBAC allows the request when the caller's role is listed for the route. A missing permission table denies
// every request.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if isInternal(ctx) {
			next.ServeHTTP(writer, request)

			return
		}

		if m.permission == nil {
			response.WithError(writer, request, failure.ForbiddenError)

			return
		}

		endpoint := m.permission.Find(routePattern(request), request.Method)
		caller, _ := principal.FromContext(ctx)

		if !m.permission.Skip && !endpoint.Allows(caller.Role.String()) {
			scope.TraceError(failure.ForbiddenError)
			scope.SetAttributes(map[string]any{
				"user_role":     caller.Role.String(),
				"allowed_roles": endpoint.Roles,
			})
			response.WithError(writer, request, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// APIKey marks requests carrying the configured X-API-Key as internal. A wrong key is rejected outright;
// an absent one falls through to token authentication.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		presented := request.Header.Get(constant.RequestHeaderAPIKey)
		if presented == constant.Empty {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		expected := m.cfg.App.APIKey
		if expected == constant.Empty || subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) != 1 {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, request, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(writer, request.WithContext(context.WithValue(ctx, internalCaller{}, true)))
	})
}
