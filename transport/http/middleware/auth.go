package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"fieldbook/config"
	"fieldbook/infras/jwt"
	"fieldbook/infras/otel"
	"fieldbook/permissions"
	"fieldbook/shared/constant"
	"fieldbook/shared/failure"
	"fieldbook/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// internalCallerKey marks requests already admitted by a valid API key.
type internalCallerKey struct{}

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole is the whole access chain, mounted as APIKey, Auth, RBAC in that order.
type AuthRole interface {
	Auth
	Role
}

// tokenErrors turns token failures into client-facing messages, checked in order.
var tokenErrors = []struct {
	err     error
	message string
}{
	{jwt.ErrMissingToken, "Missing authorization header"},
	{jwt.ErrExpiredToken, "Token has expired"},
	{jwt.ErrInvalidClaim, "Invalid token claims"},
	{jwt.ErrInvalidToken, "Invalid token"},
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

func tokenErrorMessage(err error) string {
	for _, candidate := range tokenErrors {
		if errors.Is(err, candidate.err) {
			return candidate.message
		}
	}

	return "Token validation failed"
}

func withCaller(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)

	return context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)
}

func isInternal(ctx context.Context) bool {
	internal, _ := ctx.Value(internalCallerKey{}).(bool)

	return internal
}

// routePermission resolves the chi pattern the request will hit, since permissions are keyed
// by pattern rather than by concrete path.
func (m *authRoleImpl) routePermission(request *http.Request) (string, permissions.Permission) {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || m.permission == nil {
		return request.URL.Path, permissions.Permission{}
	}

	pattern := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)

	return pattern, m.permission.FindPermissions(pattern, request.Method)
}

// Auth verifies the bearer token issued by the identity service and puts the caller on the context.
// With auth disabled every request runs as the system user.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		if !m.cfg.App.Auth.Enable {
			next.ServeHTTP(writer, request.WithContext(context.WithValue(ctx, constant.ContextKeyUserID, constant.SystemUser)))

			return
		}

		pattern, permission := m.routePermission(request)
		if isInternal(ctx) || permission.Skip {
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"http.route":  pattern,
			"http.method": request.Method,
		})

		claims, err := m.authenticate(request)
		if err != nil {
			log.Warn().Err(err).Str("route", pattern).Msg("rejected bearer token")

			err = failure.Unauthorized(tokenErrorMessage(err))
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		scope.SetAttribute("user.role", claims.Role)

		next.ServeHTTP(writer, request.WithContext(withCaller(ctx, claims)))
	})
}

func (m *authRoleImpl) authenticate(request *http.Request) (*jwt.Claims, error) {
	token, err := jwt.ExtractTokenFromHeader(request.Header.Get(constant.RequestHeaderAuthorization))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return m.jwtService.ValidateToken(token) //nolint:wrapcheck
}

// RBAC checks the caller's role against the route's permission entry. Runs after Auth.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if !m.cfg.App.Auth.Enable || isInternal(ctx) {
			next.ServeHTTP(writer, request)

			return
		}

		if m.permission == nil {
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		pattern, permission := m.routePermission(request)
		if m.permission.Skip || permission.Skip {
			next.ServeHTTP(writer, request)

			return
		}

		role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
		if !permission.Allows(role) {
			scope.TraceError(failure.ForbiddenError)
			scope.SetAttributes(map[string]any{
				"http.route":    pattern,
				"user.role":     role,
				"allowed_roles": permission.Permissions,
			})
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// APIKey lets internal callers through with the shared key instead of a bearer token.
// Requests without the header continue to Auth untouched.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		key := request.Header.Get(constant.RequestHeaderAPIKey)
		if key == "" {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		expected := m.cfg.App.APIKey
		if expected == "" || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		ctx = context.WithValue(ctx, internalCallerKey{}, true)
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.SystemUser)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
