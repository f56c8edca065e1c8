package middleware

// jwt.go validates RS256 bearer tokens issued by the external identity
// provider and loads the caller's identity into the echo context. The
// provider is the source of truth for identity; this service never
// mints tokens of its own.

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/jdrivas/gtm/internal/model"
)

// Namespaced custom claims. The provider is configured to stamp these
// onto every access token via a post-login action.
const (
	claimEmail = "https://gtm-api.momentlabs.io/email"
	claimName  = "https://gtm-api.momentlabs.io/name"
	claimRoles = "https://gtm-api.momentlabs.io/roles"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxSubject = "subject"
	CtxEmail   = "email"
	CtxName    = "name"
	CtxRole    = "role"
)

// JWTAuth verifies the Authorization bearer token against the key set
// and the expected audience and issuer, then stores subject, email,
// name and the derived role in the context. The role is "admin" only
// when the roles claim contains it; everything else is a member.
func JWTAuth(keys KeySet, audience, issuer string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing or malformed authorization header"})
			}

			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				kid, _ := t.Header["kid"].(string)
				key, ok := keys[kid]
				if !ok {
					return nil, fmt.Errorf("unknown key id %q", kid)
				}
				return key, nil
			},
				jwt.WithValidMethods([]string{"RS256"}),
				jwt.WithAudience(audience),
				jwt.WithIssuer(issuer),
			)
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token claims"})
			}
			sub, _ := claims["sub"].(string)
			if sub == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "token missing subject"})
			}

			email, _ := claims[claimEmail].(string)
			name, _ := claims[claimName].(string)
			if name == "" {
				name = email
			}

			c.Set(CtxSubject, sub)
			c.Set(CtxEmail, email)
			c.Set(CtxName, name)
			c.Set(CtxRole, roleFromClaims(claims))
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return "", fmt.Errorf("no authorization header")
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("malformed authorization header")
	}
	return parts[1], nil
}

// roleFromClaims maps the provider's roles array to the service's two
// roles. Anything that is not explicitly admin is a member.
func roleFromClaims(claims jwt.MapClaims) string {
	roles, ok := claims[claimRoles].([]interface{})
	if !ok {
		return model.RoleMember
	}
	for _, r := range roles {
		if s, ok := r.(string); ok && s == model.RoleAdmin {
			return model.RoleAdmin
		}
	}
	return model.RoleMember
}
