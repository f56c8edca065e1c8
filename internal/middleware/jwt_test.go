package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/jdrivas/gtm/internal/model"
)

const (
	testAudience = "https://gtm-api.test"
	testIssuer   = "https://issuer.test/"
)

func signToken(t *testing.T, priv *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	raw, err := token.SignedString(priv)
	require.NoError(t, err)
	return raw
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":      "auth0|abc123",
		"aud":      testAudience,
		"iss":      testIssuer,
		"exp":      time.Now().Add(time.Hour).Unix(),
		claimEmail: "pat@example.com",
		claimName:  "Pat Member",
	}
}

func runJWT(t *testing.T, keys KeySet, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := JWTAuth(keys, testAudience, testIssuer)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuthAcceptsValidTokenAndLoadsIdentity(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keys := KeySet{"k1": &priv.PublicKey}

	claims := baseClaims()
	claims[claimRoles] = []any{"admin"}
	raw := signToken(t, priv, "k1", claims)

	rec, c := runJWT(t, keys, "Bearer "+raw)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "auth0|abc123", c.Get(CtxSubject))
	require.Equal(t, "pat@example.com", c.Get(CtxEmail))
	require.Equal(t, "Pat Member", c.Get(CtxName))
	require.Equal(t, model.RoleAdmin, c.Get(CtxRole))
}

func TestJWTAuthDefaultsToMemberRole(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keys := KeySet{"k1": &priv.PublicKey}

	raw := signToken(t, priv, "k1", baseClaims())
	rec, c := runJWT(t, keys, "Bearer "+raw)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, model.RoleMember, c.Get(CtxRole))
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keys := KeySet{"k1": &priv.PublicKey}

	claims := baseClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	raw := signToken(t, priv, "k1", claims)

	rec, _ := runJWT(t, keys, "Bearer "+raw)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongAudience(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keys := KeySet{"k1": &priv.PublicKey}

	claims := baseClaims()
	claims["aud"] = "https://other.test"
	raw := signToken(t, priv, "k1", claims)

	rec, _ := runJWT(t, keys, "Bearer "+raw)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsUnknownKid(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keys := KeySet{"k1": &priv.PublicKey}

	raw := signToken(t, priv, "other-key", baseClaims())
	rec, _ := runJWT(t, keys, "Bearer "+raw)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	keys := KeySet{}
	for _, header := range []string{"", "Token abc", "Bearer"} {
		rec, _ := runJWT(t, keys, header)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}
