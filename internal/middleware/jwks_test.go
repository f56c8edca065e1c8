package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func jwksBody(t *testing.T, kid string, pub *rsa.PublicKey) string {
	t.Helper()
	n := base64.RawURLEncoding.EncodeToString(pub.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes())
	return fmt.Sprintf(`{"keys":[{"kid":%q,"kty":"RSA","n":%q,"e":%q}]}`, kid, n, e)
}

func TestFetchJWKSRoundTripsRSAKey(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, jwksBody(t, "key-1", &priv.PublicKey))
	}))
	defer srv.Close()

	keys, err := FetchJWKS(srv.URL)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	got, ok := keys["key-1"]
	require.True(t, ok)
	require.Zero(t, got.N.Cmp(priv.PublicKey.N))
	require.Equal(t, priv.PublicKey.E, got.E)
}

func TestFetchJWKSSkipsNonRSAAndFailsWhenEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"keys":[{"kid":"ec-1","kty":"EC","n":"","e":""}]}`)
	}))
	defer srv.Close()

	_, err := FetchJWKS(srv.URL)
	require.Error(t, err, "a set with no usable RSA keys is an error")
}

func TestFetchJWKSBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := FetchJWKS(srv.URL)
	require.Error(t, err)
}
