package middleware

// jwks.go fetches the identity provider's JSON Web Key Set at startup
// and turns it into RSA public keys for RS256 token verification. Keys
// are matched to tokens by kid. The set is fetched once; a provider
// key rotation requires a process restart.

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"time"
)

type jwksResponse struct {
	Keys []jwkKey `json:"keys"`
}

type jwkKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// KeySet maps key ids to RSA public keys.
type KeySet map[string]*rsa.PublicKey

// FetchJWKS retrieves the key set from the given URL. Malformed
// individual keys are skipped with a warning; an empty result is an
// error since no token could ever verify.
func FetchJWKS(url string) (KeySet, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("jwks fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks fetch: unexpected status %s", resp.Status)
	}

	var body jwksResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("jwks decode: %w", err)
	}

	keys := make(KeySet)
	for _, k := range body.Keys {
		if k.Kid == "" || k.Kty != "RSA" {
			continue
		}
		pub, err := rsaKeyFromJWK(k)
		if err != nil {
			log.Printf("jwks: skipping key kid=%s: %v", k.Kid, err)
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("jwks: no usable RSA keys at %s", url)
	}
	log.Printf("jwks: loaded %d keys from %s", len(keys), url)
	return keys, nil
}

func rsaKeyFromJWK(k jwkKey) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("exponent: %w", err)
	}
	e := 0
	for _, b := range eb {
		e = e<<8 | int(b)
	}
	if e <= 0 {
		return nil, fmt.Errorf("non-positive exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}, nil
}
