// internal/middleware/auth.go
package middleware

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "maw-backend/pkg/errors"
	"maw-backend/pkg/utils"
)

// JWT claims issued by the hosted auth provider
type AuthClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWKS structures
type JWKS struct {
	Keys []JWK `json:"keys"`
}

type JWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
	Alg string `json:"alg"`
}

// Auth middleware validates bearer JWT tokens using RS256 against the auth
// provider's JWKS endpoint and puts the caller identity on the context.
func Auth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"authentication token not found",
				))
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"invalid authorization format. Expected: Bearer <token>",
				))
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"bearer token is empty",
				))
				return
			}

			claims, err := verifyToken(tokenString)
			if err != nil {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"authentication failed: "+err.Error(),
				))
				return
			}

			if claims.Subject == "" {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"subject not found in token",
				))
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, claims.Subject)
			ctx = context.WithValue(ctx, emailContextKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type contextKey string

const (
	userIDContextKey contextKey = "userID"
	emailContextKey  contextKey = "email"
)

// GetUserIDFromContext extracts the authenticated user id
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok
}

// GetEmailFromContext extracts the authenticated email
func GetEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailContextKey).(string)
	return email, ok
}

// verifyToken verifies the bearer JWT using RS256
func verifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("kid not found in token header")
		}

		publicKey, err := getPublicKeyFromJWKS(kid)
		if err != nil {
			return nil, fmt.Errorf("failed to get public key: %v", err)
		}

		return publicKey, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	issuerURL := os.Getenv("AUTH_ISSUER_URL")
	if issuerURL == "" {
		return nil, fmt.Errorf("AUTH_ISSUER_URL environment variable not set")
	}

	if claims.Issuer != issuerURL {
		return nil, fmt.Errorf("invalid issuer")
	}

	return claims, nil
}

// getPublicKeyFromJWKS fetches the public key from the JWKS endpoint
func getPublicKeyFromJWKS(kid string) (*rsa.PublicKey, error) {
	issuerURL := os.Getenv("AUTH_ISSUER_URL")
	if issuerURL == "" {
		return nil, fmt.Errorf("AUTH_ISSUER_URL environment variable not set")
	}

	jwksURL := os.Getenv("AUTH_JWKS_URI")
	if jwksURL == "" {
		jwksURL = issuerURL + "/.well-known/jwks.json"
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	resp, err := client.Get(jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %v", err)
	}

	for _, key := range jwks.Keys {
		if key.Kid == kid {
			return jwkToRSAPublicKey(key)
		}
	}

	return nil, fmt.Errorf("key with kid %s not found", kid)
}

// jwkToRSAPublicKey converts a JWK to an RSA public key
func jwkToRSAPublicKey(jwk JWK) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %v", err)
	}

	eb, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %v", err)
	}

	n := new(big.Int).SetBytes(nb)
	e := new(big.Int).SetBytes(eb)

	publicKey := &rsa.PublicKey{
		N: n,
		E: int(e.Int64()),
	}

	return publicKey, nil
}
