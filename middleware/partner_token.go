// middleware/partner_token.go
package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/lestrrat-go/jwx/jwk"

	"github.com/ihexyousex/mangalore-properties-sub000/models"
)

// PartnerIdentity is the verified identity of an external listing partner
// (builder portals and channel partners submit on behalf of their agents).
type PartnerIdentity struct {
	Subject string
	Email   string
}

// VerifyPartnerToken verifies a partner-issued JWT against the identity
// provider's published JWKS and returns the caller's identity.
func VerifyPartnerToken(ctx context.Context, tokenString string) (*PartnerIdentity, error) {
	jwksURL := os.Getenv("PARTNER_JWKS_URL")
	if jwksURL == "" {
		return nil, errors.New("partner token verification is not configured")
	}

	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, errors.New("invalid token format")
	}
	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, errors.New("invalid token header")
	}
	var header struct {
		Kid string `json:"kid"`
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, errors.New("invalid token header JSON")
	}

	jwkSet, err := jwk.Fetch(ctx, jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch partner public keys: %w", err)
	}

	key, found := jwkSet.LookupKeyID(header.Kid)
	if !found {
		return nil, errors.New("partner public key not found")
	}

	var pubkey interface{}
	if err := key.Raw(&pubkey); err != nil {
		return nil, fmt.Errorf("failed to parse partner public key: %w", err)
	}

	parsedToken, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != header.Alg {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return pubkey, nil
	})
	if err != nil || !parsedToken.Valid {
		return nil, errors.New("invalid or expired partner token")
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to parse token claims")
	}

	subject, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if subject == "" {
		return nil, errors.New("partner subject not found in token")
	}

	return &PartnerIdentity{Subject: subject, Email: email}, nil
}

// PartnerAuth verifies the bearer token on partner API routes and stores
// the resulting identity on the context under "partner".
func PartnerAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if authHeader == "" || tokenString == authHeader {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Missing partner token",
				})
			}

			identity, err := VerifyPartnerToken(c.Request().Context(), tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: err.Error(),
				})
			}

			c.Set("partner", identity)
			return next(c)
		}
	}
}
