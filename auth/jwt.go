package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

const fallbackName = "Player"

// ErrInvalidClaims is returned for a token that parses but carries no usable identity.
var ErrInvalidClaims = errors.New("invalid token claims")

// Validator checks Neon Auth JWTs against the project's JWKS.
// The JWKS client is created once and refreshes keys in the background until ctx ends.
type Validator struct {
	issuer  string
	keyfunc jwt.Keyfunc
}

// NewValidator creates a Validator for baseURL (e.g. from NEON_AUTH_BASE_URL).
// If baseURL is empty, NewValidator returns (nil, nil) and sign-in is disabled.
func NewValidator(ctx context.Context, baseURL string) (*Validator, error) {
	if baseURL == "" {
		return nil, nil
	}
	baseURL = strings.TrimRight(baseURL, "/")
	issuer, err := issuerFromBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{baseURL + "/.well-known/jwks.json"})
	if err != nil {
		return nil, fmt.Errorf("jwks: %w", err)
	}
	return &Validator{issuer: issuer, keyfunc: jwks.Keyfunc}, nil
}

func issuerFromBaseURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base URL: %q", baseURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// Claims validates tokenString and returns its claims.
func (v *Validator) Claims(tokenString string) (jwt.MapClaims, error) {
	if v == nil {
		return nil, errors.New("auth is not configured")
	}
	token, err := jwt.Parse(tokenString, v.keyfunc,
		jwt.WithIssuer(v.issuer),
		jwt.WithValidMethods([]string{"EdDSA"}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// Validate returns the user ID and first name carried by a valid token.
func (v *Validator) Validate(tokenString string) (userID, name string, err error) {
	claims, err := v.Claims(tokenString)
	if err != nil {
		return "", "", err
	}
	userID = UserIDFromClaims(claims)
	if userID == "" {
		return "", "", ErrInvalidClaims
	}
	return userID, FirstNameFromClaims(claims), nil
}

// FirstNameFromClaims returns the first word of the "name" claim, or a fallback.
func FirstNameFromClaims(claims jwt.MapClaims) string {
	name, _ := claims["name"].(string)
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return fallbackName
	}
	return parts[0]
}

// UserIDFromClaims returns the user id from claims ("sub" or "id").
func UserIDFromClaims(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		return id
	}
	return ""
}
