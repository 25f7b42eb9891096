package auth

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://auth.example.test"

func newTestValidator(t *testing.T) (*Validator, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	v := &Validator{
		issuer:  testIssuer,
		keyfunc: func(*jwt.Token) (any, error) { return pub, nil },
	}
	return v, priv
}

func sign(t *testing.T, key ed25519.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestValidate(t *testing.T) {
	v, key := newTestValidator(t)
	token := sign(t, key, jwt.MapClaims{
		"iss":  testIssuer,
		"sub":  "user-42",
		"name": "  Grace Hopper ",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	userID, name, err := v.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
	assert.Equal(t, "Grace", name)
}

func TestValidateRejects(t *testing.T) {
	v, key := newTestValidator(t)
	_, otherKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{"wrong issuer", sign(t, key, jwt.MapClaims{"iss": "https://evil.test", "sub": "u", "exp": future})},
		{"expired", sign(t, key, jwt.MapClaims{"iss": testIssuer, "sub": "u", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"wrong key", sign(t, otherKey, jwt.MapClaims{"iss": testIssuer, "sub": "u", "exp": future})},
		{"no subject", sign(t, key, jwt.MapClaims{"iss": testIssuer, "exp": future})},
		{"garbage", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := v.Validate(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestValidateRejectsOtherAlgorithms(t *testing.T) {
	v, _ := newTestValidator(t)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"iss": testIssuer, "sub": "u"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = v.Claims(token)
	assert.Error(t, err)
}

func TestNilValidator(t *testing.T) {
	var v *Validator
	_, _, err := v.Validate("anything")
	assert.Error(t, err)
}

func TestNewValidatorWithoutBaseURL(t *testing.T) {
	v, err := NewValidator(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestIssuerFromBaseURL(t *testing.T) {
	iss, err := issuerFromBaseURL("https://ep-1.neonauth.example.com/neondb/auth")
	require.NoError(t, err)
	assert.Equal(t, "https://ep-1.neonauth.example.com", iss)

	_, err = issuerFromBaseURL("not a url")
	assert.Error(t, err)
}

func TestFirstNameFromClaims(t *testing.T) {
	assert.Equal(t, "Ada", FirstNameFromClaims(jwt.MapClaims{"name": "Ada Lovelace"}))
	assert.Equal(t, "Player", FirstNameFromClaims(jwt.MapClaims{"name": "   "}))
	assert.Equal(t, "Player", FirstNameFromClaims(jwt.MapClaims{}))
	assert.Equal(t, "Player", FirstNameFromClaims(jwt.MapClaims{"name": 7}))
}

func TestUserIDFromClaims(t *testing.T) {
	assert.Equal(t, "s", UserIDFromClaims(jwt.MapClaims{"sub": "s", "id": "i"}))
	assert.Equal(t, "i", UserIDFromClaims(jwt.MapClaims{"id": "i"}))
	assert.Equal(t, "", UserIDFromClaims(jwt.MapClaims{"sub": ""}))
}
