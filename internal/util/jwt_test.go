package util

import (
	"istqb_study_backend/internal/model"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", model.Admin, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, model.Admin, claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParseJWTRejects(t *testing.T) {
	token, err := GenerateJWT("user-1", model.Student, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "another-secret")
	assert.Error(t, err)

	expired, err := GenerateJWT("user-1", model.Student, testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = ParseJWT("not-a-token", testSecret)
	assert.Error(t, err)
}

func TestParseJWTSubjectFallback(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "external-user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	parsed, err := ParseJWT(signed, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "external-user", parsed.UserID)

	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = ParseJWT(anonymous, testSecret)
	assert.Error(t, err)
}
