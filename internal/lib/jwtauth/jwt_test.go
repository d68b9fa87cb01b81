package jwtauth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestNewAndParseToken(t *testing.T) {
	token, issued, err := NewToken("E001", "Anna", "supervisor", []int64{1, 2, 3}, secret, 10*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)

	assert.Equal(t, "E001", claims.EmployeeID)
	assert.Equal(t, "Anna", claims.EmployeeName)
	assert.Equal(t, "supervisor", claims.Role)
	assert.Equal(t, []int64{1, 2, 3}, claims.Permissions)
	assert.Equal(t, issued.ID, claims.ID)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseToken_Rejects(t *testing.T) {
	token, _, err := NewToken("E001", "Anna", "worker", nil, secret, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("other-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := NewToken("E001", "Anna", "worker", nil, secret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{EmployeeID: "E001"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(none, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHasPermissions(t *testing.T) {
	c := &Claims{Permissions: []int64{1, 2}}

	assert.True(t, c.HasPermissions())
	assert.True(t, c.HasPermissions(2))
	assert.False(t, c.HasPermissions(2, 3))
}
