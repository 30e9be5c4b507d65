package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"planner-server/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("user-1", secret, time.Hour, time.Now())
	require.NoError(t, err)

	id, err := UserIDFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestUserIDFromToken_Rejects(t *testing.T) {
	expired, err := GenerateToken("user-1", secret, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	otherKey, err := GenerateToken("user-1", []byte("other"), time.Hour, time.Now())
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong key", otherKey},
		{"alg none", unsigned},
		{"garbage", "not-a-token"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UserIDFromToken(tt.token, secret)
			assert.ErrorIs(t, err, common.ErrUnauthorized)
		})
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "argon2id$"))
	assert.NotContains(t, hash, "s3cret")

	again, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salt must differ")

	assert.True(t, VerifyPassword("s3cret", hash))
	assert.False(t, VerifyPassword("wrong", hash))
	assert.False(t, VerifyPassword("s3cret", "s3cret"))
	assert.False(t, VerifyPassword("s3cret", "argon2id$zz$zz"))
}

func TestContextIdentity(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	id, ok := UserIDFromContext(WithUserID(context.Background(), "u1"))
	assert.True(t, ok)
	assert.Equal(t, "u1", id)
}
