package auth

import (
	"testing"
	"time"

	"storefront-be/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_IssueAndParse(t *testing.T) {
	issuer := NewIssuer("testsecret", time.Hour)
	u := &user.User{ID: "u1", Email: "a@test.com", Role: user.RoleAdmin}

	token, err := issuer.Issue(u)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "a@test.com", claims.Email)
	assert.Equal(t, user.RoleAdmin, claims.Role)
}

func TestIssuer_NoSecret(t *testing.T) {
	issuer := NewIssuer("", time.Hour)

	_, err := issuer.Issue(&user.User{ID: "u1"})
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = issuer.Parse("anything")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestIssuer_Parse(t *testing.T) {
	issuer := NewIssuer("testsecret", time.Hour)
	token, _ := issuer.Issue(&user.User{ID: "u1"})

	t.Run("WrongSecret", func(t *testing.T) {
		_, err := NewIssuer("other", time.Hour).Parse(token)
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := issuer.Parse("invalid.token.string")
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		expired := NewIssuer("testsecret", time.Minute)
		expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
		old, err := expired.Issue(&user.User{ID: "u1"})
		require.NoError(t, err)

		_, err = issuer.Parse(old)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("WrongMethod", func(t *testing.T) {
		none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
		})
		str, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuer.Parse(str)
		assert.Error(t, err)
	})
}
