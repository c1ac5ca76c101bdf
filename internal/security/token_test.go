package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager(t *testing.T) {
	m := NewTokenManager(testSecret, "hotelcore", time.Hour)

	t.Run("Round trip", func(t *testing.T) {
		token, err := m.GenerateAccessToken(11, 7, []string{"frontdesk"})
		require.NoError(t, err)

		claims, err := m.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, int64(11), claims.UserID)
		assert.Equal(t, int64(7), claims.PropertyID)
		assert.Equal(t, []string{"frontdesk"}, claims.Roles)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := NewTokenManager("another-secret-another-secret-xx", "hotelcore", time.Hour).GenerateAccessToken(1, 7, nil)
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		claims := StaffClaims{
			UserID: 1, PropertyID: 7, Type: TokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				Issuer:    "hotelcore",
				Audience:  jwt.ClaimStrings{accessAudience},
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Missing property", func(t *testing.T) {
		token, err := m.GenerateAccessToken(1, 0, nil)
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrNoProperty)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := m.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
