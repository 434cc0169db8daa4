package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(7, "jsilva", "manager", 3, "brasa")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "jsilva", claims.Username)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, int64(3), claims.StoreID)
	assert.Equal(t, "brasa", claims.CompanyID)
	assert.Equal(t, "brasa-ops-backend", claims.Issuer)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)

	token, err := GenerateAccessToken(7, "jsilva", "manager", 3, "brasa")
	require.NoError(t, err)
	_, err = ValidateToken(token + "tampered")
	assert.Error(t, err)
}
