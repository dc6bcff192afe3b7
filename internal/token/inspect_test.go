package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestInspect_SignedToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signedTestToken(t, jwt.MapClaims{
		"sub": "auth0|123",
		"iss": "https://tenant.auth0.com/",
		"aud": "https://api.pitchperfect.app",
		"exp": exp.Unix(),
	})

	info, err := Inspect(tok)

	require.NoError(t, err)
	assert.Equal(t, 3, info.Segments)
	assert.False(t, info.Encrypted)
	assert.Equal(t, "auth0|123", info.Subject)
	assert.Equal(t, "https://tenant.auth0.com/", info.Issuer)
	assert.Equal(t, []string{"https://api.pitchperfect.app"}, info.Audience)
	require.NotNil(t, info.ExpiresAt)
	assert.Equal(t, exp.Unix(), info.ExpiresAt.Unix())
}

func TestInspect_EncryptedTokenNotParsed(t *testing.T) {
	info, err := Inspect("header.encryptedkey.iv.ciphertext.tag")

	require.NoError(t, err)
	assert.Equal(t, 5, info.Segments)
	assert.True(t, info.Encrypted)
	assert.Empty(t, info.Subject)
}

func TestInspect_UnreadablePayloadStillReportsShape(t *testing.T) {
	info, err := Inspect("not.base64.claims")

	require.NoError(t, err)
	assert.Equal(t, 3, info.Segments)
	assert.Empty(t, info.Subject)
}

func TestInspect_MalformedTokenRejected(t *testing.T) {
	_, err := Inspect("opaque-token")
	assert.Error(t, err)
}

func TestInspect_Preview(t *testing.T) {
	tok := signedTestToken(t, jwt.MapClaims{"sub": "auth0|123"})

	info, err := Inspect(tok)

	require.NoError(t, err)
	assert.Len(t, info.Preview, 23)
	assert.Contains(t, info.Preview, "...")
	assert.Equal(t, len(tok), info.Length)
}
