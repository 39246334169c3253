package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := Generate("secreto", "user-1", "ana@tienda.co", 5)
	require.NoError(t, err)

	userID, email, err := Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "ana@tienda.co", email)
}

func TestParse_Rechazos(t *testing.T) {
	token, err := Generate("secreto", "user-1", "ana@tienda.co", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", token)
	assert.Error(t, err, "firma incorrecta")

	expired, err := Generate("secreto", "user-1", "ana@tienda.co", -1)
	require.NoError(t, err)
	_, _, err = Parse("secreto", expired)
	assert.Error(t, err, "token expirado")

	_, _, err = Parse("", token)
	assert.Error(t, err)

	noSubject, err := Generate("secreto", "", "x@y.co", 5)
	require.NoError(t, err)
	_, _, err = Parse("secreto", noSubject)
	assert.Error(t, err)
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func TestParse_AudienciaYRol(t *testing.T) {
	exp := jwt.NewNumericDate(time.Now().Add(time.Minute))

	anon := sign(t, jwt.SigningMethodHS256, []byte("secreto"), Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", Audience: jwt.ClaimStrings{"authenticated"}, ExpiresAt: exp},
		Role:             "anon",
	})
	_, _, err := Parse("secreto", anon)
	assert.Error(t, err, "token anónimo")

	otherAud := sign(t, jwt.SigningMethodHS256, []byte("secreto"), Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", Audience: jwt.ClaimStrings{"service"}, ExpiresAt: exp},
		Role:             "authenticated",
	})
	_, _, err = Parse("secreto", otherAud)
	assert.Error(t, err, "audiencia distinta")

	hs512 := sign(t, jwt.SigningMethodHS512, []byte("secreto"), Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", Audience: jwt.ClaimStrings{"authenticated"}, ExpiresAt: exp},
		Role:             "authenticated",
	})
	_, _, err = Parse("secreto", hs512)
	assert.Error(t, err, "solo HS256")

	noExp := sign(t, jwt.SigningMethodHS256, []byte("secreto"), Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", Audience: jwt.ClaimStrings{"authenticated"}},
		Role:             "authenticated",
	})
	_, _, err = Parse("secreto", noExp)
	assert.Error(t, err, "sin expiración")
}
