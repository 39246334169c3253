package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const audienceAuthenticated = "authenticated"

// Claims claims de un access token del servicio de identidad (GoTrue/Supabase).
// Subject es el id del usuario.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"` // "authenticated" para usuarios con sesión
}

// Generate firma un token HS256 con el formato del servicio de identidad. Lo usan pruebas y herramientas locales.
func Generate(secret, userID, email string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{audienceAuthenticated},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Email: email,
		Role:  audienceAuthenticated,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma HS256, expiración y audiencia "authenticated"; devuelve userID y email.
// Los tokens anónimos (rol anon) no identifican un usuario y se rechazan.
func Parse(secret, tokenString string) (userID, email string, err error) {
	if secret == "" {
		return "", "", fmt.Errorf("jwt: secret vacío")
	}
	var claims Claims
	_, err = jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audienceAuthenticated),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", "", err
	}
	if claims.Role != audienceAuthenticated {
		return "", "", fmt.Errorf("jwt: rol %q sin sesión de usuario", claims.Role)
	}
	if claims.Subject == "" {
		return "", "", fmt.Errorf("jwt: token sin subject")
	}
	return claims.Subject, claims.Email, nil
}
