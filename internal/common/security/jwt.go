package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NewTokenAuth builds the HS256 signer/verifier used by the dev backend.
func NewTokenAuth(secret []byte) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", secret, nil)
}

func GenerateToken(auth *jwtauth.JWTAuth, userID int64, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := map[string]interface{}{
		"sub":     strconv.FormatInt(userID, 10),
		"user_id": strconv.FormatInt(userID, 10),
		"role":    role,
		"jti":     uuid.NewString(),
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := auth.Encode(claims)
	return tokenString, err
}

// Helper functions to extract claims, can be used in middleware or handlers
func GetUserIDFromClaims(claims map[string]interface{}) (int64, error) {
	raw, ok := claims["user_id"].(string)
	if !ok {
		return 0, errors.New("user_id claim is missing or not a string")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("user_id claim is not numeric")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims map[string]interface{}) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}

// TokenExpired reports whether credential is a JWT whose exp claim lies
// before now. The signature is not checked: the client cannot verify it and
// only needs to know whether a restored credential is already dead. Opaque
// tokens and JWTs without exp are never considered expired.
func TokenExpired(credential string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
