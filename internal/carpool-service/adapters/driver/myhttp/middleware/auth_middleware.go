package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"decarpool/internal/carpool-service/adapters/driver/myhttp/handle"

	"github.com/golang-jwt/jwt"
)

type AuthMiddleware struct {
	accessSecret string
}

func NewAuthMiddleware(accessSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		accessSecret: accessSecret,
	}
}

// Wrap checks the bearer token and forwards the authenticated user id in
// the X-UserId header. The OTP step-up, if any, already happened at
// login; handlers behind this middleware assume full authentication.
func (am *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("empty bearer token"))
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		userID, err := am.ParseUserID(tokenString)
		if err != nil {
			handle.JsonError(w, http.StatusUnauthorized, err)
			return
		}

		r.Header.Set("X-UserId", userID)

		next.ServeHTTP(w, r)
	})
}

// ParseUserID validates a signed token and extracts the user id claim.
// Also used by the websocket feed, which carries the token as a query
// parameter instead of a header.
func (am *AuthMiddleware) ParseUserID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(am.accessSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token")
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user id not found in token")
	}

	return userID, nil
}
