package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmehra2102/ListForge/pkg/auth"
	"github.com/golang-jwt/jwt/v5"
)

// Auth requires an HS256 bearer token carrying "sub" and optional "roles".
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "missing authorization header")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid authorization header format")
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token claims")
				return
			}

			subject, err := claims.GetSubject()
			if err != nil || subject == "" {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "token has no subject")
				return
			}

			p := &auth.Principal{
				Subject: subject,
				Roles:   extractRoles(claims["roles"]),
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithPrincipal(r.Context(), p)))
		})
	}
}

func extractRoles(rolesInterface any) []string {
	if rolesInterface == nil {
		return []string{}
	}

	rolesSlice, ok := rolesInterface.([]any)
	if !ok {
		return []string{}
	}

	roles := make([]string, 0, len(rolesSlice))
	for _, role := range rolesSlice {
		if roleStr, ok := role.(string); ok {
			roles = append(roles, roleStr)
		}
	}

	return roles
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: errorBody{Code: code, Message: message}})
}
