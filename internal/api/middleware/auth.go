package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dom/matchup-companion/internal/service"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
)

// Authenticate attaches the bearer token's claims to the request context.
// Requests without a usable token continue anonymously; RequireAuth
// rejects them where a user is needed.
func Authenticate(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.ValidateToken(token)
			if err != nil {
				log.WithError(err).WithField("path", r.URL.Path).Debug("[middleware.Authenticate] ignoring invalid token")
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth answers 401 unless Authenticate found a valid token.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetPrincipal(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RejectGuests answers 403 for guest accounts. It must run after
// RequireAuth.
func RejectGuests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := GetPrincipal(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if principal.IsGuest {
			writeError(w, http.StatusForbidden, "Guest accounts cannot modify data. Please register to contribute.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole answers 403 unless the principal holds role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !principal.HasRole(role) {
				writeError(w, http.StatusForbidden, "This action requires the "+role+" role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetPrincipal(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(PrincipalKey).(*service.Claims)
	return claims, ok && claims != nil
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := GetPrincipal(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
