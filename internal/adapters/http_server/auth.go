package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"

	"real_estate/internal/domain"
)

const tokenCookie = "jwt"

type ctxKey int

const (
	userKey ctxKey = iota
	principalKey
)

// PrincipalLoader resolves a verified user id to an admin principal.
type PrincipalLoader interface {
	Principal(ctx context.Context, userID string) (domain.Principal, error)
}

// Auth verifies HS256 access tokens signed with the project's JWT secret.
type Auth struct {
	secret []byte
	admins PrincipalLoader
}

func NewAuth(secret string, admins PrincipalLoader) *Auth {
	return &Auth{secret: []byte(secret), admins: admins}
}

func bearerToken(r *http.Request) string {
	if c, err := r.Cookie(tokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

var errNoSecret = errors.New("jwt secret not configured")

func (a *Auth) verify(raw string) (string, error) {
	if len(a.secret) == 0 {
		return "", errNoSecret
	}
	claims := jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !tok.Valid || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func unauthorized(w http.ResponseWriter, msg string) {
	_, body := calcETagAndBody(envelope{Success: false, Message: msg})
	writeBody(w, http.StatusUnauthorized, body)
}

// RequireUser rejects requests without a valid access token and stores the
// token subject as the user id.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			unauthorized(w, "Authentication required")
			return
		}
		sub, err := a.verify(raw)
		if err != nil {
			log.Debug().Err(err).Msg("token rejected")
			unauthorized(w, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, sub)))
	})
}

// RequireAdmin runs after RequireUser and attaches the admin principal.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := UserID(r.Context())
		p, err := a.admins.Principal(r.Context(), uid)
		if err != nil {
			status := domain.StatusOf(err)
			if status == http.StatusInternalServerError {
				log.Error().Err(err).Str("user", uid).Msg("admin lookup failed")
			}
			_, body := calcETagAndBody(envelope{Success: false, Message: publicMessage(err, "Internal server error")})
			writeBody(w, status, body)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
	})
}

func UserID(ctx context.Context) string {
	s, _ := ctx.Value(userKey).(string)
	return s
}

func PrincipalFrom(ctx context.Context) domain.Principal {
	p, _ := ctx.Value(principalKey).(domain.Principal)
	return p
}
