// Package auth guards the mutating API routes with the shop operator's
// credential. When no password hash is configured auth is disabled and the
// middleware passes everything through, which keeps local single-user
// deployments friction free.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/goelzer/oficina/internal/config"
)

// ErrInvalidCredentials is returned for a wrong email or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service issues and verifies operator tokens.
type Service struct {
	email  string
	hash   string
	secret []byte
	log    *zap.Logger
}

// NewService builds the auth service from configuration.
func NewService(cfg config.AuthConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		email:  cfg.OperatorEmail,
		hash:   cfg.PasswordHash,
		secret: []byte(cfg.JWTSecret),
		log:    log,
	}
}

// Enabled reports whether a credential is configured.
func (s *Service) Enabled() bool { return s.hash != "" }

// Login checks the operator credential and returns a signed token valid for
// 24 hours.
func (s *Service) Login(email, password string) (string, error) {
	if !s.Enabled() {
		return "", errors.New("authentication is not configured")
	}
	if email != s.email {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.hash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := &jwt.StandardClaims{
		Id:        uuid.NewString(),
		Subject:   email,
		ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token string.
func (s *Service) Verify(tokenString string) error {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

// Middleware rejects requests lacking a valid Bearer token. Reads stay open
// so dashboards keep working; only mutating methods are challenged.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Enabled() || r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if header == "" || tokenString == header {
			unauthorized(w, "missing bearer token")
			return
		}
		if err := s.Verify(tokenString); err != nil {
			s.log.Warn("rejected token", zap.Error(err))
			unauthorized(w, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
