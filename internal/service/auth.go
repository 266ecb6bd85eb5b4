package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"
	"tunestatus/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// wsTokenTTL bounds how long a minted websocket token stays valid. The
// browser fetches a fresh one right before connecting.
const wsTokenTTL = 5 * time.Minute

var ErrInvalidToken = errors.New("invalid token")

// AuthService verifies the admin Basic credentials from config and mints
// short-lived tokens for the websocket handshake, where the browser cannot
// send an Authorization header.
type AuthService struct {
	cfg func() config.Config
}

func NewAuthService(store *config.Store) *AuthService {
	return &AuthService{cfg: store.Config}
}

// VerifyBasic checks the supplied credentials against http.username and the
// bcrypt http.password_hash. An empty configured hash disables auth; the
// service only listens locally, and first-run setup happens through the same
// UI that later sets the password.
func (s *AuthService) VerifyBasic(username, password string) bool {
	cfg := s.cfg().HTTP
	if cfg.PasswordHash == "" {
		return true
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(cfg.PasswordHash), []byte(password)) == nil
	return userOK && passOK
}

// signingKey derives the HS256 key from the configured credentials, so a
// password change invalidates outstanding ws tokens.
func (s *AuthService) signingKey() []byte {
	cfg := s.cfg().HTTP
	sum := sha256.Sum256([]byte(cfg.Username + ":" + cfg.PasswordHash))
	return sum[:]
}

// IssueWSToken mints a signed token for the websocket handshake.
func (s *AuthService) IssueWSToken() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(wsTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	return token.SignedString(s.signingKey())
}

// ParseWSToken validates a token minted by IssueWSToken.
func (s *AuthService) ParseWSToken(tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey(), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
