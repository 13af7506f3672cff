package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

// Config holds the single API principal and the token settings.
type Config struct {
	Username     string
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

// Token is the result of a successful credential exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Service authenticates Basic credentials against a bcrypt hash and issues
// and verifies bearer tokens. It satisfies httpx.Authenticator.
type Service struct {
	cfg Config
	now func() time.Time
}

func NewService(cfg Config) *Service {
	return &Service{cfg: cfg, now: time.Now}
}

func (s *Service) AuthenticateBasic(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	// Always run bcrypt so a wrong username costs the same as a wrong password.
	passOK := VerifyPassword(s.cfg.PasswordHash, password)
	if !userOK || !passOK {
		return "", ErrUnauthorized
	}
	return s.cfg.Username, nil
}

func (s *Service) AuthenticateBearer(token string) (string, error) {
	claims, err := ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Subject != s.cfg.Username {
		return "", ErrUnauthorized
	}
	return claims.Subject, nil
}

// IssueToken exchanges Basic credentials for a signed bearer token.
func (s *Service) IssueToken(username, password string) (Token, error) {
	user, err := s.AuthenticateBasic(username, password)
	if err != nil {
		return Token{}, err
	}

	accessToken, _, err := GenerateToken([]byte(s.cfg.JWTSecret), user, s.cfg.TokenTTL, s.now())
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.cfg.TokenTTL.Seconds()),
	}, nil
}
