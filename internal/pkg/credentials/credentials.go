package credentials

import (
	"errors"
	"time"

	"kidvibe-be/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidToken = errors.New("invalid token")

// Service hashes passwords and issues bearer tokens. The signing secret
// comes from the config value passed at construction, never from ambient
// environment lookups.
type Service struct {
	cfg *config.AuthConfig
}

func NewService(cfg *config.AuthConfig) *Service {
	return &Service{cfg: cfg}
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) VerifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// IssueToken signs an HS256 access token for the user. The second return
// value is the expiry instant baked into the token.
func (s *Service) IssueToken(userId uuid.UUID) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JwtExpiresMinutes) * time.Minute)

	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.JwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signedToken, expiresAt, nil
}

// ParseToken validates a signed token and returns the user id claim.
func (s *Service) ParseToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.JwtSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	rawId, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	userId, err := uuid.Parse(rawId)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userId, nil
}
