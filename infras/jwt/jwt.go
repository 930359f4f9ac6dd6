// Package jwt validates HS256 access tokens minted by the campus identity provider.
package jwt

import (
	"errors"
	"fmt"
	"strings"

	"unibook/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaim  = errors.New("invalid token claim")
	ErrInvalidHeader = errors.New("authorization header must be 'Bearer <token>'")
)

// Claims is the principal carried by an access token. user_id falls back to sub.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type JWT interface {
	ValidateToken(tokenString string) (*Claims, error)
}

type Service struct {
	parser *jwt.Parser
	secret []byte
}

func New(cfg *config.Config) JWT {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}

	if cfg.JWT.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.JWT.Issuer))
	}

	return &Service{
		parser: jwt.NewParser(options...),
		secret: []byte(cfg.JWT.AccessSecret),
	}
}

func (s *Service) key(*jwt.Token) (any, error) {
	return s.secret, nil
}

// ValidateToken checks signature, expiry and issuer, then requires a user id and a role.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := s.parser.ParseWithClaims(tokenString, claims, s.key)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	case !token.Valid:
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}

	if claims.UserID == "" || claims.Role == "" {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// ExtractTokenFromHeader returns the credentials of a Bearer Authorization header. The scheme is case-insensitive.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidHeader
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidHeader
	}

	return token, nil
}
