package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/model"
)

// JWTService issues and verifies principal tokens. Token protocol design is
// out of scope here; everything downstream consumes the verified Principal.
type JWTService interface {
	GenerateAccessToken(principal *model.Principal) (string, error)
	ValidateToken(token string) (*model.Principal, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) JWTService {
	return &jwtService{secret: []byte(secret), expiry: expiry}
}

type claims struct {
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	ClubID       *uuid.UUID `json:"club_id,omitempty"`
	FederationID *uuid.UUID `json:"federation_id,omitempty"`
	jwt.RegisteredClaims
}

func (s *jwtService) GenerateAccessToken(p *model.Principal) (string, error) {
	now := time.Now()
	c := claims{
		Email:        p.Email,
		Role:         string(p.Role),
		ClubID:       p.ClubID,
		FederationID: p.FederationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.secret)
}

func (s *jwtService) ValidateToken(tokenString string) (*model.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}

	return &model.Principal{
		UserID:       userID,
		Email:        c.Email,
		Role:         model.Role(c.Role),
		ClubID:       c.ClubID,
		FederationID: c.FederationID,
	}, nil
}
