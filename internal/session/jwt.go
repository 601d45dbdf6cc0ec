package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/config"
	"estate_leads_backend/internal/profile"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Claims is the token body. The subject is the profile ID.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HS256 tokens signed with JWT_SECRET.
type JWTVerifier struct {
	secret    []byte
	ttl       time.Duration
	blocklist Blocklist
	profiles  profile.Service
	logger    *zap.Logger
}

func NewJWTVerifier(secret string, ttl time.Duration, blocklist Blocklist, profiles profile.Service, logger *zap.Logger) *JWTVerifier {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTVerifier{secret: []byte(secret), ttl: ttl, blocklist: blocklist, profiles: profiles, logger: logger.Named("jwt")}
}

// Issue signs a token for p.
func (v *JWTVerifier) Issue(p *profile.Profile) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(v.ttl)
	claims := Claims{
		Email: p.Email,
		Name:  p.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (v *JWTVerifier) Verify(ctx context.Context, token string) (*Session, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		v.logger.Debug("Token validation failed", zap.Error(err))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrUnauthorized.WithDetails("Token has expired.")
		}
		return nil, common.ErrUnauthorized.WithDetails("Invalid token.")
	}

	if claims.ID != "" {
		revoked, err := v.blocklist.Contains(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, common.ErrUnauthorized.WithDetails("Token has been revoked.")
		}
	}

	profileID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, common.ErrUnauthorized.WithDetails("Token subject is not a profile ID.")
	}
	p, _, err := v.profiles.Resolve(ctx, profile.Identity{ID: &profileID, Email: claims.Email, FullName: claims.Name})
	if err != nil {
		return nil, err
	}

	return &Session{
		ProfileID: p.ID,
		Email:     p.Email,
		Role:      p.Role,
		Provider:  config.AuthProviderJWT,
		ExpiresAt: claims.ExpiresAt.Time,
		TokenID:   claims.ID,
	}, nil
}

func (v *JWTVerifier) Revoke(ctx context.Context, s *Session) error {
	if s.TokenID == "" {
		return nil
	}
	return v.blocklist.Add(ctx, s.TokenID, s.ExpiresAt)
}
