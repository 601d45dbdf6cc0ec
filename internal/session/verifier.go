package session

import (
	"context"
	"fmt"

	"estate_leads_backend/internal/config"
	"estate_leads_backend/internal/firebase"
	"estate_leads_backend/internal/profile"

	"go.uber.org/zap"
)

// Verifier turns a bearer token into a Session.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Session, error)
	// Revoke ends the session the token belongs to.
	Revoke(ctx context.Context, s *Session) error
}

// NewVerifier builds the verifier selected by AUTH_PROVIDER.
func NewVerifier(cfg *config.Config, profiles profile.Service, logger *zap.Logger) (Verifier, error) {
	switch cfg.AuthProvider {
	case config.AuthProviderFirebase:
		fb, err := firebase.NewAuth(context.Background(), cfg, logger.Named("firebase"))
		if err != nil {
			return nil, err
		}
		return NewFirebaseVerifier(fb, profiles, logger), nil
	case config.AuthProviderJWT:
		return NewJWTVerifier(cfg.JWTSecret, cfg.JWTTTL, NewInMemoryBlocklist(), profiles, logger), nil
	}
	return nil, fmt.Errorf("unsupported auth provider %q", cfg.AuthProvider)
}
