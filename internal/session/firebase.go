package session

import (
	"context"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/config"
	"estate_leads_backend/internal/profile"

	firebaseauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

// IDTokenVerifier is the part of the firebase service used here.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// FirebaseVerifier verifies Firebase ID tokens and maps the firebase user onto
// a profile, creating it on first sign-in.
type FirebaseVerifier struct {
	firebase IDTokenVerifier
	profiles profile.Service
	logger   *zap.Logger
}

func NewFirebaseVerifier(fb IDTokenVerifier, profiles profile.Service, logger *zap.Logger) *FirebaseVerifier {
	return &FirebaseVerifier{firebase: fb, profiles: profiles, logger: logger.Named("firebase_verifier")}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Session, error) {
	token, err := v.firebase.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, common.ErrUnauthorized.WithDetails("Invalid or expired Firebase ID token.")
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	p, created, err := v.profiles.Resolve(ctx, profile.Identity{FirebaseUID: token.UID, Email: email, FullName: name})
	if err != nil {
		return nil, err
	}
	if created {
		v.logger.Info("Profile provisioned from Firebase", zap.String("uid", token.UID), zap.String("profileID", p.ID.String()))
	}

	return &Session{
		ProfileID: p.ID,
		Email:     p.Email,
		Role:      p.Role,
		Provider:  config.AuthProviderFirebase,
		ExpiresAt: time.Unix(token.Expires, 0).UTC(),
		Subject:   token.UID,
	}, nil
}

func (v *FirebaseVerifier) Revoke(ctx context.Context, s *Session) error {
	if s.Subject == "" {
		return nil
	}
	return v.firebase.RevokeRefreshTokens(ctx, s.Subject)
}
