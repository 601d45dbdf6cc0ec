// Package firebase wraps the Firebase Admin auth client used when
// AUTH_PROVIDER=firebase.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"estate_leads_backend/internal/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Auth verifies customer and admin ID tokens. Verification also rejects tokens
// issued before a revocation, so a logout signs the caller out everywhere.
type Auth struct {
	client *auth.Client
	logger *zap.Logger
}

// NewAuth builds the client from the service account key file.
func NewAuth(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Auth, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		return nil, errors.New("firebase: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is required")
	}
	keyPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)

	var appCfg *firebase.Config
	if cfg.FirebaseProjectID != "" {
		appCfg = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}
	app, err := firebase.NewApp(ctx, appCfg, option.WithCredentialsFile(keyPath))
	if err != nil {
		return nil, fmt.Errorf("firebase: init app from %s: %w", keyPath, err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: auth client: %w", err)
	}

	logger.Info("Firebase auth ready", zap.String("project_id", cfg.FirebaseProjectID))
	return &Auth{client: client, logger: logger}, nil
}

func (a *Auth) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if idToken == "" {
		return nil, errors.New("firebase: empty ID token")
	}
	token, err := a.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		a.logger.Debug("ID token rejected", zap.Bool("revoked", auth.IsIDTokenRevoked(err)), zap.Error(err))
		return nil, fmt.Errorf("firebase: verify ID token: %w", err)
	}
	return token, nil
}

// RevokeRefreshTokens ends every session of uid.
func (a *Auth) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if err := a.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("firebase: revoke tokens of %s: %w", uid, err)
	}
	a.logger.Info("Refresh tokens revoked", zap.String("uid", uid))
	return nil
}
