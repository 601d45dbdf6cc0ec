package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"estate_leads_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service resolves token identities to profiles.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	// Resolve finds the profile for an identity, creating a customer profile on
	// first sign-in. The bool reports whether one was created.
	Resolve(ctx context.Context, ident Identity) (*Profile, bool, error)
}

type serviceImpl struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &serviceImpl{repo: repo, logger: logger}
}

func (s *serviceImpl) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("Failed to load profile", zap.String("profileID", id.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not load profile.")
	}
	return p, nil
}

func (s *serviceImpl) Resolve(ctx context.Context, ident Identity) (*Profile, bool, error) {
	p, linked, err := s.lookup(ctx, ident)
	switch {
	case err == nil:
		s.touchLogin(ctx, p, ident, linked)
		return p, false, nil
	case !errors.Is(err, common.ErrNotFound):
		s.logger.Error("Failed to resolve profile", zap.String("email", ident.Email), zap.Error(err))
		return nil, false, common.ErrInternalServer.WithDetails("Could not resolve profile.")
	}

	if strings.TrimSpace(ident.Email) == "" {
		return nil, false, common.ErrUnauthorized.WithDetails("Token carries no email address.")
	}

	now := time.Now().UTC()
	p = &Profile{
		Email:       ident.Email,
		FullName:    ident.FullName,
		Role:        common.RoleCustomer,
		LastLoginAt: &now,
	}
	if ident.ID != nil {
		p.ID = *ident.ID
	}
	if ident.FirebaseUID != "" {
		uid := ident.FirebaseUID
		p.FirebaseUID = &uid
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, false, err
		}
		s.logger.Error("Failed to create profile", zap.String("email", ident.Email), zap.Error(err))
		return nil, false, common.ErrInternalServer.WithDetails("Could not create profile.")
	}
	s.logger.Info("Profile created on first sign-in", zap.String("profileID", p.ID.String()))
	return p, true, nil
}

// lookup tries the strongest identifier first. linked reports that an email
// profile was just attached to a firebase account and needs saving.
func (s *serviceImpl) lookup(ctx context.Context, ident Identity) (p *Profile, linked bool, err error) {
	if ident.ID != nil {
		p, err = s.repo.FindByID(ctx, *ident.ID)
		return p, false, err
	}
	if ident.FirebaseUID != "" {
		p, err = s.repo.FindByFirebaseUID(ctx, ident.FirebaseUID)
		if err == nil || !errors.Is(err, common.ErrNotFound) || ident.Email == "" {
			return p, false, err
		}
		p, err = s.repo.FindByEmail(ctx, ident.Email)
		if err != nil {
			return nil, false, err
		}
		uid := ident.FirebaseUID
		p.FirebaseUID = &uid
		return p, true, nil
	}
	p, err = s.repo.FindByEmail(ctx, ident.Email)
	return p, false, err
}

// touchLogin records the sign-in, at most once an hour per profile.
func (s *serviceImpl) touchLogin(ctx context.Context, p *Profile, ident Identity, linked bool) {
	if !linked && p.LastLoginAt != nil && time.Since(*p.LastLoginAt) < time.Hour {
		return
	}
	now := time.Now().UTC()
	p.LastLoginAt = &now
	if p.FullName == "" && ident.FullName != "" {
		p.FullName = ident.FullName
	}
	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Warn("Failed to update last login time", zap.String("profileID", p.ID.String()), zap.Error(err))
	}
}
