package profile

import (
	"context"
	"errors"
	"strings"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads and provisions profiles on the public tier. Row level
// security limits the anonymous credential to the caller's own row.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	FindByFirebaseUID(ctx context.Context, uid string) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
}

type gormRepository struct {
	db *database.PublicDB
}

func NewGORMRepository(db *database.PublicDB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, p *Profile) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint") {
			return common.ErrConflict.WithDetails("A profile with this email already exists.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return r.first(ctx, "Profile not found with this ID.", "id = ?", id)
}

func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*Profile, error) {
	return r.first(ctx, "Profile not found with this email.", "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *gormRepository) FindByFirebaseUID(ctx context.Context, uid string) (*Profile, error) {
	return r.first(ctx, "Profile not found with this Firebase UID.", "firebase_uid = ?", uid)
}

func (r *gormRepository) first(ctx context.Context, notFound string, query string, args ...interface{}) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where(query, args...).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails(notFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) Update(ctx context.Context, p *Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}
