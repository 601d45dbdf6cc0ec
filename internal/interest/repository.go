package interest

import (
	"context"
	"errors"
	"fmt"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PublicRepository inserts leads and resolves download tokens.
type PublicRepository interface {
	Create(ctx context.Context, d *DownloadInterest) error
	FindByToken(ctx context.Context, token string) (*DownloadInterest, error)
}

type gormPublicRepository struct {
	db *database.PublicDB
}

func NewGORMPublicRepository(db *database.PublicDB) PublicRepository {
	return &gormPublicRepository{db: db}
}

func (r *gormPublicRepository) Create(ctx context.Context, d *DownloadInterest) error {
	if err := r.db.WithContext(ctx).Omit("Property").Create(d).Error; err != nil {
		return fmt.Errorf("failed to create download interest: %w", err)
	}
	return nil
}

func (r *gormPublicRepository) FindByToken(ctx context.Context, token string) (*DownloadInterest, error) {
	var d DownloadInterest
	err := r.db.WithContext(ctx).Preload("Property").Where("download_token = ?", token).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Download link is invalid.")
		}
		return nil, err
	}
	return &d, nil
}

// Repository is the admin access on the service tier.
type Repository interface {
	List(ctx context.Context) ([]DownloadInterest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*DownloadInterest, error)
	Save(ctx context.Context, d *DownloadInterest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *database.ServiceDB
}

func NewGORMRepository(db *database.ServiceDB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context) ([]DownloadInterest, error) {
	var out []DownloadInterest
	err := r.db.WithContext(ctx).Preload("Property").Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list download interests: %w", err)
	}
	return out, nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*DownloadInterest, error) {
	var d DownloadInterest
	if err := r.db.WithContext(ctx).Preload("Property").First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Download interest not found.")
		}
		return nil, err
	}
	return &d, nil
}

func (r *gormRepository) Save(ctx context.Context, d *DownloadInterest) error {
	if err := r.db.WithContext(ctx).Omit("Property").Save(d).Error; err != nil {
		return fmt.Errorf("failed to update download interest: %w", err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&DownloadInterest{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete download interest: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Download interest not found or already deleted.")
	}
	return nil
}
