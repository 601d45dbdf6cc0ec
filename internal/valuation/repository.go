package valuation

import (
	"context"
	"errors"
	"fmt"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRepository is the public-tier access used by signed-in customers.
type CustomerRepository interface {
	Create(ctx context.Context, v *Valuation) error
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]Valuation, error)
}

type gormCustomerRepository struct {
	db *database.PublicDB
}

func NewGORMCustomerRepository(db *database.PublicDB) CustomerRepository {
	return &gormCustomerRepository{db: db}
}

func (r *gormCustomerRepository) Create(ctx context.Context, v *Valuation) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("failed to create valuation: %w", err)
	}
	return nil
}

func (r *gormCustomerRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]Valuation, error) {
	var out []Valuation
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list valuations: %w", err)
	}
	return out, nil
}

// Repository is the admin access on the service tier.
type Repository interface {
	List(ctx context.Context) ([]Valuation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Valuation, error)
	Save(ctx context.Context, v *Valuation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *database.ServiceDB
}

func NewGORMRepository(db *database.ServiceDB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context) ([]Valuation, error) {
	var out []Valuation
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list valuations: %w", err)
	}
	return out, nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Valuation, error) {
	var v Valuation
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Valuation not found.")
		}
		return nil, err
	}
	return &v, nil
}

func (r *gormRepository) Save(ctx context.Context, v *Valuation) error {
	if err := r.db.WithContext(ctx).Save(v).Error; err != nil {
		return fmt.Errorf("failed to update valuation: %w", err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Valuation{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete valuation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Valuation not found or already deleted.")
	}
	return nil
}
