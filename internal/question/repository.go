package question

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
	Create(ctx context.Context, q *Question) error
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]Question, error)
}

type gormCustomerRepository struct {
	db *database.PublicDB
}

func NewGORMCustomerRepository(db *database.PublicDB) CustomerRepository {
	return &gormCustomerRepository{db: db}
}

func (r *gormCustomerRepository) Create(ctx context.Context, q *Question) error {
	if err := r.db.WithContext(ctx).Create(q).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *gormCustomerRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]Question, error) {
	var out []Question
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return out, nil
}

// Repository is the admin access on the service tier.
type Repository interface {
	List(ctx context.Context) ([]Question, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Question, error)
	Save(ctx context.Context, q *Question) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *database.ServiceDB
}

func NewGORMRepository(db *database.ServiceDB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context) ([]Question, error) {
	var out []Question
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return out, nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Question, error) {
	var q Question
	if err := r.db.WithContext(ctx).Preload("Profile").First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Question not found.")
		}
		return nil, err
	}
	return &q, nil
}

func (r *gormRepository) Save(ctx context.Context, q *Question) error {
	if err := r.db.WithContext(ctx).Omit("Profile").Save(q).Error; err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Question{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Question not found or already deleted.")
	}
	return nil
}
