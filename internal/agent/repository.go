package agent

import (
	"context"
	"errors"
	"fmt"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PublicRepository reads approved agents on the public tier.
type PublicRepository interface {
	ListApproved(ctx context.Context, limit int) ([]Agent, error)
}

type gormPublicRepository struct {
	db *database.PublicDB
}

func NewGORMPublicRepository(db *database.PublicDB) PublicRepository {
	return &gormPublicRepository{db: db}
}

func (r *gormPublicRepository) ListApproved(ctx context.Context, limit int) ([]Agent, error) {
	var agents []Agent
	query := r.db.WithContext(ctx).Where("approved = ?", true).Order("rating DESC, created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("failed to list approved agents: %w", err)
	}
	return agents, nil
}

// Repository is the admin data access on the service tier.
type Repository interface {
	List(ctx context.Context) ([]Agent, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Agent, error)
	Create(ctx context.Context, a *Agent) error
	Save(ctx context.Context, a *Agent) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *database.ServiceDB
}

func NewGORMRepository(db *database.ServiceDB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context) ([]Agent, error) {
	var agents []Agent
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	return agents, nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Agent, error) {
	var a Agent
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Agent not found.")
		}
		return nil, err
	}
	return &a, nil
}

func (r *gormRepository) Create(ctx context.Context, a *Agent) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	return nil
}

func (r *gormRepository) Save(ctx context.Context, a *Agent) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("failed to update agent: %w", err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Agent{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete agent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Agent not found or already deleted.")
	}
	return nil
}
