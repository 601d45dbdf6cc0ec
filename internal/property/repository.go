package property

import (
	"context"
	"errors"
	"fmt"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PublicRepository is the customer-facing data access. It only reads published
// rows and inserts seller submissions.
type PublicRepository interface {
	ListPublished(ctx context.Context) ([]Property, error)
	FindPublished(ctx context.Context, idOrSlug string) (*Property, error)
	FindPublishedByIDs(ctx context.Context, ids []uuid.UUID) ([]Property, error)
	Create(ctx context.Context, p *Property) error
}

type gormPublicRepository struct {
	db *database.PublicDB
}

func NewGORMPublicRepository(db *database.PublicDB) PublicRepository {
	return &gormPublicRepository{db: db}
}

func (r *gormPublicRepository) ListPublished(ctx context.Context) ([]Property, error) {
	var rows []Property
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("featured DESC, created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list published properties: %w", err)
	}
	return rows, nil
}

func (r *gormPublicRepository) FindPublished(ctx context.Context, idOrSlug string) (*Property, error) {
	var p Property
	query := r.db.WithContext(ctx).Where("published = ?", true)
	if id, err := uuid.Parse(idOrSlug); err == nil {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("slug = ?", idOrSlug)
	}
	if err := query.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Property not found.")
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormPublicRepository) FindPublishedByIDs(ctx context.Context, ids []uuid.UUID) ([]Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []Property
	if err := r.db.WithContext(ctx).Where("published = ? AND id IN ?", true, ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load properties by id: %w", err)
	}
	return rows, nil
}

func (r *gormPublicRepository) Create(ctx context.Context, p *Property) error {
	return create(r.db.WithContext(ctx), p)
}

// AdminRepository is the privileged data access behind /api/admin/properties.
type AdminRepository interface {
	List(ctx context.Context) ([]Property, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
	Create(ctx context.Context, p *Property) error
	Save(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	InBatches(ctx context.Context, batchSize int, fn func([]Property) error) error
}

type gormAdminRepository struct {
	db *database.ServiceDB
}

func NewGORMAdminRepository(db *database.ServiceDB) AdminRepository {
	return &gormAdminRepository{db: db}
}

func (r *gormAdminRepository) List(ctx context.Context) ([]Property, error) {
	var rows []Property
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return rows, nil
}

func (r *gormAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	var p Property
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Property not found.")
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormAdminRepository) Create(ctx context.Context, p *Property) error {
	return create(r.db.WithContext(ctx), p)
}

// Save writes the full record. Last write wins.
func (r *gormAdminRepository) Save(ctx context.Context, p *Property) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict.WithDetails("A property with this slug already exists.")
		}
		return fmt.Errorf("failed to update property: %w", err)
	}
	return nil
}

// Delete soft-deletes the row.
func (r *gormAdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Property{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Property not found or already deleted.")
	}
	return nil
}

func (r *gormAdminRepository) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&Property{}).
		Where("slug = ? AND id <> ?", slug, exclude).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return count > 0, nil
}

// InBatches walks every live property in primary key order.
func (r *gormAdminRepository) InBatches(ctx context.Context, batchSize int, fn func([]Property) error) error {
	var batch []Property
	result := r.db.WithContext(ctx).FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	})
	return result.Error
}

func create(tx *gorm.DB, p *Property) error {
	if err := tx.Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict.WithDetails("A property with this slug or reference already exists.")
		}
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}
