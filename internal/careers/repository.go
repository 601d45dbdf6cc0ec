package careers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PublicRepository reads active postings and inserts applications.
type PublicRepository interface {
	ListActive(ctx context.Context) ([]JobPosting, error)
	FindActive(ctx context.Context, idOrSlug string) (*JobPosting, error)
	CreateApplication(ctx context.Context, a *Application) error
}

type gormPublicRepository struct {
	db *database.PublicDB
}

func NewGORMPublicRepository(db *database.PublicDB) PublicRepository {
	return &gormPublicRepository{db: db}
}

func (r *gormPublicRepository) ListActive(ctx context.Context) ([]JobPosting, error) {
	var out []JobPosting
	err := r.db.WithContext(ctx).Where("status = ?", PostingActive).Order("posted_at DESC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	return out, nil
}

func (r *gormPublicRepository) FindActive(ctx context.Context, idOrSlug string) (*JobPosting, error) {
	var p JobPosting
	query := r.db.WithContext(ctx).Where("status = ?", PostingActive)
	if id, err := uuid.Parse(idOrSlug); err == nil {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("slug = ?", idOrSlug)
	}
	if err := query.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Job posting not found.")
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormPublicRepository) CreateApplication(ctx context.Context, a *Application) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// Repository is the admin access on the service tier.
type Repository interface {
	ListPostings(ctx context.Context) ([]JobPosting, error)
	FindPosting(ctx context.Context, id uuid.UUID) (*JobPosting, error)
	CreatePosting(ctx context.Context, p *JobPosting) error
	SavePosting(ctx context.Context, p *JobPosting) error
	DeletePosting(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	ArchivePostedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	ListApplications(ctx context.Context) ([]Application, error)
	FindApplication(ctx context.Context, id uuid.UUID) (*Application, error)
	SaveApplication(ctx context.Context, a *Application) error
	DeleteApplication(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *database.ServiceDB
}

func NewGORMRepository(db *database.ServiceDB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListPostings(ctx context.Context) ([]JobPosting, error) {
	var out []JobPosting
	if err := r.db.WithContext(ctx).Order("posted_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	return out, nil
}

func (r *gormRepository) FindPosting(ctx context.Context, id uuid.UUID) (*JobPosting, error) {
	var p JobPosting
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Job posting not found.")
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) CreatePosting(ctx context.Context, p *JobPosting) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict.WithDetails("A job posting with this slug already exists.")
		}
		return fmt.Errorf("failed to create job posting: %w", err)
	}
	return nil
}

func (r *gormRepository) SavePosting(ctx context.Context, p *JobPosting) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict.WithDetails("A job posting with this slug already exists.")
		}
		return fmt.Errorf("failed to update job posting: %w", err)
	}
	return nil
}

func (r *gormRepository) DeletePosting(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&JobPosting{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete job posting: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Job posting not found or already deleted.")
	}
	return nil
}

func (r *gormRepository) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&JobPosting{}).Where("slug = ?", slug)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check job posting slug: %w", err)
	}
	return count > 0, nil
}

// ArchivePostedBefore archives every active posting posted before cutoff.
func (r *gormRepository) ArchivePostedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&JobPosting{}).
		Where("status = ? AND posted_at < ?", PostingActive, cutoff).
		Updates(map[string]interface{}{"status": PostingArchived, "updated_at": time.Now()})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to archive job postings: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormRepository) ListApplications(ctx context.Context) ([]Application, error) {
	var out []Application
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return out, nil
}

func (r *gormRepository) FindApplication(ctx context.Context, id uuid.UUID) (*Application, error) {
	var a Application
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Application not found.")
		}
		return nil, err
	}
	return &a, nil
}

func (r *gormRepository) SaveApplication(ctx context.Context, a *Application) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	return nil
}

func (r *gormRepository) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Application{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete application: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Application not found or already deleted.")
	}
	return nil
}
