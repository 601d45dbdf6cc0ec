package notification

import (
	"context"
	"errors"
	"fmt"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Writer inserts notifications. It runs on the public tier, which may insert but
// never read the feed.
type Writer interface {
	Create(ctx context.Context, notification *Notification) error
}

type gormWriter struct {
	db *database.PublicDB
}

func NewGORMWriter(db *database.PublicDB) Writer {
	return &gormWriter{db: db}
}

func (w *gormWriter) Create(ctx context.Context, notification *Notification) error {
	if err := w.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// Repository reads and updates the feed on the service tier.
type Repository interface {
	List(ctx context.Context, filter ListFilter, page, pageSize int) ([]Notification, *common.Pagination, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context) (int64, error)
}

type GORMRepository struct {
	db *database.ServiceDB
}

// NewGORMRepository creates a new GORM notification repository.
func NewGORMRepository(db *database.ServiceDB) Repository {
	return &GORMRepository{db: db}
}

func (r *GORMRepository) List(ctx context.Context, filter ListFilter, page, pageSize int) ([]Notification, *common.Pagination, error) {
	var notifications []Notification
	var total int64

	query := r.db.WithContext(ctx).Model(&Notification{})
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting notifications failed: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	pr := common.PageRequest{Page: pagination.CurrentPage, PageSize: pagination.PageSize}

	err := query.Order("created_at DESC").
		Limit(pr.PageSize).
		Offset(pr.Offset()).
		Find(&notifications).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching notifications failed: %w", err)
	}
	return notifications, pagination, nil
}

// MarkAsRead marks one notification as read. Marking a read notification again
// is not an error.
func (r *GORMRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	var notification Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrNotFound.WithDetails("Notification not found.")
		}
		return fmt.Errorf("failed to find notification %s: %w", id, err)
	}
	if notification.IsRead {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&Notification{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification %s as read: %w", id, result.Error)
	}
	return nil
}

// MarkAllAsRead marks every unread notification as read and returns the count.
func (r *GORMRepository) MarkAllAsRead(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&Notification{}).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{"is_read": true})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", result.Error)
	}
	return result.RowsAffected, nil
}
