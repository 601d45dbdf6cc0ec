package notification

import (
	"context"

	"estate_leads_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder adds new leads to the admin feed. A failed insert is logged and never
// fails the lead that triggered it.
type Recorder interface {
	Record(ctx context.Context, kind Kind, entityID uuid.UUID, message string)
}

type recorder struct {
	writer Writer
	logger *zap.Logger
}

func NewRecorder(writer Writer, logger *zap.Logger) Recorder {
	return &recorder{writer: writer, logger: logger}
}

func (r *recorder) Record(ctx context.Context, kind Kind, entityID uuid.UUID, message string) {
	n := &Notification{Kind: kind, EntityID: entityID, Message: message}
	if err := r.writer.Create(ctx, n); err != nil {
		r.logger.Error("Failed to record lead notification",
			zap.String("kind", string(kind)),
			zap.String("entityID", entityID.String()),
			zap.Error(err),
		)
	}
}

// Service is the admin side of the feed.
type Service interface {
	List(ctx context.Context, filter ListFilter, page, pageSize int) ([]Notification, *common.Pagination, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context) (int64, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) List(ctx context.Context, filter ListFilter, page, pageSize int) ([]Notification, *common.Pagination, error) {
	notifications, pagination, err := s.repo.List(ctx, filter, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list notifications", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve notifications.")
	}
	return notifications, pagination, nil
}

func (s *service) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.MarkAsRead(ctx, id); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		s.logger.Error("Failed to mark notification as read", zap.String("notificationID", id.String()), zap.Error(err))
		return common.ErrInternalServer.WithDetails("Could not mark notification as read.")
	}
	return nil
}

func (s *service) MarkAllAsRead(ctx context.Context) (int64, error) {
	count, err := s.repo.MarkAllAsRead(ctx)
	if err != nil {
		s.logger.Error("Failed to mark all notifications as read", zap.Error(err))
		return 0, common.ErrInternalServer.WithDetails("Could not mark all notifications as read.")
	}
	return count, nil
}
