package notification

import (
	"context"
	"errors"
	"testing"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database"
	"estate_leads_backend/internal/platform/database/dbtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockNotificationRepository is a mock type for notification.Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) List(ctx context.Context, filter ListFilter, page, pageSize int) ([]Notification, *common.Pagination, error) {
	args := m.Called(ctx, filter, page, pageSize)
	var notifications []Notification
	if args.Get(0) != nil {
		notifications = args.Get(0).([]Notification)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return notifications, pagination, args.Error(2)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) Create(ctx context.Context, notification *Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func TestRecorder_SwallowsWriteErrors(t *testing.T) {
	writer := new(MockWriter)
	ctx := context.Background()
	entityID := uuid.New()

	writer.On("Create", ctx, mock.AnythingOfType("*notification.Notification")).Run(func(args mock.Arguments) {
		n := args.Get(1).(*Notification)
		assert.Equal(t, KindValuation, n.Kind)
		assert.Equal(t, entityID, n.EntityID)
		assert.False(t, n.IsRead)
	}).Return(errors.New("insert failed"))

	assert.NotPanics(t, func() {
		NewRecorder(writer, zap.NewNop()).Record(ctx, KindValuation, entityID, "New valuation request")
	})
	writer.AssertExpectations(t)
}

func TestNotificationService_List_Error(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	repo.On("List", ctx, ListFilter{}, 1, 10).Return(nil, nil, errors.New("repo error"))

	notifications, pagination, err := svc.List(ctx, ListFilter{}, 1, 10)
	assert.Nil(t, notifications)
	assert.Nil(t, pagination)
	apiErr, ok := err.(*common.APIError)
	require.True(t, ok)
	assert.Equal(t, common.ErrInternalServer.Code, apiErr.Code)
}

func TestNotificationService_MarkAsRead_PassesNotFound(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()
	id := uuid.New()

	repo.On("MarkAsRead", ctx, id).Return(common.ErrNotFound.WithDetails("Notification not found."))

	err := svc.MarkAsRead(ctx, id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestNotificationRepository_PublicInsertServiceRead(t *testing.T) {
	public, service := dbtest.Open(t, &Notification{})
	recorder := NewRecorder(NewGORMWriter(public), zap.NewNop())
	repo := NewGORMRepository(service)

	for i := 0; i < 3; i++ {
		recorder.Record(context.Background(), KindDownloadInterest, uuid.New(), "New download interest")
	}

	_, _, err := repo.List(context.Background(), ListFilter{}, 1, 10)
	assert.ErrorIs(t, err, database.ErrTierViolation, "reads need the service tier")

	ctx := dbtest.AdminContext()
	items, pagination, err := repo.List(ctx, ListFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(3), pagination.TotalItems)
	assert.True(t, pagination.HasNext)

	require.NoError(t, repo.MarkAsRead(ctx, items[0].ID))
	require.NoError(t, repo.MarkAsRead(ctx, items[0].ID))
	assert.ErrorIs(t, repo.MarkAsRead(ctx, uuid.New()), common.ErrNotFound)

	unread, _, err := repo.List(ctx, ListFilter{UnreadOnly: true}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	count, err := repo.MarkAllAsRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestNotificationRepository_KindFilter(t *testing.T) {
	public, service := dbtest.Open(t, &Notification{})
	recorder := NewRecorder(NewGORMWriter(public), zap.NewNop())
	repo := NewGORMRepository(service)
	ctx := dbtest.AdminContext()

	recorder.Record(context.Background(), KindValuation, uuid.New(), "New valuation request")
	recorder.Record(context.Background(), KindApplication, uuid.New(), "New job application")
	recorder.Record(context.Background(), KindApplication, uuid.New(), "New job application")

	items, pagination, err := repo.List(ctx, ListFilter{Kind: KindApplication}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), pagination.TotalItems)
	for _, n := range items {
		assert.Equal(t, KindApplication, n.Kind)
	}

	require.NoError(t, repo.MarkAsRead(ctx, items[0].ID))
	unread, _, err := repo.List(ctx, ListFilter{UnreadOnly: true, Kind: KindApplication}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, unread, 1)
}
