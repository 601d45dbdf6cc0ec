package profile

import (
	"context"
	"testing"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database/dbtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, p *Profile) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil && p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockProfileRepository) find(args mock.Arguments) (*Profile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return m.find(m.Called(ctx, id))
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*Profile, error) {
	return m.find(m.Called(ctx, email))
}

func (m *MockProfileRepository) FindByFirebaseUID(ctx context.Context, uid string) (*Profile, error) {
	return m.find(m.Called(ctx, uid))
}

func (m *MockProfileRepository) Update(ctx context.Context, p *Profile) error {
	return m.Called(ctx, p).Error(0)
}

func TestProfileService_Resolve_CreatesCustomerOnFirstSignIn(t *testing.T) {
	repo := new(MockProfileRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	repo.On("FindByFirebaseUID", ctx, "fb-1").Return(nil, common.ErrNotFound).Once()
	repo.On("FindByEmail", ctx, "new@example.com").Return(nil, common.ErrNotFound).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*profile.Profile")).Return(nil).Once()

	p, created, err := svc.Resolve(ctx, Identity{FirebaseUID: "fb-1", Email: "new@example.com", FullName: "Noor"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, common.RoleCustomer, p.Role)
	require.NotNil(t, p.FirebaseUID)
	assert.Equal(t, "fb-1", *p.FirebaseUID)
	repo.AssertExpectations(t)
}

func TestProfileService_Resolve_LinksExistingEmailProfile(t *testing.T) {
	repo := new(MockProfileRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	recent := time.Now()
	existing := &Profile{BaseModel: common.BaseModel{ID: uuid.New()}, Email: "old@example.com", Role: common.RoleAdmin, LastLoginAt: &recent}
	repo.On("FindByFirebaseUID", ctx, "fb-2").Return(nil, common.ErrNotFound).Once()
	repo.On("FindByEmail", ctx, "old@example.com").Return(existing, nil).Once()
	repo.On("Update", ctx, existing).Return(nil).Once()

	p, created, err := svc.Resolve(ctx, Identity{FirebaseUID: "fb-2", Email: "old@example.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, common.RoleAdmin, p.Role)
	assert.Equal(t, "fb-2", *p.FirebaseUID)
	repo.AssertExpectations(t)
}

func TestProfileService_Resolve_RepositoryFailure(t *testing.T) {
	repo := new(MockProfileRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()
	id := uuid.New()

	repo.On("FindByID", ctx, id).Return(nil, assert.AnError).Once()

	_, _, err := svc.Resolve(ctx, Identity{ID: &id, Email: "x@example.com"})
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrInternalServer.Code, apiErr.Code)
}

func TestGORMRepository_CreateAndFind(t *testing.T) {
	public, _ := dbtest.Open(t, &Profile{})
	repo := NewGORMRepository(public)
	ctx := context.Background()

	p := &Profile{Email: "  Mixed@Example.com ", FullName: "Sara", Role: common.RoleCustomer}
	require.NoError(t, repo.Create(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)

	found, err := repo.FindByEmail(ctx, "mixed@example.com")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)

	dup := &Profile{Email: "mixed@example.com", Role: common.RoleCustomer}
	assert.ErrorIs(t, repo.Create(ctx, dup), common.ErrConflict)
}
