package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database"
	"estate_leads_backend/internal/profile"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockProfileService) Resolve(ctx context.Context, ident profile.Identity) (*profile.Profile, bool, error) {
	args := m.Called(ctx, ident)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*profile.Profile), args.Bool(1), args.Error(2)
}

type MockIDTokenVerifier struct {
	mock.Mock
}

func (m *MockIDTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*firebaseauth.Token), args.Error(1)
}

func (m *MockIDTokenVerifier) RevokeRefreshTokens(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func adminProfile() *profile.Profile {
	return &profile.Profile{
		BaseModel: common.BaseModel{ID: uuid.New()},
		Email:     "admin@example.com",
		FullName:  "Layla",
		Role:      common.RoleAdmin,
	}
}

func TestJWTVerifier_IssueVerifyRevoke(t *testing.T) {
	profiles := new(MockProfileService)
	v := NewJWTVerifier("test-secret", time.Hour, NewInMemoryBlocklist(), profiles, zap.NewNop())
	p := adminProfile()
	ctx := context.Background()

	profiles.On("Resolve", ctx, mock.MatchedBy(func(ident profile.Identity) bool {
		return ident.ID != nil && *ident.ID == p.ID && ident.Email == p.Email
	})).Return(p, false, nil)

	token, expiresAt, err := v.Issue(p)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	s, err := v.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, s.ProfileID)
	assert.True(t, s.IsAdmin())
	assert.Equal(t, database.TierService, s.Tier())
	assert.NotEmpty(t, s.TokenID)

	require.NoError(t, v.Revoke(ctx, s))
	_, err = v.Verify(ctx, token)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestJWTVerifier_RejectsForeignSignature(t *testing.T) {
	profiles := new(MockProfileService)
	issuer := NewJWTVerifier("other-secret", time.Hour, NewInMemoryBlocklist(), profiles, zap.NewNop())
	v := NewJWTVerifier("test-secret", time.Hour, NewInMemoryBlocklist(), profiles, zap.NewNop())

	token, _, err := issuer.Issue(adminProfile())
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	profiles.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestJWTVerifier_RejectsExpired(t *testing.T) {
	profiles := new(MockProfileService)
	v := NewJWTVerifier("test-secret", time.Millisecond, NewInMemoryBlocklist(), profiles, zap.NewNop())

	token, _, err := v.Issue(adminProfile())
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	_, err = v.Verify(context.Background(), token)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Token has expired.", apiErr.Details)
}

func TestFirebaseVerifier_Verify(t *testing.T) {
	fb := new(MockIDTokenVerifier)
	profiles := new(MockProfileService)
	v := NewFirebaseVerifier(fb, profiles, zap.NewNop())
	ctx := context.Background()

	customer := &profile.Profile{BaseModel: common.BaseModel{ID: uuid.New()}, Email: "c@example.com", Role: common.RoleCustomer}
	fb.On("VerifyIDToken", ctx, "good").Return(&firebaseauth.Token{
		UID:     "fb-uid",
		Expires: time.Now().Add(time.Hour).Unix(),
		Claims:  map[string]interface{}{"email": "c@example.com", "name": "Omar"},
	}, nil)
	fb.On("VerifyIDToken", ctx, "bad").Return(nil, assert.AnError)
	profiles.On("Resolve", ctx, profile.Identity{FirebaseUID: "fb-uid", Email: "c@example.com", FullName: "Omar"}).Return(customer, true, nil)
	fb.On("RevokeRefreshTokens", ctx, "fb-uid").Return(nil)

	s, err := v.Verify(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, customer.ID, s.ProfileID)
	assert.False(t, s.IsAdmin())
	assert.Equal(t, database.TierPublic, s.Tier())

	_, err = v.Verify(ctx, "bad")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	require.NoError(t, v.Revoke(ctx, s))
	fb.AssertExpectations(t)
}

func TestAttachAndFromGin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Nil(t, ProfileIDFromGin(c))

	s := &Session{ProfileID: uuid.New(), Role: common.RoleCustomer}
	Attach(c, s)

	got, ok := FromGin(c)
	require.True(t, ok)
	assert.Same(t, s, got)

	fromCtx, ok := FromContext(c.Request.Context())
	require.True(t, ok)
	assert.Same(t, s, fromCtx)
	assert.Equal(t, s.ProfileID, *ProfileIDFromGin(c))
}
