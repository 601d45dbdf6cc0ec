package question

import (
	"context"
	"testing"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/intake"
	"estate_leads_backend/internal/notification"
	"estate_leads_backend/internal/platform/database"
	"estate_leads_backend/internal/platform/database/dbtest"
	"estate_leads_backend/internal/profile"
	"estate_leads_backend/internal/triage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type questionSuite struct {
	public   *database.PublicDB
	customer Service
	admin    *adminService
	asker    *profile.Profile
}

func setupQuestions(t *testing.T) *questionSuite {
	t.Helper()
	public, svc := dbtest.Open(t, &profile.Profile{}, &Question{}, &notification.Notification{})
	asker := &profile.Profile{Email: "layla@example.com", FullName: "Layla Nasser", Role: common.RoleCustomer}
	require.NoError(t, profile.NewGORMRepository(public).Create(context.Background(), asker))

	recorder := notification.NewRecorder(notification.NewGORMWriter(public), zap.NewNop())
	admin := NewAdminService(NewGORMRepository(svc), zap.NewNop()).(*adminService)
	return &questionSuite{
		public:   public,
		customer: NewService(NewGORMCustomerRepository(public), recorder, zap.NewNop()),
		admin:    admin,
		asker:    asker,
	}
}

func TestQuestion_AskAndListMine(t *testing.T) {
	ts := setupQuestions(t)
	ctx := context.Background()

	first, err := ts.customer.Ask(ctx, ts.asker.ID, CreateRequest{Subject: "Service charges", Message: "What are the service charges in JVC?"})
	require.NoError(t, err)
	assert.Equal(t, "general", first.Category)
	assert.Equal(t, "Pending", first.Badge.Label)

	time.Sleep(5 * time.Millisecond)
	_, err = ts.customer.Ask(ctx, ts.asker.ID, CreateRequest{Subject: "Viewing", Message: "Can I view on Saturday?", Category: "buying"})
	require.NoError(t, err)
	other := &profile.Profile{Email: "omar@example.com", Role: common.RoleCustomer}
	require.NoError(t, profile.NewGORMRepository(ts.public).Create(ctx, other))
	_, err = ts.customer.Ask(ctx, other.ID, CreateRequest{Subject: "Other person", Message: "Not mine at all"})
	require.NoError(t, err)

	mine, err := ts.customer.ListMine(ctx, ts.asker.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Viewing", mine[0].Subject)
	assert.Equal(t, "Service charges", mine[1].Subject)

	var notes int64
	require.NoError(t, ts.public.DB.Model(&notification.Notification{}).Where("kind = ?", notification.KindCustomerQuestion).Count(&notes).Error)
	assert.EqualValues(t, 3, notes)

	_, err = ts.customer.Ask(ctx, ts.asker.ID, CreateRequest{Subject: "Hi", Message: "short"})
	var apiErr *common.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
}

func TestQuestion_AdminListPreloadsProfileAndFilters(t *testing.T) {
	ts := setupQuestions(t)
	ctx := context.Background()
	_, err := ts.customer.Ask(ctx, ts.asker.ID, CreateRequest{Subject: "Mortgage advice", Message: "Which banks do you work with?", Category: "buying"})
	require.NoError(t, err)
	_, err = ts.customer.Ask(ctx, ts.asker.ID, CreateRequest{Subject: "Tenancy", Message: "Is Ejari included?", Category: "renting"})
	require.NoError(t, err)

	admin := dbtest.AdminContext()
	all, err := ts.admin.List(admin, triage.Query{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.NotNil(t, all[0].Profile)
	assert.Equal(t, "Layla Nasser", all[0].Profile.FullName)

	found, err := ts.admin.List(admin, triage.Query{Search: "ejari"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Tenancy", found[0].Subject)

	buying, err := ts.admin.List(admin, triage.Query{Filters: map[string]string{"category": "buying", "status": triage.FilterAll}})
	require.NoError(t, err)
	require.Len(t, buying, 1)

	_, err = ts.admin.List(context.Background(), triage.Query{})
	require.Error(t, err)
}

func TestQuestion_AdminUpdateMergesAnswer(t *testing.T) {
	ts := setupQuestions(t)
	asked, err := ts.customer.Ask(context.Background(), ts.asker.ID, CreateRequest{Subject: "Handover date", Message: "When is handover for Tower B?"})
	require.NoError(t, err)

	fixed := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	ts.admin.now = func() time.Time { return fixed }
	admin := dbtest.AdminContext()

	answered, err := ts.admin.Update(admin, asked.ID, []byte(`{"answer":"Q3 2026."}`))
	require.NoError(t, err)
	assert.Equal(t, "answered", answered.Status)
	assert.Equal(t, "Q3 2026.", answered.Answer)
	require.NotNil(t, answered.AnsweredAt)
	assert.True(t, fixed.Equal(*answered.AnsweredAt))

	closed, err := ts.admin.Update(admin, asked.ID, []byte(`{"status":"closed"}`))
	require.NoError(t, err)
	assert.Equal(t, "closed", closed.Status)
	assert.Equal(t, "Q3 2026.", closed.Answer)

	_, err = ts.admin.Update(admin, asked.ID, []byte(`{"status":"archived"}`))
	var apiErr *common.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)

	require.NoError(t, ts.admin.Delete(admin, asked.ID))
	_, err = ts.admin.Get(admin, asked.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestQuestion_AdminUpdateExplicitStatusWins(t *testing.T) {
	ts := setupQuestions(t)
	asked, err := ts.customer.Ask(context.Background(), ts.asker.ID, CreateRequest{Subject: "Parking", Message: "Is a second bay available?"})
	require.NoError(t, err)
	admin := dbtest.AdminContext()

	drafted, err := ts.admin.Update(admin, asked.ID, []byte(`{"status":"pending","answer":"Checking with the owner."}`))
	require.NoError(t, err)
	assert.Equal(t, "pending", drafted.Status, "an explicit status is not promoted")
	assert.Equal(t, "Checking with the owner.", drafted.Answer)
	assert.NotNil(t, drafted.AnsweredAt)

	closed, err := ts.admin.Update(admin, asked.ID, []byte(`{"status":"closed","answer":"No second bay."}`))
	require.NoError(t, err)
	assert.Equal(t, "closed", closed.Status)
}

func TestQuestion_SubmitIntake(t *testing.T) {
	ts := setupQuestions(t)
	values := intake.Values{"subject": "Golden visa", "message": "Does a 2M purchase qualify?", "category": "buying"}

	_, err := ts.customer.SubmitIntake(context.Background(), intake.Submission{Form: intake.FormCustomerQuestion, Values: values})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	created, err := ts.customer.SubmitIntake(context.Background(), intake.Submission{
		Form:      intake.FormCustomerQuestion,
		ProfileID: &ts.asker.ID,
		Values:    values,
	})
	require.NoError(t, err)
	assert.Equal(t, "customer_question", created.Entity)
	assert.NotEqual(t, uuid.Nil, created.ID)

	mine, err := ts.customer.ListMine(context.Background(), ts.asker.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Golden visa", mine[0].Subject)
}
