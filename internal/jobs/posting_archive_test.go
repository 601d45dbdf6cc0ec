package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"estate_leads_backend/internal/config"
	"estate_leads_backend/internal/platform/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) ArchiveStalePostings(ctx context.Context, lifespan time.Duration) (int64, error) {
	args := m.Called(ctx, lifespan)
	return args.Get(0).(int64), args.Error(1)
}

func TestPostingArchiveJob_RunStampsServiceTier(t *testing.T) {
	archiver := new(MockArchiver)
	archiver.On("ArchiveStalePostings", mock.MatchedBy(func(ctx context.Context) bool {
		return database.TierFrom(ctx) == database.TierService
	}), 30*24*time.Hour).Return(int64(3), nil).Once()

	core, logs := observer.New(zap.InfoLevel)
	job := NewPostingArchiveJob(archiver, zap.New(core), &config.Config{
		PostingArchiveJobSchedule: "@daily",
		JobPostingLifespanDays:    30,
	})
	job.runJob()

	archiver.AssertExpectations(t)
	done := logs.FilterMessage("Posting archive job run completed").All()
	require.Len(t, done, 1)
	assert.EqualValues(t, 3, done[0].ContextMap()["postings_archived"])
}

func TestPostingArchiveJob_RunLogsFailure(t *testing.T) {
	archiver := new(MockArchiver)
	archiver.On("ArchiveStalePostings", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	core, logs := observer.New(zap.InfoLevel)
	NewPostingArchiveJob(archiver, zap.New(core), &config.Config{JobPostingLifespanDays: 1}).runJob()

	assert.Equal(t, 1, logs.FilterMessage("Posting archive job run failed").Len())
}

func TestPostingArchiveJob_SetupAndStart(t *testing.T) {
	archiver := new(MockArchiver)

	disabled := NewPostingArchiveJob(archiver, zap.NewNop(), &config.Config{})
	require.NoError(t, disabled.SetupAndStart())

	bad := NewPostingArchiveJob(archiver, zap.NewNop(), &config.Config{PostingArchiveJobSchedule: "every now and then", JobPostingLifespanDays: 90})
	assert.Error(t, bad.SetupAndStart())

	ok := NewPostingArchiveJob(archiver, zap.NewNop(), &config.Config{PostingArchiveJobSchedule: "@daily", JobPostingLifespanDays: 90})
	require.NoError(t, ok.SetupAndStart())
	ok.Stop()
}
