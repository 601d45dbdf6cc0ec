// File: internal/jobs/posting_archive.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"estate_leads_backend/internal/careers"
	"estate_leads_backend/internal/config"
	"estate_leads_backend/internal/platform/database"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PostingArchiver is the part of the careers admin service the job needs.
type PostingArchiver interface {
	ArchiveStalePostings(ctx context.Context, lifespan time.Duration) (int64, error)
}

var _ PostingArchiver = (careers.AdminService)(nil)

// PostingArchiveJob archives job postings that outlived their lifespan.
type PostingArchiveJob struct {
	archiver      PostingArchiver
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

func NewPostingArchiveJob(
	archiver PostingArchiver,
	logger *zap.Logger,
	cfg *config.Config,
) *PostingArchiveJob {
	scheduler := cron.New(
		cron.WithLogger(NewCronLogger(logger.Named("cron"))),
		cron.WithChain(cron.SkipIfStillRunning(NewCronLogger(logger.Named("cron")))),
	)

	return &PostingArchiveJob{
		archiver:      archiver,
		logger:        logger.Named("PostingArchiveJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *PostingArchiveJob) SetupAndStart() error {
	jobSpec := j.cfg.PostingArchiveJobSchedule // e.g. "@daily", "0 2 * * *"
	if jobSpec == "" {
		j.logger.Warn("Posting archive job schedule not defined (POSTING_ARCHIVE_JOB_SCHEDULE). Job will not run.")
		return nil
	}
	if j.cfg.JobPostingLifespanDays <= 0 {
		j.logger.Warn("JOB_POSTING_LIFESPAN_DAYS is not positive. Posting archive job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule posting archive job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Posting archive job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *PostingArchiveJob) runJob() {
	j.logger.Info("Starting posting archive job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = database.WithTier(ctx, database.TierService)

	lifespan := time.Duration(j.cfg.JobPostingLifespanDays) * 24 * time.Hour
	archived, err := j.archiver.ArchiveStalePostings(ctx, lifespan)
	if err != nil {
		j.logger.Error("Posting archive job run failed", zap.Error(err))
		return
	}
	j.logger.Info("Posting archive job run completed", zap.Int64("postings_archived", archived))
}

// Stop gracefully stops the cron scheduler.
func (j *PostingArchiveJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping posting archive job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Posting archive job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Posting archive job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Debug(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
