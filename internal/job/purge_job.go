package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"campus-lostfound-api/internal/metrics"
)

// UserPurger is the slice of the user repository the job needs
type UserPurger interface {
	DeleteUnconfirmedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PurgeJob removes accounts that never confirmed their email address.
// Once the grace window has passed their confirmation token is long
// expired, and purging frees the username and email for a fresh
// registration.
type PurgeJob struct {
	userRepo UserPurger
	grace    time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewPurgeJob creates a new PurgeJob instance
func NewPurgeJob(
	userRepo UserPurger,
	grace time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *PurgeJob {
	return &PurgeJob{
		userRepo: userRepo,
		grace:    grace,
		metrics:  m,
		logger:   logger,
	}
}

// Run executes the purge job
func (j *PurgeJob) Run() {
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-j.grace)

	purged, err := j.userRepo.DeleteUnconfirmedBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("Failed to purge unconfirmed accounts", zap.Error(err))
		return
	}

	if purged > 0 {
		j.metrics.AddAccountsPurged(purged)
		j.logger.Info("Purged unconfirmed accounts",
			zap.Int64("count", purged),
			zap.Time("cutoff", cutoff),
		)
	}
}
