// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/store/oauthstate"
	"go.uber.org/zap"
)

// OAuthStateCleanupJob creates a job that removes expired OAuth state tokens.
// This is a backup for when MongoDB's TTL index cleanup is delayed.
func OAuthStateCleanupJob(stateStore *oauthstate.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "oauth-state-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := stateStore.CleanupExpired(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("cleaned up expired OAuth states", zap.Int64("count", count))
			}
			return nil
		},
	}
}

// Sweeper is satisfied by the in-memory rate limiters.
type Sweeper interface {
	Sweep() int
}

// RateLimitSweepJob drops expired rate limit windows so idle keys do not
// accumulate.
func RateLimitSweepJob(name string, s Sweeper, logger *zap.Logger) Job {
	return Job{
		Name:     name,
		Interval: 5 * time.Minute,
		Run: func(context.Context) error {
			if n := s.Sweep(); n > 0 {
				logger.Debug("swept rate limit windows", zap.String("limiter", name), zap.Int("count", n))
			}
			return nil
		},
	}
}
