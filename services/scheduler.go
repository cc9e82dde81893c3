// services/scheduler.go
package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartPremiumScheduler runs the premium expiry sweep every interval until
// Shutdown is called on the returned scheduler.
func (s *AuthService) StartPremiumScheduler(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			n, err := s.ExpirePremium(ctx, time.Now())
			if err != nil {
				s.Log.Error("[SCHEDULER] premium expiry failed", "error", err)
				return
			}
			if n > 0 {
				s.Log.Info("[SCHEDULER] premium subscriptions expired", "count", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
