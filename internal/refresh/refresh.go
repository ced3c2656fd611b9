// Package refresh re-imports the dataset on a cron schedule.
package refresh

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shelfrec/shelfrec/internal/dataset"
	"github.com/shelfrec/shelfrec/internal/models"
	"github.com/shelfrec/shelfrec/internal/notify"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Scheduler runs scheduled dataset imports.
type Scheduler struct {
	importer *dataset.Importer
	notifier *notify.Notifier
	schedule cron.Schedule
}

// New creates a Scheduler from a 5-field cron expression.
func New(importer *dataset.Importer, notifier *notify.Notifier, schedule string) (*Scheduler, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	return &Scheduler{importer: importer, notifier: notifier, schedule: sched}, nil
}

// nextAfter returns when the schedule fires next after t.
func (s *Scheduler) nextAfter(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Run fires the schedule until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := s.nextAfter(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce runs one scheduled import and reports the outcome.
func (s *Scheduler) runOnce(ctx context.Context) {
	res, err := s.importer.Run(ctx, models.SourceScheduled)
	if err != nil {
		log.Printf("refresh: import failed: %v", err)
		s.notifier.ImportFinished(&models.ImportJob{
			Source:       models.SourceScheduled,
			Status:       models.ImportError,
			ErrorMessage: err.Error(),
		})
		return
	}
	log.Printf("refresh: import finished: %d books, %d ratings, %d rows skipped",
		res.BooksLoaded, res.RatingsLoaded, res.RowsSkipped)
	s.notifier.ImportFinished(res.Job)
}
