// Package notify delivers best-effort Slack notifications for dataset
// import runs.
package notify

import (
	"fmt"
	"log"

	"github.com/shelfrec/shelfrec/internal/models"
	"github.com/slack-go/slack"
)

// Notifier posts import outcomes to a Slack incoming webhook. A zero
// Notifier is a no-op.
type Notifier struct {
	WebhookURL string

	// post is swappable for tests; defaults to slack.PostWebhook.
	post func(url string, msg *slack.WebhookMessage) error
}

// New creates a Notifier for the given webhook URL. An empty URL disables
// delivery.
func New(webhookURL string) *Notifier {
	return &Notifier{WebhookURL: webhookURL, post: slack.PostWebhook}
}

// ImportFinished reports a completed or failed import. Best-effort: errors
// are logged, not returned.
func (n *Notifier) ImportFinished(job *models.ImportJob) {
	if n == nil || n.WebhookURL == "" || job == nil {
		return
	}
	poster := n.post
	if poster == nil {
		poster = slack.PostWebhook
	}

	msg := &slack.WebhookMessage{Text: formatJob(job)}
	if err := poster(n.WebhookURL, msg); err != nil {
		log.Printf("notify: slack webhook failed: %v", err)
	}
}

// formatJob renders a one-line summary of an import job.
func formatJob(job *models.ImportJob) string {
	if job.Status == models.ImportError {
		return fmt.Sprintf("Shelfrec %s import failed: %s", job.Source, job.ErrorMessage)
	}
	return fmt.Sprintf("Shelfrec %s import finished: %d books, %d ratings, %d rows skipped",
		job.Source, job.BooksLoaded, job.RatingsLoaded, job.RowsSkipped)
}
