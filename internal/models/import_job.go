package models

import "time"

// ImportJob tracks one dataset import run, manual or scheduled.
type ImportJob struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	Source        string `gorm:"size:16;default:manual"`
	Status        string `gorm:"size:16;default:pending"`
	BooksLoaded   int
	RatingsLoaded int
	RowsSkipped   int
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
	ErrorMessage  string `gorm:"type:text"`
}

// ImportJob statuses.
const (
	ImportPending = "pending"
	ImportRunning = "running"
	ImportDone    = "done"
	ImportError   = "error"
)

// ImportJob sources.
const (
	SourceManual    = "manual"
	SourceScheduled = "scheduled"
)
