package domain

import "time"

// RunStatus distinguishes a completed run from one rejected by the run lock.
type RunStatus string

const (
	StatusCompleted RunStatus = "completed"
	StatusBusy      RunStatus = "busy"
)

// RunStats holds statistics about one agent run.
type RunStats struct {
	Status          RunStatus
	Feeds           int
	FeedErrors      int
	Items           int
	ExtractFallback int
	EnrichFallback  int
	Published       int
	PublishErrors   int
	MailsSent       int
	MailErrors      int
	Duration        time.Duration
}
