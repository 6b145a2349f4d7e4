// internal/model/schedule_entry.go
package model

import "time"

// Schedule entry statuses. The activation engine only ever writes ready and
// queued; the delivery worker owns the rest.
const (
	EntryStatusReady      = "ready"
	EntryStatusQueued     = "queued"
	EntryStatusInProgress = "in_progress"
	EntryStatusDone       = "done"
	EntryStatusFailed     = "failed"
	EntryStatusSkipped    = "skipped"
)

// LeadScheduleEntry tracks one (lead, step) pair of a campaign. The pair is
// unique per campaign; enrollment never updates an entry it already created.
type LeadScheduleEntry struct {
	ID              int        `db:"id" json:"id"`
	CampaignID      int        `db:"campaign_id" json:"campaign_id"`
	LeadID          int        `db:"lead_id" json:"lead_id"`
	StepNumber      int        `db:"step_number" json:"step_number"`
	Status          string     `db:"status" json:"status"`
	NextAt          time.Time  `db:"next_at" json:"next_at"`
	ScheduledAt     time.Time  `db:"scheduled_at" json:"scheduled_at"`
	LastContactedAt *time.Time `db:"last_contacted_at" json:"last_contacted_at,omitempty"`
	LastError       string     `db:"last_error" json:"last_error,omitempty"`
}
