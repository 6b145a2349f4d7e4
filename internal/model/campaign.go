// internal/model/campaign.go
package model

import "time"

// Campaign statuses. Only a draft campaign may be activated.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

type Campaign struct {
	ID          int        `db:"id" json:"id"`
	OwnerID     int        `db:"owner_id" json:"owner_id"`
	Name        string     `db:"name" json:"name"`
	Offer       string     `db:"offer" json:"offer"`
	CalendarURL string     `db:"calendar_url" json:"calendar_url"`
	Goal        string     `db:"goal" json:"goal"`
	Status      string     `db:"status" json:"status"` // draft, active, paused, completed
	ActivatedAt *time.Time `db:"activated_at" json:"activated_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
