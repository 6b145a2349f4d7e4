// internal/model/lead.go
package model

import "time"

type Lead struct {
	ID             int       `db:"id" json:"id"`
	CampaignID     int       `db:"campaign_id" json:"campaign_id"`
	Name           string    `db:"name" json:"name"`
	Phone          string    `db:"phone" json:"phone"`
	Email          string    `db:"email" json:"email"`
	Company        string    `db:"company" json:"company"`
	JobTitle       string    `db:"job_title" json:"job_title"`
	Source         string    `db:"source" json:"source"` // manual, csv, api
	OutreachStatus string    `db:"outreach_status" json:"outreach_status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
