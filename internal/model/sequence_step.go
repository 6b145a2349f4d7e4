// internal/model/sequence_step.go
package model

// SequenceStep is one stage of a campaign's outreach pipeline. StepNumber
// defines a total order per campaign; WaitSeconds is the delay after the
// previous step and is ignored for step 1.
type SequenceStep struct {
	ID          int    `db:"id" json:"id"`
	CampaignID  int    `db:"campaign_id" json:"campaign_id"`
	StepNumber  int    `db:"step_number" json:"step_number"`
	Channel     string `db:"channel" json:"channel"` // call, sms, whatsapp, email, note
	WaitSeconds int    `db:"wait_seconds" json:"wait_seconds"`
	Prompt      string `db:"prompt" json:"prompt"`
}
