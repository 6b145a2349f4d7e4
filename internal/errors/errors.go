// internal/errors/errors.go
package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrCampaignNotDraft is returned when activation is attempted on a campaign
// that already left draft (a concurrent publish or an earlier activation).
type ErrCampaignNotDraft struct {
	CampaignID int
	Status     string
}

func (e *ErrCampaignNotDraft) Error() string {
	return fmt.Sprintf("campaign %d is %s, only draft campaigns can be activated", e.CampaignID, e.Status)
}

func NewCampaignNotDraft(id int, status string) error {
	return &ErrCampaignNotDraft{CampaignID: id, Status: status}
}
