package repository

import (
	"database/sql"

	"github.com/unclebandit/leadflow-backend/internal/model"
)

type SequenceRepositoryInterface interface {
	ListByCampaign(campaignID int) ([]model.SequenceStep, error)
	Create(step *model.SequenceStep) error
}

type SequenceRepository struct {
	DB *sql.DB
}

// ListByCampaign returns the campaign's steps ordered by step_number, which
// is the order the schedule expander accumulates waits in.
func (r *SequenceRepository) ListByCampaign(campaignID int) ([]model.SequenceStep, error) {
	query := `
        SELECT id, campaign_id, step_number, channel, wait_seconds, prompt
        FROM sequence_steps
        WHERE campaign_id = $1
        ORDER BY step_number ASC
    `
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := []model.SequenceStep{}
	for rows.Next() {
		var s model.SequenceStep
		if err := rows.Scan(&s.ID, &s.CampaignID, &s.StepNumber, &s.Channel, &s.WaitSeconds, &s.Prompt); err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

func (r *SequenceRepository) Create(step *model.SequenceStep) error {
	query := `
        INSERT INTO sequence_steps (campaign_id, step_number, channel, wait_seconds, prompt)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	return r.DB.QueryRow(query, step.CampaignID, step.StepNumber, step.Channel, step.WaitSeconds, step.Prompt).Scan(&step.ID)
}

var _ SequenceRepositoryInterface = (*SequenceRepository)(nil)
