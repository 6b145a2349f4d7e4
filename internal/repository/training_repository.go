package repository

import "database/sql"

type TrainingRepositoryInterface interface {
	GetPrompt(campaignID int) (string, error)
	SetPrompt(campaignID int, prompt string) error
}

// TrainingRepository stores the single free-text training prompt kept per
// campaign.
type TrainingRepository struct {
	DB *sql.DB
}

func (r *TrainingRepository) GetPrompt(campaignID int) (string, error) {
	var prompt string
	err := r.DB.QueryRow(`SELECT prompt FROM training_content WHERE campaign_id = $1`, campaignID).Scan(&prompt)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return prompt, nil
}

func (r *TrainingRepository) SetPrompt(campaignID int, prompt string) error {
	query := `
        INSERT INTO training_content (campaign_id, prompt)
        VALUES ($1, $2)
        ON CONFLICT (campaign_id) DO UPDATE SET prompt = EXCLUDED.prompt
    `
	_, err := r.DB.Exec(query, campaignID, prompt)
	return err
}

var _ TrainingRepositoryInterface = (*TrainingRepository)(nil)
