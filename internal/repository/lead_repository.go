package repository

import (
	"database/sql"
	"time"

	"github.com/unclebandit/leadflow-backend/internal/dedup"
	"github.com/unclebandit/leadflow-backend/internal/model"
)

// LeadRepositoryInterface defines methods used by services
type LeadRepositoryInterface interface {
	InsertBatch(leads []model.Lead) ([]model.Lead, error)
	ListByCampaign(campaignID int) ([]model.Lead, error)
	ListContactKeys(campaignID int) ([]dedup.ReferenceContact, error)
	CountByCampaign(campaignID int) (int, error)
	EnsureOutreachStatus(campaignID int, defaultStatus string) error
}

// LeadRepository is the concrete implementation
type LeadRepository struct {
	DB *sql.DB
}

// InsertBatch persists leads and returns them with IDs assigned.
func (r *LeadRepository) InsertBatch(leads []model.Lead) ([]model.Lead, error) {
	query := `
        INSERT INTO leads (campaign_id, name, phone, email, company, job_title, source, outreach_status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	now := time.Now()
	out := make([]model.Lead, 0, len(leads))
	for _, l := range leads {
		l.CreatedAt = now
		if l.OutreachStatus == "" {
			l.OutreachStatus = "not_called"
		}
		if err := r.DB.QueryRow(query, l.CampaignID, l.Name, l.Phone, l.Email, l.Company, l.JobTitle, l.Source, l.OutreachStatus, l.CreatedAt).Scan(&l.ID); err != nil {
			return out, err
		}
		out = append(out, l)
	}
	return out, nil
}

// ListByCampaign fetches all leads uploaded to a campaign
func (r *LeadRepository) ListByCampaign(campaignID int) ([]model.Lead, error) {
	query := `
        SELECT id, campaign_id, name, phone, email, company, job_title, source, outreach_status, created_at
        FROM leads
        WHERE campaign_id = $1
        ORDER BY id
    `
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []model.Lead{}
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(&l.ID, &l.CampaignID, &l.Name, &l.Phone, &l.Email, &l.Company, &l.JobTitle, &l.Source, &l.OutreachStatus, &l.CreatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// ListContactKeys fetches only the phone/email projection used as the
// cross-reference set by deduplication.
func (r *LeadRepository) ListContactKeys(campaignID int) ([]dedup.ReferenceContact, error) {
	query := `SELECT id, phone, email FROM leads WHERE campaign_id = $1 ORDER BY id`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []dedup.ReferenceContact{}
	for rows.Next() {
		var c dedup.ReferenceContact
		if err := rows.Scan(&c.LeadID, &c.Phone, &c.Email); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *LeadRepository) CountByCampaign(campaignID int) (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM leads WHERE campaign_id = $1`, campaignID).Scan(&count)
	return count, err
}

// EnsureOutreachStatus backfills the default outreach status on any lead
// that is missing one (older uploads predate the column).
func (r *LeadRepository) EnsureOutreachStatus(campaignID int, defaultStatus string) error {
	query := `
        UPDATE leads SET outreach_status = $1
        WHERE campaign_id = $2 AND (outreach_status IS NULL OR outreach_status = '')
    `
	_, err := r.DB.Exec(query, defaultStatus, campaignID)
	return err
}

var _ LeadRepositoryInterface = (*LeadRepository)(nil)
