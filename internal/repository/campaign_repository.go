package repository

import (
	"database/sql"
	"fmt"
	"time"

	appErrors "github.com/unclebandit/leadflow-backend/internal/errors"
	"github.com/unclebandit/leadflow-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	// Campaign CRUD
	ListCampaigns(offset, limit int, status string, ownerID int) ([]*model.Campaign, int, error)
	GetByID(id int) (*model.Campaign, error)
	Update(c *model.Campaign) error
	Create(c *model.Campaign) error

	// Activation
	ActivateIfDraft(campaignID int, activatedAt time.Time) (bool, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.CampaignStatusDraft
	}
	query := `
        INSERT INTO campaigns (owner_id, name, offer, calendar_url, goal, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.OwnerID, c.Name, c.Offer, c.CalendarURL, c.Goal, c.Status, c.CreatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) Update(c *model.Campaign) error {
	query := `
        UPDATE campaigns
        SET name=$1, offer=$2, calendar_url=$3, goal=$4, status=$5, updated_at=NOW()
        WHERE id=$6
    `
	_, err := r.DB.Exec(query, c.Name, c.Offer, c.CalendarURL, c.Goal, c.Status, c.ID)
	return err
}

// UpdateStatus applies an unconditional status change (pause, complete).
// Activation must go through ActivateIfDraft instead.
func (r *CampaignRepository) UpdateStatus(campaignID int, status string) error {
	query := `UPDATE campaigns SET status=$1, updated_at=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, status, time.Now(), campaignID)
	return err
}

// ActivateIfDraft flips the campaign to active only if it is still in draft.
// The conditional WHERE is the mutual-exclusion mechanism against a
// concurrent second publish: the loser sees zero rows affected.
func (r *CampaignRepository) ActivateIfDraft(campaignID int, activatedAt time.Time) (bool, error) {
	query := `
        UPDATE campaigns
        SET status=$1, activated_at=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4
    `
	res, err := r.DB.Exec(query, model.CampaignStatusActive, activatedAt, campaignID, model.CampaignStatusDraft)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `
        SELECT id, owner_id, name, offer, calendar_url, goal, status, activated_at, created_at, updated_at
        FROM campaigns WHERE id=$1
    `
	var c model.Campaign
	err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.OwnerID, &c.Name, &c.Offer, &c.CalendarURL, &c.Goal, &c.Status, &c.ActivatedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) ListCampaigns(offset, limit int, status string, ownerID int) ([]*model.Campaign, int, error) {
	campaigns := []*model.Campaign{}
	query := `SELECT id, owner_id, name, offer, calendar_url, goal, status, activated_at, created_at, updated_at FROM campaigns WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}
	if ownerID != 0 {
		query += fmt.Sprintf(" AND owner_id=$%d", argPos)
		args = append(args, ownerID)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c := &model.Campaign{}
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Offer, &c.CalendarURL, &c.Goal, &c.Status, &c.ActivatedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}

	// Count total
	countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
	argsCount := []interface{}{}
	argPosCount := 1
	if status != "" {
		countQuery += fmt.Sprintf(" AND status=$%d", argPosCount)
		argsCount = append(argsCount, status)
		argPosCount++
	}
	if ownerID != 0 {
		countQuery += fmt.Sprintf(" AND owner_id=$%d", argPosCount)
		argsCount = append(argsCount, ownerID)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
