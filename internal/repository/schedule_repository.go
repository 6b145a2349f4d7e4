package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/unclebandit/leadflow-backend/internal/model"
)

// EntryKey identifies one (lead, step) pair within a campaign.
type EntryKey struct {
	LeadID     int
	StepNumber int
}

type ScheduleRepositoryInterface interface {
	ExistingPairs(campaignID int) (map[EntryKey]struct{}, error)
	InsertBatch(entries []model.LeadScheduleEntry) error
	ListReadyIDs(campaignID int) ([]int, error)
	GetByID(id int) (*model.LeadScheduleEntry, error)
	Update(entry *model.LeadScheduleEntry) error
	StatsByCampaign(campaignID int) (map[string]int, error)
}

type ScheduleRepository struct {
	DB *sql.DB
}

// ExistingPairs snapshots the (lead_id, step_number) pairs already enrolled
// for the campaign. The enrollment filter subtracts this set before writing.
func (r *ScheduleRepository) ExistingPairs(campaignID int) (map[EntryKey]struct{}, error) {
	query := `SELECT lead_id, step_number FROM lead_schedule_entries WHERE campaign_id = $1`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := map[EntryKey]struct{}{}
	for rows.Next() {
		var k EntryKey
		if err := rows.Scan(&k.LeadID, &k.StepNumber); err != nil {
			return nil, err
		}
		pairs[k] = struct{}{}
	}
	return pairs, rows.Err()
}

// InsertBatch writes one chunk of entries in a single multi-row INSERT.
// ON CONFLICT DO NOTHING leans on the (campaign_id, lead_id, step_number)
// uniqueness constraint as the backstop against a concurrent publish that
// slipped past the snapshot.
func (r *ScheduleRepository) InsertBatch(entries []model.LeadScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}

	values := make([]string, 0, len(entries))
	args := make([]interface{}, 0, len(entries)*6)
	for i, e := range entries {
		base := i * 6
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args, e.CampaignID, e.LeadID, e.StepNumber, e.Status, e.NextAt, e.ScheduledAt)
	}

	query := `
        INSERT INTO lead_schedule_entries (campaign_id, lead_id, step_number, status, next_at, scheduled_at)
        VALUES ` + strings.Join(values, ", ") + `
        ON CONFLICT (campaign_id, lead_id, step_number) DO NOTHING
    `
	_, err := r.DB.Exec(query, args...)
	return err
}

// ListReadyIDs returns the IDs of entries whose first step is actionable
// now; the server hands these to the dispatch queue after activation.
func (r *ScheduleRepository) ListReadyIDs(campaignID int) ([]int, error) {
	query := `SELECT id FROM lead_schedule_entries WHERE campaign_id = $1 AND status = $2 ORDER BY id`
	rows, err := r.DB.Query(query, campaignID, model.EntryStatusReady)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ScheduleRepository) GetByID(id int) (*model.LeadScheduleEntry, error) {
	query := `
        SELECT id, campaign_id, lead_id, step_number, status, next_at, scheduled_at, last_contacted_at, last_error
        FROM lead_schedule_entries
        WHERE id=$1
    `
	var e model.LeadScheduleEntry
	err := r.DB.QueryRow(query, id).Scan(
		&e.ID, &e.CampaignID, &e.LeadID, &e.StepNumber,
		&e.Status, &e.NextAt, &e.ScheduledAt, &e.LastContactedAt, &e.LastError,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Update is used by the delivery worker only; the activation engine never
// touches an entry after creating it.
func (r *ScheduleRepository) Update(entry *model.LeadScheduleEntry) error {
	query := `
        UPDATE lead_schedule_entries
        SET status=$1, next_at=$2, last_contacted_at=$3, last_error=$4
        WHERE id=$5
    `
	_, err := r.DB.Exec(query, entry.Status, entry.NextAt, entry.LastContactedAt, entry.LastError, entry.ID)
	return err
}

func (r *ScheduleRepository) StatsByCampaign(campaignID int) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM lead_schedule_entries WHERE campaign_id=$1 GROUP BY status`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{
		model.EntryStatusReady:  0,
		model.EntryStatusQueued: 0,
		model.EntryStatusDone:   0,
		model.EntryStatusFailed: 0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

var _ ScheduleRepositoryInterface = (*ScheduleRepository)(nil)
