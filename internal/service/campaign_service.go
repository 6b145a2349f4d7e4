// internal/service/campaign_service.go
package service

import (
	"time"

	"github.com/unclebandit/leadflow-backend/internal/model"
	"github.com/unclebandit/leadflow-backend/internal/repository"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	LeadRepo     repository.LeadRepositoryInterface
	ScheduleRepo repository.ScheduleRepositoryInterface
}

type CampaignDetails struct {
	ID          int            `json:"id"`
	OwnerID     int            `json:"owner_id"`
	Name        string         `json:"name"`
	Offer       string         `json:"offer"`
	CalendarURL string         `json:"calendar_url"`
	Goal        string         `json:"goal"`
	Status      string         `json:"status"`
	ActivatedAt *time.Time     `json:"activated_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   *time.Time     `json:"updated_at"`
	LeadCount   int            `json:"lead_count"`
	Stats       map[string]int `json:"stats"`
}

func (s *CampaignService) CreateCampaign(ownerID int, name, offer, calendarURL, goal string) (*model.Campaign, error) {
	c := &model.Campaign{
		OwnerID:     ownerID,
		Name:        name,
		Offer:       offer,
		CalendarURL: calendarURL,
		Goal:        goal,
		Status:      model.CampaignStatusDraft,
	}
	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCampaigns fetches campaigns with pagination
func (s *CampaignService) ListCampaigns(page, pageSize int, status string, ownerID int) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.CampaignRepo.ListCampaigns(offset, pageSize, status, ownerID)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return campaigns, pagination, nil
}

// GetCampaignDetailsWithStats fetches a campaign together with its lead
// count and a per-status breakdown of its schedule entries.
func (s *CampaignService) GetCampaignDetailsWithStats(campaignID int) (*CampaignDetails, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}

	leadCount, err := s.LeadRepo.CountByCampaign(campaignID)
	if err != nil {
		return nil, err
	}

	stats, err := s.ScheduleRepo.StatsByCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range stats {
		total += n
	}
	stats["total"] = total

	return &CampaignDetails{
		ID:          campaign.ID,
		OwnerID:     campaign.OwnerID,
		Name:        campaign.Name,
		Offer:       campaign.Offer,
		CalendarURL: campaign.CalendarURL,
		Goal:        campaign.Goal,
		Status:      campaign.Status,
		ActivatedAt: campaign.ActivatedAt,
		CreatedAt:   campaign.CreatedAt,
		UpdatedAt:   campaign.UpdatedAt,
		LeadCount:   leadCount,
		Stats:       stats,
	}, nil
}
