// internal/service/lead_service.go
package service

import (
	"fmt"
	"log"

	"github.com/unclebandit/leadflow-backend/internal/dedup"
	"github.com/unclebandit/leadflow-backend/internal/model"
	"github.com/unclebandit/leadflow-backend/internal/normalize"
	"github.com/unclebandit/leadflow-backend/internal/repository"
)

type LeadService struct {
	LeadRepo repository.LeadRepositoryInterface

	// DefaultRegion is the phonenumbers region used for advisory phone
	// checks on upload ("US" when empty).
	DefaultRegion string
}

// UploadResult is what one upload produced: the dedup partition plus
// advisory warnings about numbers that are not dialable. Warnings never
// block an upload.
type UploadResult struct {
	dedup.Result
	Warnings []string `json:"warnings,omitempty"`
}

// UploadLeads deduplicates candidates against each other and against the
// leads already persisted for the campaign, then persists only the unique
// ones. If the reference lookup fails the whole batch is reported as
// duplicates and nothing is written (fail closed).
func (s *LeadService) UploadLeads(campaignID int, candidates []model.Lead, source string) (*UploadResult, error) {
	for i := range candidates {
		candidates[i].CampaignID = campaignID
		if candidates[i].Source == "" {
			candidates[i].Source = source
		}
	}

	reference, err := s.LeadRepo.ListContactKeys(campaignID)
	if err != nil {
		log.Println("⚠️ reference lookup failed, rejecting batch:", err)
		return &UploadResult{Result: dedup.FailClosed(candidates, err)}, nil
	}

	result := &UploadResult{Result: dedup.Deduplicate(candidates, reference)}

	for _, l := range result.Unique {
		if l.Phone == "" {
			continue
		}
		if check := normalize.CheckPhone(l.Phone, s.DefaultRegion); !check.Dialable {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("lead %q: phone %q does not look dialable", l.Name, l.Phone))
		}
	}

	persisted, err := s.LeadRepo.InsertBatch(result.Unique)
	if err != nil {
		return nil, fmt.Errorf("failed to persist leads: %w", err)
	}
	result.Unique = persisted
	return result, nil
}

// PreviewDuplicates runs the same partition as UploadLeads but performs no
// writes; it backs the user-facing duplicate report export.
func (s *LeadService) PreviewDuplicates(campaignID int, candidates []model.Lead) (*dedup.Result, error) {
	for i := range candidates {
		candidates[i].CampaignID = campaignID
	}
	reference, err := s.LeadRepo.ListContactKeys(campaignID)
	if err != nil {
		res := dedup.FailClosed(candidates, err)
		return &res, nil
	}
	res := dedup.Deduplicate(candidates, reference)
	return &res, nil
}
