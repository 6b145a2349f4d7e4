// internal/service/activation_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	appErrors "github.com/unclebandit/leadflow-backend/internal/errors"
	"github.com/unclebandit/leadflow-backend/internal/model"
	"github.com/unclebandit/leadflow-backend/internal/queue"
	"github.com/unclebandit/leadflow-backend/internal/repository"
)

// OutreachStatusNotCalled is the default outreach status stamped on every
// lead during provisioning.
const OutreachStatusNotCalled = "not_called"

// ActivationService is the publish state machine: draft → validating →
// provisioning → scheduling → active. Any failure before the final flip
// leaves the campaign in draft with the full error list for the user.
type ActivationService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	LeadRepo     repository.LeadRepositoryInterface
	SequenceRepo repository.SequenceRepositoryInterface
	ScheduleRepo repository.ScheduleRepositoryInterface
	ChannelRepo  repository.ChannelRepositoryInterface
	TrainingRepo repository.TrainingRepositoryInterface
	Enroller     *BatchEnroller
	Queue        queue.Queue

	// Now is swappable in tests; defaults to time.Now.
	Now func() time.Time
}

// ActivationResult is the structured outcome surfaced to the caller. Errors
// is a flat list of user-displayable strings; a non-empty list means the
// campaign is still in draft.
type ActivationResult struct {
	CampaignID     int      `json:"campaign_id"`
	Status         string   `json:"status"`
	EntriesWritten int      `json:"entries_written"`
	EntriesSkipped int      `json:"entries_skipped"`
	ReadyEntryIDs  []int    `json:"ready_entry_ids,omitempty"`
	Errors         []string `json:"errors,omitempty"`
}

func (s *ActivationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ActivateCampaign is the only entry point that mutates campaign status.
func (s *ActivationService) ActivateCampaign(ctx context.Context, campaignID int) (*ActivationResult, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}

	result := &ActivationResult{CampaignID: campaignID, Status: campaign.Status}

	if campaign.Status != model.CampaignStatusDraft {
		result.Errors = append(result.Errors,
			appErrors.NewCampaignNotDraft(campaignID, campaign.Status).Error())
		return result, nil
	}

	// Validating: every violated precondition is collected so the user sees
	// all of them at once.
	validationErrs, err := s.validate(campaign)
	if err != nil {
		return nil, err
	}
	if len(validationErrs) > 0 {
		result.Errors = validationErrs
		return result, nil
	}

	// Provisioning: defaults are created before any schedule row is written,
	// so a provisioning failure aborts cleanly.
	steps, provErrs := s.provision(campaign)
	if len(provErrs) > 0 {
		result.Errors = provErrs
		return result, nil
	}

	// Scheduling: expand the full lead×step matrix and enroll it.
	leads, err := s.LeadRepo.ListByCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	leadIDs := make([]int, 0, len(leads))
	for _, l := range leads {
		leadIDs = append(leadIDs, l.ID)
	}

	activatedAt := s.now()
	candidates := ExpandSchedule(campaignID, steps, leadIDs, activatedAt)
	if len(candidates) == 0 {
		result.Errors = append(result.Errors, "no leads to schedule")
		return result, nil
	}

	enrollment, err := s.Enroller.Enroll(ctx, campaignID, candidates)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, nil
	}
	result.EntriesWritten = enrollment.Written
	result.EntriesSkipped = enrollment.Skipped

	if len(enrollment.BatchErrors) > 0 {
		// Partial success: written batches stay durable and the idempotency
		// filter makes the next publish retry only what is missing.
		for _, be := range enrollment.BatchErrors {
			result.Errors = append(result.Errors, fmt.Sprintf("schedule write failed for %s", be.Error()))
		}
		return result, nil
	}

	// The conditional flip is the last step; losing it means a concurrent
	// publish got there first.
	flipped, err := s.CampaignRepo.ActivateIfDraft(campaignID, activatedAt)
	if err != nil {
		return nil, err
	}
	if !flipped {
		result.Errors = append(result.Errors, "campaign left draft during activation, no status change applied")
		return result, nil
	}
	result.Status = model.CampaignStatusActive
	result.ReadyEntryIDs = s.dispatchReady(campaignID)
	return result, nil
}

func (s *ActivationService) validate(campaign *model.Campaign) ([]string, error) {
	errs := []string{}

	channels, err := s.ChannelRepo.ListActiveForOwner(campaign.OwnerID)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		errs = append(errs, "no active communication channel is connected")
	}

	leadCount, err := s.LeadRepo.CountByCampaign(campaign.ID)
	if err != nil {
		return nil, err
	}
	if leadCount == 0 {
		errs = append(errs, "no leads uploaded to this campaign")
	}

	if campaign.Offer == "" {
		errs = append(errs, "campaign offer must not be empty")
	}
	if campaign.CalendarURL == "" {
		errs = append(errs, "campaign calendar URL must not be empty")
	}
	return errs, nil
}

// provision ensures training content, a sequence definition and outreach
// status defaults exist, returning the campaign's ordered steps.
func (s *ActivationService) provision(campaign *model.Campaign) ([]model.SequenceStep, []string) {
	errs := []string{}

	training, err := s.TrainingRepo.GetPrompt(campaign.ID)
	if err != nil {
		errs = append(errs, fmt.Sprintf("could not load training content: %v", err))
		return nil, errs
	}
	if training == "" {
		training = DefaultPrompt("", campaign.Goal, campaign.Offer)
		if err := s.TrainingRepo.SetPrompt(campaign.ID, training); err != nil {
			errs = append(errs, fmt.Sprintf("could not create default training content: %v", err))
			return nil, errs
		}
	}

	steps, err := s.SequenceRepo.ListByCampaign(campaign.ID)
	if err != nil {
		errs = append(errs, fmt.Sprintf("could not load sequence steps: %v", err))
		return nil, errs
	}
	if len(steps) == 0 {
		step := &model.SequenceStep{
			CampaignID:  campaign.ID,
			StepNumber:  1,
			Channel:     "call",
			WaitSeconds: 0,
			Prompt:      DefaultPrompt(training, campaign.Goal, campaign.Offer),
		}
		if err := s.SequenceRepo.Create(step); err != nil {
			errs = append(errs, fmt.Sprintf("could not create default sequence step: %v", err))
			return nil, errs
		}
		steps = []model.SequenceStep{*step}
	}

	if err := s.LeadRepo.EnsureOutreachStatus(campaign.ID, OutreachStatusNotCalled); err != nil {
		errs = append(errs, fmt.Sprintf("could not prepare leads for outreach: %v", err))
		return nil, errs
	}

	return steps, errs
}

// dispatchReady hands the step-1 entries to the dispatch queue and returns
// their IDs. Failures here do not undo the activation; the delivery worker
// can also pick ready entries up on its own.
func (s *ActivationService) dispatchReady(campaignID int) []int {
	ids, err := s.ScheduleRepo.ListReadyIDs(campaignID)
	if err != nil {
		log.Println("⚠️ failed to list ready entries for dispatch:", err)
		return nil
	}
	if s.Queue == nil {
		return ids
	}
	for _, id := range ids {
		if err := s.Queue.Publish(queue.TopicScheduleDispatch, id); err != nil {
			log.Println("⚠️ failed to enqueue schedule entry", id, ":", err)
		}
	}
	return ids
}
