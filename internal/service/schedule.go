// internal/service/schedule.go
package service

import (
	"time"

	"github.com/unclebandit/leadflow-backend/internal/model"
)

// ExpandSchedule builds the full lead×step matrix of schedule entries for a
// campaign. Steps must already be sorted ascending by step_number.
//
// The first step in order is due immediately (status ready); every later
// step is due at activatedAt plus the cumulative wait of the steps before
// it, its own wait included (status queued). Using cumulative sums from the
// activation instant, rather than chaining off the previous entry, keeps
// every timestamp independently recomputable.
//
// ScheduledAt marks when the entry was enrolled, not when the lead was
// contacted; LastContactedAt stays nil until the delivery worker acts.
func ExpandSchedule(campaignID int, steps []model.SequenceStep, leadIDs []int, activatedAt time.Time) []model.LeadScheduleEntry {
	if len(steps) == 0 || len(leadIDs) == 0 {
		return nil
	}

	// Per-step offset from activation time, shared by every lead.
	offsets := make([]time.Duration, len(steps))
	var cumulative time.Duration
	for i, s := range steps {
		if i == 0 {
			// wait_seconds of the first step is ignored
			offsets[i] = 0
			continue
		}
		cumulative += time.Duration(s.WaitSeconds) * time.Second
		offsets[i] = cumulative
	}

	entries := make([]model.LeadScheduleEntry, 0, len(leadIDs)*len(steps))
	for _, leadID := range leadIDs {
		for i, s := range steps {
			status := model.EntryStatusQueued
			if i == 0 {
				status = model.EntryStatusReady
			}
			entries = append(entries, model.LeadScheduleEntry{
				CampaignID:  campaignID,
				LeadID:      leadID,
				StepNumber:  s.StepNumber,
				Status:      status,
				NextAt:      activatedAt.Add(offsets[i]),
				ScheduledAt: activatedAt,
			})
		}
	}
	return entries
}
