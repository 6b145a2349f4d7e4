package main

import (
	"sync"
	"testing"
	"time"

	"github.com/unclebandit/leadflow-backend/internal/model"
	"github.com/unclebandit/leadflow-backend/internal/service"
)

// MockScheduleRepo stores schedule entries in memory
type MockScheduleRepo struct {
	entries map[int]*model.LeadScheduleEntry
	mu      sync.Mutex
}

func (m *MockScheduleRepo) GetByID(id int) (*model.LeadScheduleEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[id], nil
}

func (m *MockScheduleRepo) Update(entry *model.LeadScheduleEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func TestWorker(t *testing.T) {
	repo := &MockScheduleRepo{
		entries: map[int]*model.LeadScheduleEntry{
			1: {ID: 1, Status: model.EntryStatusReady, CampaignID: 1, LeadID: 1, StepNumber: 1, NextAt: time.Now()},
		},
	}

	jobChan := make(chan int, 1)
	jobChan <- 1 // enqueue job

	var wg sync.WaitGroup
	wg.Add(1)

	worker := service.NewWorker(repo, jobChan, func(entry *model.LeadScheduleEntry) bool {
		wg.Done() // signal that job is processed
		return true
	})

	// Start worker
	go worker.Start()

	// Wait until worker processes the job
	wg.Wait()
	close(jobChan)

	// Poll for the update; Start processes after SendFunc returns
	deadline := time.Now().Add(time.Second)
	for {
		entry, _ := repo.GetByID(1)
		if entry.Status == model.EntryStatusDone {
			if entry.LastContactedAt == nil {
				t.Errorf("expected last_contacted_at to be set")
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected done, got %s", entry.Status)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
