// internal/service/worker.go
package service

import (
	"log"
	"time"

	"github.com/unclebandit/leadflow-backend/internal/model"
)

// ScheduleEntryStore defines the methods the worker needs
type ScheduleEntryStore interface {
	GetByID(id int) (*model.LeadScheduleEntry, error)
	Update(entry *model.LeadScheduleEntry) error
}

// Worker processes due schedule entries handed over on JobChan. It is the
// only component that mutates an entry after enrollment.
type Worker struct {
	ScheduleRepo ScheduleEntryStore
	JobChan      <-chan int
	SendFunc     func(entry *model.LeadScheduleEntry) bool
}

// Constructor
func NewWorker(repo ScheduleEntryStore, jobChan <-chan int, sendFunc func(entry *model.LeadScheduleEntry) bool) *Worker {
	return &Worker{
		ScheduleRepo: repo,
		JobChan:      jobChan,
		SendFunc:     sendFunc,
	}
}

// Start begins processing jobs
func (w *Worker) Start() {
	for jobID := range w.JobChan {
		entry, err := w.ScheduleRepo.GetByID(jobID)
		if err != nil {
			log.Println("Failed to get schedule entry:", err)
			continue
		}
		if entry == nil {
			log.Println("Schedule entry not found:", jobID)
			continue
		}

		if w.SendFunc(entry) {
			now := time.Now()
			entry.Status = model.EntryStatusDone
			entry.LastContactedAt = &now
			entry.LastError = ""
		} else {
			entry.Status = model.EntryStatusFailed
			entry.LastError = "send failed"
		}

		if err := w.ScheduleRepo.Update(entry); err != nil {
			log.Println("Failed to update schedule entry:", err)
		}
	}
}
