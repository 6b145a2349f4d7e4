package queue

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/unclebandit/leadflow-backend/internal/model"
)

// TopicScheduleDispatch carries the IDs of schedule entries whose step is
// actionable now.
const TopicScheduleDispatch = "schedule_dispatch"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process queue with retry, used by the server path.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("Job failed (attempt %d/%d): %+v, error: %v\n", job.RetryCount, job.MaxRetries, job.Payload, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("Job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
			return // No requeue
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// ScheduleEntryStore is the slice of the schedule repository the dispatch
// subscriber needs.
type ScheduleEntryStore interface {
	GetByID(id int) (*model.LeadScheduleEntry, error)
	Update(entry *model.LeadScheduleEntry) error
}

// StartScheduleDispatchSubscriber consumes ready entry IDs and advances
// them through a (mock) send. Only this path mutates entries after
// enrollment.
func StartScheduleDispatchSubscriber(q Queue, scheduleRepo ScheduleEntryStore) {
	go func() {
		err := q.Subscribe(TopicScheduleDispatch, func(payload any) error {
			entryID, ok := payload.(int)
			if !ok {
				log.Println("⚠️ Invalid payload type, expected int")
				return nil
			}

			log.Println("📩 Processing schedule entry ID:", entryID)

			entry, err := scheduleRepo.GetByID(entryID)
			if err != nil {
				log.Println("⚠️ Failed to fetch schedule entry:", err)
				return err
			}
			if entry == nil {
				log.Println("⚠️ Schedule entry not found for ID:", entryID)
				return nil // no retry
			}
			if entry.Status != model.EntryStatusReady {
				return nil // already picked up
			}

			// TODO: replace MockSender with the real per-channel dispatcher
			if err := MockSender(entry); err != nil {
				log.Println("⚠️ Failed to send:", err)
				entry.Status = model.EntryStatusFailed
				entry.LastError = err.Error()
				_ = scheduleRepo.Update(entry)
				return err // triggers retry in queue
			}

			now := time.Now()
			entry.Status = model.EntryStatusDone
			entry.LastContactedAt = &now
			entry.LastError = ""
			if err := scheduleRepo.Update(entry); err != nil {
				log.Println("⚠️ Failed to update schedule entry:", err)
				return err // retry
			}

			log.Println("✅ Schedule entry processed:", entryID)
			return nil
		})

		if err != nil {
			log.Println("⚠️ Failed to start subscriber for", TopicScheduleDispatch, ":", err)
		}
	}()
}

// MockSender simulates channel dispatch with 90% success
func MockSender(entry *model.LeadScheduleEntry) error {
	if rand.Float64() < 0.9 {
		return nil // success
	}
	return fmt.Errorf("mock sending failed")
}
