// cmd/worker/main.go
package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"math/rand"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/streadway/amqp"

	"github.com/unclebandit/leadflow-backend/internal/model"
	"github.com/unclebandit/leadflow-backend/internal/repository"
)

type QueueJob struct {
	ScheduleEntryID int `json:"schedule_entry_id"`
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}

	scheduleRepo := &repository.ScheduleRepository{DB: db}

	// Connect to RabbitMQ
	conn, err := amqp.Dial(os.Getenv("AMQP_URL"))
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("Failed to open a channel:", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"schedule_dispatch", // name
		true,                // durable
		false,               // delete when unused
		false,               // exclusive
		false,               // no-wait
		nil,                 // arguments
	)
	if err != nil {
		log.Fatal("Failed to declare queue:", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal("Failed to register consumer:", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var job QueueJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Println("Invalid job:", err)
				d.Ack(false)
				continue
			}

			if err := processEntry(job.ScheduleEntryID, scheduleRepo); err != nil {
				log.Println("Failed to process schedule entry:", err)
				var retryCount int
				if d.Headers["x-retry-count"] != nil {
					retryCount = d.Headers["x-retry-count"].(int)
				}
				if retryCount < 3 {
					d.Nack(false, true) // requeue
					continue
				}
			}

			d.Ack(false)
		}
	}()

	log.Println("Worker running, waiting for due schedule entries...")
	<-forever
}

func processEntry(entryID int, repo *repository.ScheduleRepository) error {
	entry, err := repo.GetByID(entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		log.Println("Schedule entry not found:", entryID)
		return nil
	}
	if entry.Status != model.EntryStatusReady {
		// another consumer already advanced it
		return nil
	}

	if mockSend(entry) {
		now := time.Now()
		entry.Status = model.EntryStatusDone
		entry.LastContactedAt = &now
		entry.LastError = ""
	} else {
		entry.Status = model.EntryStatusFailed
		entry.LastError = "mock send failed"
	}

	return repo.Update(entry)
}

// Mock sender: 90% chance of success
func mockSend(entry *model.LeadScheduleEntry) bool {
	return rand.Intn(100) < 90
}
