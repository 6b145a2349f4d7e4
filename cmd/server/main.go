// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/unclebandit/leadflow-backend/internal/controller"
	"github.com/unclebandit/leadflow-backend/internal/db"
	"github.com/unclebandit/leadflow-backend/internal/handler"
	"github.com/unclebandit/leadflow-backend/internal/queue"
	"github.com/unclebandit/leadflow-backend/internal/repository"
	"github.com/unclebandit/leadflow-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()
	q := queue.NewInMemoryQueue()

	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	leadRepo := &repository.LeadRepository{DB: db.DB}
	sequenceRepo := &repository.SequenceRepository{DB: db.DB}
	scheduleRepo := &repository.ScheduleRepository{DB: db.DB}
	channelRepo := &repository.ChannelRepository{DB: db.DB}
	trainingRepo := &repository.TrainingRepository{DB: db.DB}

	queue.StartScheduleDispatchSubscriber(q, scheduleRepo)

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		LeadRepo:     leadRepo,
		ScheduleRepo: scheduleRepo,
	}

	activationService := &service.ActivationService{
		CampaignRepo: campaignRepo,
		LeadRepo:     leadRepo,
		SequenceRepo: sequenceRepo,
		ScheduleRepo: scheduleRepo,
		ChannelRepo:  channelRepo,
		TrainingRepo: trainingRepo,
		Enroller:     &service.BatchEnroller{ScheduleRepo: scheduleRepo},
		Queue:        q,
	}

	leadService := &service.LeadService{
		LeadRepo: leadRepo,
	}

	campaignController := &controller.CampaignController{
		CampaignService:   campaignService,
		ActivationService: activationService,
	}

	leadHandler := &handler.LeadHandler{
		LeadService: leadService,
	}

	r := chi.NewRouter()

	// Campaign routes
	r.Post("/campaigns", campaignController.CreateCampaign)
	r.Get("/campaigns", campaignController.ListCampaigns)
	r.Get("/campaigns/{id}", campaignController.GetCampaignDetails)
	r.Post("/campaigns/{id}/activate", campaignController.ActivateCampaign)

	// Lead routes
	r.Post("/campaigns/{id}/leads", leadHandler.UploadLeadsHandler)
	r.Post("/campaigns/{id}/leads/duplicate-report", leadHandler.DuplicateReportHandler)

	log.Println("🚀 Server running on :8080")
	log.Fatal(http.ListenAndServe(":8080", r))
}
