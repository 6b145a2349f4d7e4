// internal/handler/lead_handler.go
package handler

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/leadflow-backend/internal/dedup"
	"github.com/unclebandit/leadflow-backend/internal/model"
	"github.com/unclebandit/leadflow-backend/internal/service"
)

// LeadHandler holds the dependencies for lead-related HTTP handlers
type LeadHandler struct {
	LeadService *service.LeadService
}

type uploadPayload struct {
	Source string       `json:"source"`
	Leads  []model.Lead `json:"leads"`
}

// UploadLeadsHandler accepts a batch of candidate leads, runs deduplication
// against the batch itself and the leads already stored for the campaign,
// and persists only the unique ones. The response reports both partitions.
func (h *LeadHandler) UploadLeadsHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	var payload uploadPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(payload.Leads) == 0 {
		http.Error(w, "no leads in upload", http.StatusBadRequest)
		return
	}

	result, err := h.LeadService.UploadLeads(campaignID, payload.Leads, payload.Source)
	if err != nil {
		http.Error(w, "failed to upload leads: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// DuplicateReportHandler re-runs deduplication in report-only mode and
// streams the duplicate rows as CSV. Nothing is written.
func (h *LeadHandler) DuplicateReportHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	var payload uploadPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.LeadService.PreviewDuplicates(campaignID, payload.Leads)
	if err != nil {
		http.Error(w, "failed to build report: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=duplicate-report.csv")
	writer := csv.NewWriter(w)
	_ = writer.WriteAll(dedup.Report(result.Duplicates))
	writer.Flush()
}
