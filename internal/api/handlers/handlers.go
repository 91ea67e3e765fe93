// Package handlers implements the HTTP API surface.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finbot/internal/api/middleware"
	"github.com/dvloznov/finbot/internal/ingest"
	"github.com/dvloznov/finbot/internal/jobs"
	"github.com/dvloznov/finbot/internal/message"
	"github.com/dvloznov/finbot/internal/storage"
)

const defaultListLimit = 10

// Corrector pins a label to a user-chosen category.
type Corrector interface {
	Correct(ctx context.Context, label, categoryName string) error
}

// MessagesHandler handles message ingestion endpoints.
type MessagesHandler struct {
	svc       *ingest.Service
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewMessagesHandler creates a new messages handler. publisher may be
// nil when asynchronous ingestion is disabled.
func NewMessagesHandler(svc *ingest.Service, publisher jobs.Publisher, log zerolog.Logger) *MessagesHandler {
	return &MessagesHandler{
		svc:       svc,
		publisher: publisher,
		log:       log,
	}
}

// Ingest handles POST /api/v1/messages
func (h *MessagesHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Text   string `json:"text"`
		Async  bool   `json:"async"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || strings.TrimSpace(req.Text) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id and text are required")
		return
	}

	ctx := r.Context()

	if req.Async {
		if h.publisher == nil {
			middleware.WriteError(w, http.StatusServiceUnavailable, "Asynchronous ingestion is disabled")
			return
		}
		job := &jobs.IngestMessageJob{UserID: req.UserID, Text: req.Text}
		if err := h.publisher.PublishIngestMessage(ctx, job); err != nil {
			h.log.Error().Err(err).Msg("Failed to enqueue ingestion job")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue ingestion job")
			return
		}

		h.log.Info().Str("job_id", job.JobID).Str("user_id", req.UserID).Msg("Ingestion job enqueued")
		middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
			"job_id": job.JobID,
			"status": string(job.Status),
		})
		return
	}

	tx, err := h.svc.IngestText(ctx, req.UserID, req.Text)
	if errors.Is(err, message.ErrNotTransaction) {
		middleware.WriteError(w, http.StatusUnprocessableEntity, "Message is not a transaction")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to ingest message")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to ingest message")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, tx)
}

// TransactionsHandler handles transaction listing and undo endpoints.
type TransactionsHandler struct {
	store storage.Store
	log   zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(store storage.Store, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		store: store,
		log:   log,
	}
}

// List handles GET /api/v1/transactions
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	limit := defaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	txs, err := h.store.ListRecent(ctx, userID, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if txs == nil {
		txs = []storage.Transaction{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}

// DeleteLast handles DELETE /api/v1/transactions/last
func (h *TransactionsHandler) DeleteLast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	tx, err := h.store.DeleteLast(ctx, userID)
	if errors.Is(err, storage.ErrNoTransactions) {
		middleware.WriteError(w, http.StatusNotFound, "No transactions to delete")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to delete transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": tx,
	})
}

// Summary handles GET /api/v1/summary
func (h *TransactionsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "month"
	}
	since, ok := periodStart(period, time.Now())
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, "period must be one of: today, week, month")
		return
	}

	txs, err := h.store.ListSince(ctx, userID, since)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build summary")
		return
	}

	summary := storage.BuildSummary(txs)
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"period":  period,
		"since":   since.Format("2006-01-02"),
		"summary": summary,
	})
}

// periodStart maps a period name to its inclusive start date.
func periodStart(period string, now time.Time) (time.Time, bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case "today":
		return midnight, true
	case "week":
		return midnight.AddDate(0, 0, -6), true
	case "month":
		return midnight.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}

// CategoriesHandler handles taxonomy and correction endpoints.
type CategoriesHandler struct {
	store     storage.Store
	corrector Corrector
	log       zerolog.Logger
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(store storage.Store, corrector Corrector, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{
		store:     store,
		corrector: corrector,
		log:       log,
	}
}

// List handles GET /api/v1/categories
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind := r.URL.Query().Get("kind")
	if kind != "" && kind != "expense" && kind != "income" {
		middleware.WriteError(w, http.StatusBadRequest, "kind must be expense or income")
		return
	}

	categories, err := h.store.AllowedCategories(ctx, r.URL.Query().Get("user_id"))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list categories")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	if kind != "" {
		wantExpense := kind == "expense"
		filtered := make([]storage.Category, 0, len(categories))
		for _, c := range categories {
			if c.IsExpense == wantExpense {
				filtered = append(filtered, c)
			}
		}
		categories = filtered
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// Correct handles POST /api/v1/corrections
func (h *CategoriesHandler) Correct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"user_id"`
		Label    string `json:"label"`
		Category string `json:"category"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Label) == "" || strings.TrimSpace(req.Category) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "label and category are required")
		return
	}

	ctx := r.Context()

	if !h.categoryExists(ctx, req.UserID, req.Category) {
		middleware.WriteError(w, http.StatusUnprocessableEntity, "Unknown category")
		return
	}

	if err := h.corrector.Correct(ctx, req.Label, req.Category); err != nil {
		h.log.Error().Err(err).Msg("Failed to save correction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save correction")
		return
	}

	h.log.Info().
		Str("user_id", req.UserID).
		Str("label", req.Label).
		Str("category", req.Category).
		Msg("Category correction saved")

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"label":    req.Label,
		"category": req.Category,
		"status":   "corrected",
	})
}

func (h *CategoriesHandler) categoryExists(ctx context.Context, userID, name string) bool {
	cats, err := h.store.AllowedCategories(ctx, userID)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to load categories for validation")
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, c := range cats {
		if strings.ToLower(c.Name) == needle {
			return true
		}
	}
	return false
}

// JobsHandler handles job status endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store: store,
		log:   log,
	}
}

// Get handles GET /api/v1/jobs/{id}
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.PathValue("id")

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// List handles GET /api/v1/jobs
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	filter := jobs.JobFilter{
		UserID: query.Get("user_id"),
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}

// Health handles GET /health
func Health(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
