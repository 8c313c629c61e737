package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/tweetlead/backend/internal/models"
	"github.com/tweetlead/backend/internal/store"
)

// Ingestor runs the tweet monitoring pipeline for an offer.
type Ingestor interface {
	Run(ctx context.Context, offer string) ([]models.Tweet, error)
}

// ContentGenerator runs the draft generation pipeline.
type ContentGenerator interface {
	Run(ctx context.Context, topic, niche string, count int) ([]models.GeneratedContent, error)
}

type Handler struct {
	store   *store.Store
	ingest  Ingestor
	content ContentGenerator
}

func New(st *store.Store, ingest Ingestor, content ContentGenerator) *Handler {
	return &Handler{store: st, ingest: ingest, content: content}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.DashboardStats(r.Context())
	if err != nil {
		log.Printf("[Dashboard] stats query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type monitorTweetsRequest struct {
	Offer string `json:"offer"`
}

func (h *Handler) MonitorTweets(w http.ResponseWriter, r *http.Request) {
	var req monitorTweetsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Offer == "" {
		writeError(w, http.StatusBadRequest, "offer is required")
		return
	}

	tweets, err := h.ingest.Run(r.Context(), req.Offer)
	if err != nil {
		log.Printf("[Monitor] ingestion failed for offer %q: %v", req.Offer, err)
		writeError(w, http.StatusInternalServerError, "Failed to monitor tweets")
		return
	}
	if tweets == nil {
		tweets = []models.Tweet{}
	}
	writeJSON(w, http.StatusOK, tweets)
}

func (h *Handler) ListTweets(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.store.ListTweets(r.Context())
	if err != nil {
		log.Printf("[Tweets] list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list tweets")
		return
	}
	if tweets == nil {
		tweets = []models.Tweet{}
	}
	writeJSON(w, http.StatusOK, tweets)
}

type generateContentRequest struct {
	Topic string `json:"topic"`
	Niche string `json:"niche"`
	Count *int   `json:"count,omitempty"`
}

func (h *Handler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	var req generateContentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	if req.Niche == "" {
		writeError(w, http.StatusBadRequest, "niche is required")
		return
	}
	count := 0
	if req.Count != nil {
		if *req.Count <= 0 {
			writeError(w, http.StatusBadRequest, "count must be positive")
			return
		}
		count = *req.Count
	}

	rows, err := h.content.Run(r.Context(), req.Topic, req.Niche, count)
	if err != nil {
		log.Printf("[Content] generation failed for topic %q: %v", req.Topic, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate content")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListContent(r.Context())
	if err != nil {
		log.Printf("[Content] list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list content")
		return
	}
	if rows == nil {
		rows = []models.GeneratedContent{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.store.ListLeads(r.Context())
	if err != nil {
		log.Printf("[Leads] list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list leads")
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var in models.InsertLead
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := validateInsertLead(&in); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	lead, err := h.store.CreateLead(r.Context(), in)
	if err != nil {
		log.Printf("[Leads] create failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create lead")
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(pathVar(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	var upd models.UpdateLead
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := validateUpdateLead(&upd); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	lead, err := h.store.UpdateLead(r.Context(), id, upd)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Lead not found")
		return
	}
	if err != nil {
		log.Printf("[Leads] update %d failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to update lead")
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// validateInsertLead reports the first violated field, mirroring the
// schema-validation message shape the API clients expect.
func validateInsertLead(in *models.InsertLead) (string, bool) {
	if in.Username == "" {
		return "username is required", false
	}
	if in.Status != "" && !models.ValidLeadStatus(in.Status) {
		return "status must be one of new, contacted, replied, converted", false
	}
	if in.RepliesCount < 0 {
		return "repliesCount must be >= 0", false
	}
	if in.Conversions < 0 {
		return "conversions must be >= 0", false
	}
	return "", true
}

func validateUpdateLead(upd *models.UpdateLead) (string, bool) {
	if upd.Username != nil && *upd.Username == "" {
		return "username is required", false
	}
	if upd.Status != nil && !models.ValidLeadStatus(*upd.Status) {
		return "status must be one of new, contacted, replied, converted", false
	}
	if upd.RepliesCount != nil && *upd.RepliesCount < 0 {
		return "repliesCount must be >= 0", false
	}
	if upd.Conversions != nil && *upd.Conversions < 0 {
		return "conversions must be >= 0", false
	}
	return "", true
}
