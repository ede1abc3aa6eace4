package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"feedback-backend/internal/export"
	"feedback-backend/internal/models"
	"feedback-backend/internal/notify"

	"github.com/go-chi/chi/v5"
)

type FeedbackHandler struct {
	feedbackStore FeedbackStore
	notifier      notify.Notifier
}

func NewFeedbackHandler(feedbackStore FeedbackStore, notifier notify.Notifier) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackStore: feedbackStore,
		notifier:      notifier,
	}
}

type SubmitFeedbackRequest struct {
	ServiceType   string `json:"service_type"`
	EmojiFeedback string `json:"emoji_feedback"`
	TextFeedback  string `json:"text_feedback"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

// --- POST /api/feedback ---

func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ServiceType == "" || req.EmojiFeedback == "" || req.Email == "" || req.Phone == "" {
		writeMessage(w, http.StatusBadRequest, "service_type, emoji_feedback, email and phone are required")
		return
	}

	feedback := &models.Feedback{
		Service: req.ServiceType,
		Emoji:   req.EmojiFeedback,
		Email:   req.Email,
		Phone:   req.Phone,
	}
	// Free text is retained only for negative sentiment; otherwise it is
	// dropped before the record is written, not stored as empty.
	if models.IsNegative(req.EmojiFeedback) {
		feedback.Feedback = req.TextFeedback
	}

	if err := h.feedbackStore.Create(r.Context(), feedback); err != nil {
		log.Printf("Error submitting feedback: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Error submitting feedback")
		return
	}

	// Alert the operator about negative feedback in a background goroutine
	// (non-blocking, best-effort).
	if models.IsNegative(feedback.Emoji) && h.notifier != nil {
		alert := formatNegativeFeedbackAlert(feedback)
		go func() {
			if err := h.notifier.Publish(context.Background(), "New negative feedback", alert); err != nil {
				log.Printf("Error publishing feedback alert: %v", err)
			}
		}()
	}

	writeMessage(w, http.StatusOK, "Feedback submitted successfully")
}

func formatNegativeFeedbackAlert(fb *models.Feedback) string {
	return fmt.Sprintf("Service: %s\nSentiment: %s\nFeedback: %s\nContact: %s / %s",
		fb.Service, fb.Emoji, fb.Feedback, fb.Email, fb.Phone)
}

// --- GET /api/feedback/feedback-counts ---

func (h *FeedbackHandler) GetFeedbackCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.feedbackStore.CountByService(r.Context())
	if err != nil {
		log.Printf("Error fetching feedback counts: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Error fetching feedback counts")
		return
	}
	writeJSON(w, http.StatusOK, projectOntoBaseline(counts, models.KnownServices))
}

// --- GET /api/feedback/{service}/emoji-counts ---

func (h *FeedbackHandler) GetEmojiCounts(w http.ResponseWriter, r *http.Request) {
	service := chi.URLParam(r, "service")

	counts, err := h.feedbackStore.CountByEmoji(r.Context(), service)
	if err != nil {
		log.Printf("Error getting emoji counts: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to get emoji counts.")
		return
	}
	writeJSON(w, http.StatusOK, projectOntoBaseline(counts, models.KnownEmojis))
}

// --- GET /api/feedback/emoji-counts-for-graphs ---

func (h *FeedbackHandler) GetEmojiCountsForGraphs(w http.ResponseWriter, r *http.Request) {
	result := make(map[string]map[string]int64, len(models.KnownServices))
	for _, service := range models.KnownServices {
		counts, err := h.feedbackStore.CountByEmoji(r.Context(), service)
		if err != nil {
			log.Printf("Error fetching emoji feedback counts: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Error fetching emoji feedback counts")
			return
		}
		result[service] = projectOntoBaseline(counts, models.KnownEmojis)
	}
	writeJSON(w, http.StatusOK, result)
}

// projectOntoBaseline merges grouped counts into a zero-initialized map over
// the known keys. Values grouped under unknown keys are discarded, so the
// response always carries exactly the known key set.
func projectOntoBaseline(counts map[string]int64, knownKeys []string) map[string]int64 {
	result := make(map[string]int64, len(knownKeys))
	for _, key := range knownKeys {
		result[key] = 0
	}
	for key, count := range counts {
		if _, ok := result[key]; ok {
			result[key] = count
		}
	}
	return result
}

// --- GET /api/feedback/<service>/feedback-details/{emoji} ---

// FeedbackDetails returns the handler for one known service's detail view.
// Results are ordered newest first.
func (h *FeedbackHandler) FeedbackDetails(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		emoji := chi.URLParam(r, "emoji")

		feedbacks, err := h.feedbackStore.FindBySentimentNewestFirst(r.Context(), service, emoji)
		if err != nil {
			log.Printf("Error fetching feedback details: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Error fetching feedback details")
			return
		}
		if len(feedbacks) == 0 {
			writeMessage(w, http.StatusNotFound, "No feedback found for this emoji")
			return
		}
		writeJSON(w, http.StatusOK, feedbacks)
	}
}

// --- GET /api/feedback/{service}/feedback-by-emoji/{emoji} ---

// GetFeedbackByEmoji is the generic lookup: any service string, store order,
// empty result is a 200 with an empty array.
func (h *FeedbackHandler) GetFeedbackByEmoji(w http.ResponseWriter, r *http.Request) {
	service := chi.URLParam(r, "service")
	emoji := chi.URLParam(r, "emoji")

	feedbacks, err := h.feedbackStore.FindBySentiment(r.Context(), service, emoji)
	if err != nil {
		log.Printf("Error fetching feedback details: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to get feedback details.")
		return
	}
	writeJSON(w, http.StatusOK, feedbacks)
}

// --- GET /api/feedback/{service}/export-csv ---

func (h *FeedbackHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	service := chi.URLParam(r, "service")

	feedbacks, err := h.feedbackStore.FindByService(r.Context(), service)
	if err != nil {
		log.Printf("Error exporting CSV: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Error exporting CSV")
		return
	}
	if len(feedbacks) == 0 {
		writeMessage(w, http.StatusNotFound, "No feedback found for this service")
		return
	}

	data, err := export.CSV(feedbacks)
	if err != nil {
		log.Printf("Error exporting CSV: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Error exporting CSV")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_feedback.csv", service))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// --- GET /api/feedback/{service}/export-excel ---

func (h *FeedbackHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	service := chi.URLParam(r, "service")

	feedbacks, err := h.feedbackStore.FindByService(r.Context(), service)
	if err != nil {
		log.Printf("Error exporting Excel: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Error exporting Excel")
		return
	}
	if len(feedbacks) == 0 {
		writeMessage(w, http.StatusNotFound, "No feedback found for this service")
		return
	}

	data, err := export.Excel(feedbacks)
	if err != nil {
		log.Printf("Error exporting Excel: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Error exporting Excel")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_feedback.xlsx", service))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
