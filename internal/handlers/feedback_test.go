package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"feedback-backend/internal/models"
	"feedback-backend/internal/notify"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedbackRouter(store FeedbackStore) chi.Router {
	h := NewFeedbackHandler(store, notify.NewLogNotifier())
	r := chi.NewRouter()
	r.Route("/api/feedback", func(r chi.Router) {
		r.Post("/", h.SubmitFeedback)
		r.Get("/feedback-counts", h.GetFeedbackCounts)
		r.Get("/emoji-counts-for-graphs", h.GetEmojiCountsForGraphs)
		r.Get("/{service}/emoji-counts", h.GetEmojiCounts)
		r.Get("/{service}/feedback-by-emoji/{emoji}", h.GetFeedbackByEmoji)
		r.Get("/{service}/export-csv", h.ExportCSV)
		r.Get("/{service}/export-excel", h.ExportExcel)
		for _, service := range models.KnownServices {
			r.Get("/"+service+"/feedback-details/{emoji}", h.FeedbackDetails(service))
		}
	})
	return r
}

func submit(t *testing.T, router chi.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, router chi.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitFeedback_RetainsTextForNegativeSentiment(t *testing.T) {
	store := &fakeFeedbackStore{}
	router := newFeedbackRouter(store)

	rec := submit(t, router, `{"service_type":"loan","emoji_feedback":"bad","text_feedback":"slow","email":"a@x.com","phone":"123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.records, 1)
	assert.Equal(t, "slow", store.records[0].Feedback)
	assert.Equal(t, "loan", store.records[0].Service)
	assert.False(t, store.records[0].Timestamp.IsZero())
}

func TestSubmitFeedback_RetainsTextForUnsatisfactory(t *testing.T) {
	store := &fakeFeedbackStore{}
	router := newFeedbackRouter(store)

	rec := submit(t, router, `{"service_type":"pension","emoji_feedback":"unsatisfactory","text_feedback":"queue too long","email":"a@x.com","phone":"123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.records, 1)
	assert.Equal(t, "queue too long", store.records[0].Feedback)
}

func TestSubmitFeedback_DropsTextForPositiveSentiment(t *testing.T) {
	store := &fakeFeedbackStore{}
	router := newFeedbackRouter(store)

	rec := submit(t, router, `{"service_type":"loan","emoji_feedback":"happy","text_feedback":"great","email":"a@x.com","phone":"123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.records, 1)
	assert.Empty(t, store.records[0].Feedback)
}

func TestSubmitFeedback_MissingRequiredField(t *testing.T) {
	store := &fakeFeedbackStore{}
	router := newFeedbackRouter(store)

	rec := submit(t, router, `{"service_type":"loan","emoji_feedback":"bad","email":"a@x.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.records)
}

func TestSubmitFeedback_UnknownServiceAccepted(t *testing.T) {
	// Service values outside the known set are stored, not rejected.
	store := &fakeFeedbackStore{}
	router := newFeedbackRouter(store)

	rec := submit(t, router, `{"service_type":"insurance","emoji_feedback":"happy","email":"a@x.com","phone":"123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.records, 1)
	assert.Equal(t, "insurance", store.records[0].Service)
}

func TestSubmitFeedback_StoreError(t *testing.T) {
	store := &fakeFeedbackStore{failAll: true}
	router := newFeedbackRouter(store)

	rec := submit(t, router, `{"service_type":"loan","emoji_feedback":"bad","text_feedback":"x","email":"a@x.com","phone":"123"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "message")
}

func TestFeedbackCounts_BaselineWithUnknownServicesDropped(t *testing.T) {
	store := &fakeFeedbackStore{records: []models.Feedback{
		{Service: "loan", Emoji: "happy"},
		{Service: "loan", Emoji: "bad"},
		{Service: "pension", Emoji: "satisfactory"},
		{Service: "insurance", Emoji: "happy"}, // not a known service
	}}
	router := newFeedbackRouter(store)

	rec := get(t, router, "/api/feedback/feedback-counts")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))

	assert.Equal(t, map[string]int64{
		"loan":       2,
		"pension":    1,
		"pensioners": 0,
		"investment": 0,
	}, counts)
}

func TestEmojiCounts_AlwaysExactlyKnownKeys(t *testing.T) {
	store := &fakeFeedbackStore{records: []models.Feedback{
		{Service: "loan", Emoji: "happy"},
		{Service: "loan", Emoji: "happy"},
		{Service: "loan", Emoji: "bad"},
		{Service: "loan", Emoji: "meh"}, // unknown sentiment, dropped from output
		{Service: "pension", Emoji: "bad"},
	}}
	router := newFeedbackRouter(store)

	rec := get(t, router, "/api/feedback/loan/emoji-counts")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))

	assert.Equal(t, map[string]int64{
		"happy":          2,
		"satisfactory":   0,
		"unsatisfactory": 0,
		"bad":            1,
	}, counts)
}

func TestEmojiCounts_RoundTrip(t *testing.T) {
	store := &fakeFeedbackStore{}
	router := newFeedbackRouter(store)

	before := get(t, router, "/api/feedback/investment/emoji-counts")
	var beforeCounts map[string]int64
	require.NoError(t, json.Unmarshal(before.Body.Bytes(), &beforeCounts))

	for i := 0; i < 3; i++ {
		rec := submit(t, router, `{"service_type":"investment","emoji_feedback":"satisfactory","email":"a@x.com","phone":"123"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	after := get(t, router, "/api/feedback/investment/emoji-counts")
	var afterCounts map[string]int64
	require.NoError(t, json.Unmarshal(after.Body.Bytes(), &afterCounts))

	assert.Equal(t, beforeCounts["satisfactory"]+3, afterCounts["satisfactory"])
}

func TestEmojiCountsForGraphs_NestedBaselines(t *testing.T) {
	store := &fakeFeedbackStore{records: []models.Feedback{
		{Service: "loan", Emoji: "happy"},
		{Service: "pension", Emoji: "bad"},
		{Service: "pension", Emoji: "bad"},
	}}
	router := newFeedbackRouter(store)

	rec := get(t, router, "/api/feedback/emoji-counts-for-graphs")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts map[string]map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))

	require.Len(t, counts, 4)
	for _, service := range models.KnownServices {
		require.Contains(t, counts, service)
		assert.Len(t, counts[service], 4)
	}
	assert.Equal(t, int64(1), counts["loan"]["happy"])
	assert.Equal(t, int64(2), counts["pension"]["bad"])
	assert.Equal(t, int64(0), counts["investment"]["bad"])
}

func TestFeedbackDetails_NewestFirst(t *testing.T) {
	now := time.Now()
	store := &fakeFeedbackStore{records: []models.Feedback{
		{Service: "loan", Emoji: "bad", Feedback: "older", Timestamp: now.Add(-time.Hour)},
		{Service: "loan", Emoji: "bad", Feedback: "newer", Timestamp: now},
		{Service: "loan", Emoji: "happy", Timestamp: now},
	}}
	router := newFeedbackRouter(store)

	rec := get(t, router, "/api/feedback/loan/feedback-details/bad")
	require.Equal(t, http.StatusOK, rec.Code)

	var feedbacks []models.Feedback
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feedbacks))

	require.Len(t, feedbacks, 2)
	assert.Equal(t, "newer", feedbacks[0].Feedback)
	assert.Equal(t, "older", feedbacks[1].Feedback)
}

func TestFeedbackDetails_NotFoundWhenEmpty(t *testing.T) {
	store := &fakeFeedbackStore{}
	router := newFeedbackRouter(store)

	rec := get(t, router, "/api/feedback/pensioners/feedback-details/bad")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeedbackByEmoji_EmptyResultIsOK(t *testing.T) {
	// The generic lookup has no not-found outcome: empty array, 200.
	store := &fakeFeedbackStore{}
	router := newFeedbackRouter(store)

	rec := get(t, router, "/api/feedback/loan/feedback-by-emoji/bad")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestExportCSV_NotFoundWhenNoRecords(t *testing.T) {
	store := &fakeFeedbackStore{}
	router := newFeedbackRouter(store)

	rec := get(t, router, "/api/feedback/loan/export-csv")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportCSV_WritesAttachment(t *testing.T) {
	store := &fakeFeedbackStore{records: []models.Feedback{
		{Service: "loan", Emoji: "bad", Feedback: "slow, very slow", Email: "a@x.com", Phone: "123", Timestamp: time.Now()},
	}}
	router := newFeedbackRouter(store)

	rec := get(t, router, "/api/feedback/loan/export-csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=loan_feedback.csv", rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "service,emoji,feedback,email,phone,timestamp", lines[0])
	assert.Contains(t, lines[1], `"slow, very slow"`)
}

func TestExportExcel_NotFoundWhenNoRecords(t *testing.T) {
	store := &fakeFeedbackStore{}
	router := newFeedbackRouter(store)

	rec := get(t, router, "/api/feedback/investment/export-excel")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportExcel_WritesAttachment(t *testing.T) {
	store := &fakeFeedbackStore{records: []models.Feedback{
		{Service: "pension", Emoji: "happy", Email: "a@x.com", Phone: "123", Timestamp: time.Now()},
	}}
	router := newFeedbackRouter(store)

	rec := get(t, router, "/api/feedback/pension/export-excel")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=pension_feedback.xlsx", rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestScenario_SubmitThenCountThenDetails(t *testing.T) {
	store := &fakeFeedbackStore{}
	router := newFeedbackRouter(store)

	rec := submit(t, router, `{"service_type":"loan","emoji_feedback":"bad","text_feedback":"slow","email":"a@x.com","phone":"123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	counts := get(t, router, "/api/feedback/feedback-counts")
	var byService map[string]int64
	require.NoError(t, json.Unmarshal(counts.Body.Bytes(), &byService))
	assert.Equal(t, int64(1), byService["loan"])

	details := get(t, router, "/api/feedback/loan/feedback-details/bad")
	require.Equal(t, http.StatusOK, details.Code)

	var feedbacks []models.Feedback
	require.NoError(t, json.Unmarshal(details.Body.Bytes(), &feedbacks))
	require.Len(t, feedbacks, 1)
	assert.Equal(t, "slow", feedbacks[0].Feedback)
}
