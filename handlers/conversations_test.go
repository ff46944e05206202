package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookline/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConversationRepo struct {
	records []models.ConversationRecord
}

func (s *stubConversationRepo) Create(_ context.Context, record models.ConversationRecord) (string, error) {
	s.records = append(s.records, record)
	return record.ID, nil
}

func (s *stubConversationRepo) GetBySessionID(_ context.Context, sessionID string) (*models.ConversationRecord, error) {
	for _, rec := range s.records {
		if rec.SessionID == sessionID {
			copy := rec
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *stubConversationRepo) GetByContactNumber(_ context.Context, contactNumber string, limit int64) ([]models.ConversationRecord, error) {
	var out []models.ConversationRecord
	for _, rec := range s.records {
		if rec.ContactNumber == contactNumber && int64(len(out)) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

func newConversationRouter(repo *stubConversationRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewConversationHandler(repo)
	r := gin.New()
	r.GET("/api/calls/:sessionID/record", h.GetCallRecordHandler)
	r.GET("/api/admin/conversations/:contactNumber", h.CallHistoryHandler)
	return r
}

func TestGetCallRecord(t *testing.T) {
	repo := &stubConversationRepo{records: []models.ConversationRecord{
		{ID: "rec-1", SessionID: "call-1", ContactNumber: "5551234", Summary: "Caller booked an appointment."},
	}}
	router := newConversationRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/calls/call-1/record", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var record models.ConversationRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "call-1", record.SessionID)
	assert.Equal(t, "Caller booked an appointment.", record.Summary)
}

func TestGetCallRecordNotFound(t *testing.T) {
	router := newConversationRouter(&stubConversationRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/calls/unknown/record", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCallHistory(t *testing.T) {
	repo := &stubConversationRepo{records: []models.ConversationRecord{
		{ID: "rec-1", SessionID: "call-1", ContactNumber: "5551234"},
		{ID: "rec-2", SessionID: "call-2", ContactNumber: "5551234"},
		{ID: "rec-3", SessionID: "call-3", ContactNumber: "5559999"},
	}}
	router := newConversationRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/conversations/555-1234", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Count   int                         `json:"count"`
		Records []models.ConversationRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
}

func TestCallHistoryInvalidLimit(t *testing.T) {
	router := newConversationRouter(&stubConversationRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/conversations/5551234?limit=zero", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
