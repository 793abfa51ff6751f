package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stpnv0/EventRegistration/internal/domain"
	"github.com/stpnv0/EventRegistration/internal/handler/dto"
	hmocks "github.com/stpnv0/EventRegistration/internal/handler/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/ginext"
)

func setupRouter(t *testing.T) (*hmocks.MockEventSvc, *hmocks.MockRegistrationSvc, http.Handler) {
	t.Helper()
	eventSvc := hmocks.NewMockEventSvc(t)
	registrationSvc := hmocks.NewMockRegistrationSvc(t)

	h := NewHandler(eventSvc, registrationSvc)

	r := ginext.New("test")
	api := r.Group("/api")
	{
		api.POST("/events", h.CreateEvent)
		api.GET("/events", h.ListEvents)
		api.GET("/events/:id", h.GetEvent)
		api.POST("/events/:id/register", h.Register)
		api.POST("/events/:id/cancel", h.CancelEvent)
		api.GET("/events/:id/stats", h.EventStats)
	}

	return eventSvc, registrationSvc, r
}

func doRequest(r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Message
}

// --- Events ---

func TestHandler_CreateEvent_Success(t *testing.T) {
	eventSvc, _, r := setupRouter(t)

	date := time.Date(2031, 3, 1, 19, 0, 0, 0, time.UTC)
	event := &domain.Event{
		ID:        uuid.New().String(),
		Title:     "Concert",
		Location:  "Main hall",
		Date:      date,
		Capacity:  100,
		Status:    domain.EventStatusScheduled,
		CreatedAt: time.Now(),
	}

	eventSvc.EXPECT().
		CreateEvent(mock.Anything, mock.MatchedBy(func(in domain.CreateEventInput) bool {
			return in.Title == "Concert" && in.Capacity == 100 && in.Date.Equal(date) && in.Location == "Main hall"
		})).
		Return(event, nil)

	body := []byte(`{"title":"Concert","date":"2031-03-01T19:00:00Z","capacity":100,"location":"Main hall"}`)
	w := doRequest(r, http.MethodPost, "/api/events", body)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.EventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Concert", resp.Title)
	assert.Equal(t, "scheduled", resp.Status)
	assert.Equal(t, "2031-03-01T19:00:00Z", resp.Date)
	assert.Contains(t, w.Body.String(), `"createdAt"`)
}

func TestHandler_CreateEvent_MissingFields(t *testing.T) {
	_, _, r := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/api/events", []byte(`{"title":"Demo"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.MsgRequiredFields, decodeMessage(t, w))
}

func TestHandler_CreateEvent_InvalidDate(t *testing.T) {
	_, _, r := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/api/events", []byte(`{"title":"X","date":"not-a-date","capacity":10}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.MsgInvalidDate, decodeMessage(t, w))
}

func TestHandler_CreateEvent_WrongType(t *testing.T) {
	_, _, r := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/api/events", []byte(`{"title":"X","date":"2031-01-01","capacity":"ten"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CreateEvent_PastDate(t *testing.T) {
	eventSvc, _, r := setupRouter(t)

	eventSvc.EXPECT().CreateEvent(mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError(domain.MsgDateNotFuture))

	w := doRequest(r, http.MethodPost, "/api/events", []byte(`{"title":"X","date":"2001-01-01","capacity":10}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.MsgDateNotFuture, decodeMessage(t, w))
}

func TestHandler_CreateEvent_InternalError(t *testing.T) {
	eventSvc, _, r := setupRouter(t)

	eventSvc.EXPECT().CreateEvent(mock.Anything, mock.Anything).
		Return(nil, errors.New("create event: connection refused"))

	w := doRequest(r, http.MethodPost, "/api/events", []byte(`{"title":"X","date":"2031-01-01","capacity":10}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "create event: connection refused", decodeMessage(t, w))
}

func TestHandler_ListEvents_ParsesQuery(t *testing.T) {
	eventSvc, _, r := setupRouter(t)

	from := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)
	eventSvc.EXPECT().
		List(mock.Anything, mock.MatchedBy(func(f domain.EventFilter) bool {
			return f.Query == "go" &&
				f.Status == domain.EventStatusCancelled &&
				f.SortField == domain.SortByTitle && f.SortDesc &&
				f.Page == 2 && f.Limit == 5 &&
				f.From != nil && f.From.Equal(from) &&
				f.To == nil
		})).
		Return(&domain.EventPage{
			Total: 6,
			Page:  2,
			Limit: 5,
			Items: []*domain.Event{{ID: "e6", Title: "Go", Status: domain.EventStatusCancelled}},
		}, nil)

	w := doRequest(r, http.MethodGet,
		"/api/events?q=go&status=cancelled&sort=title:desc&page=2&limit=5&from=2031-01-01&to=garbage", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.EventPageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.Total)
	assert.Equal(t, 2, resp.Page)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "e6", resp.Items[0].ID)
}

func TestHandler_ListEvents_MalformedParamsPassedAsZero(t *testing.T) {
	eventSvc, _, r := setupRouter(t)

	eventSvc.EXPECT().
		List(mock.Anything, mock.MatchedBy(func(f domain.EventFilter) bool {
			return f.Page == 0 && f.Limit == 0 && !f.SortDesc
		})).
		Return(&domain.EventPage{Page: 1, Limit: 10, Items: []*domain.Event{}}, nil)

	w := doRequest(r, http.MethodGet, "/api/events?page=abc&limit=-&sort=", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":0,"page":1,"limit":10,"items":[]}`, w.Body.String())
}

func TestHandler_GetEvent_Success(t *testing.T) {
	eventSvc, _, r := setupRouter(t)

	eventID := uuid.New().String()
	eventSvc.EXPECT().GetByID(mock.Anything, eventID).
		Return(&domain.Event{ID: eventID, Title: "Concert", Capacity: 100, Status: domain.EventStatusScheduled}, nil)

	w := doRequest(r, http.MethodGet, "/api/events/"+eventID, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.EventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, eventID, resp.ID)
	assert.Equal(t, 100, resp.Capacity)
}

func TestHandler_GetEvent_NotFound(t *testing.T) {
	eventSvc, _, r := setupRouter(t)

	eventID := uuid.New().String()
	eventSvc.EXPECT().GetByID(mock.Anything, eventID).Return(nil, domain.ErrEventNotFound)

	w := doRequest(r, http.MethodGet, "/api/events/"+eventID, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "event not found", decodeMessage(t, w))
}

func TestHandler_GetEvent_MalformedID(t *testing.T) {
	_, _, r := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/api/events/not-a-uuid", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_CancelEvent_Success(t *testing.T) {
	eventSvc, _, r := setupRouter(t)

	eventID := uuid.New().String()
	eventSvc.EXPECT().Cancel(mock.Anything, eventID).
		Return(&domain.Event{ID: eventID, Status: domain.EventStatusCancelled}, nil)

	w := doRequest(r, http.MethodPost, "/api/events/"+eventID+"/cancel", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.EventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cancelled", resp.Status)
}

func TestHandler_CancelEvent_NotFound(t *testing.T) {
	eventSvc, _, r := setupRouter(t)

	eventID := uuid.New().String()
	eventSvc.EXPECT().Cancel(mock.Anything, eventID).Return(nil, domain.ErrEventNotFound)

	w := doRequest(r, http.MethodPost, "/api/events/"+eventID+"/cancel", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_EventStats_Success(t *testing.T) {
	eventSvc, _, r := setupRouter(t)

	eventID := uuid.New().String()
	eventSvc.EXPECT().Stats(mock.Anything, eventID).Return(&domain.EventStats{
		Event:              domain.Event{ID: eventID, Title: "Demo", Capacity: 3, Status: domain.EventStatusScheduled},
		RegistrationsCount: 1,
		RemainingSeats:     2,
		Registrants:        []domain.Registration{{Name: "Alice", Email: "alice@example.com"}},
	}, nil)

	w := doRequest(r, http.MethodGet, "/api/events/"+eventID+"/stats", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.EventStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, eventID, resp.EventID)
	assert.Equal(t, 1, resp.RegistrationsCount)
	assert.Equal(t, 2, resp.RemainingSeats)
	assert.Equal(t, []dto.RegistrantResponse{{Name: "Alice", Email: "alice@example.com"}}, resp.Registrants)
}

// --- Registrations ---

func TestHandler_Register_Success(t *testing.T) {
	_, registrationSvc, r := setupRouter(t)

	eventID := uuid.New().String()
	registrationSvc.EXPECT().
		Register(mock.Anything, domain.RegisterInput{EventID: eventID, Name: "Alice", Email: "alice@example.com"}).
		Return(&domain.Registration{
			ID:           uuid.New().String(),
			EventID:      eventID,
			Name:         "Alice",
			Email:        "alice@example.com",
			RegisteredAt: time.Now(),
		}, nil)

	w := doRequest(r, http.MethodPost, "/api/events/"+eventID+"/register",
		[]byte(`{"name":"Alice","email":"alice@example.com"}`))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.RegistrationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, eventID, resp.EventID)
	assert.Contains(t, w.Body.String(), `"registeredAt"`)
}

func TestHandler_Register_Conflicts(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "full", err: domain.ErrEventFull, wantMsg: "event is full"},
		{name: "cancelled", err: domain.ErrEventCancelled, wantMsg: "event is cancelled"},
		{name: "duplicate", err: fmt.Errorf("create registration: %w", domain.ErrAlreadyRegistered), wantMsg: "already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, registrationSvc, r := setupRouter(t)

			eventID := uuid.New().String()
			registrationSvc.EXPECT().Register(mock.Anything, mock.Anything).Return(nil, tt.err)

			w := doRequest(r, http.MethodPost, "/api/events/"+eventID+"/register",
				[]byte(`{"name":"B","email":"b@x.com"}`))

			assert.Equal(t, http.StatusConflict, w.Code)
			assert.Equal(t, tt.wantMsg, decodeMessage(t, w))
		})
	}
}

func TestHandler_Register_ValidationError(t *testing.T) {
	_, _, r := setupRouter(t)

	eventID := uuid.New().String()
	w := doRequest(r, http.MethodPost, "/api/events/"+eventID+"/register", []byte(`{"name":"B"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.MsgNameEmailRequired, decodeMessage(t, w))
}

func TestHandler_Register_BodyCheckedBeforeEventID(t *testing.T) {
	_, _, r := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/api/events/not-a-uuid/register", []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.MsgNameEmailRequired, decodeMessage(t, w))
}

func TestHandler_Register_MalformedEventID(t *testing.T) {
	_, _, r := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/api/events/123/register", []byte(`{"name":"B","email":"b@x.com"}`))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
