package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/stpnv0/EventRegistration/internal/domain"
	"github.com/stpnv0/EventRegistration/internal/handler/dto"
	"github.com/wb-go/wbf/ginext"
)

type EventSvc interface {
	CreateEvent(ctx context.Context, input domain.CreateEventInput) (*domain.Event, error)
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter domain.EventFilter) (*domain.EventPage, error)
	Cancel(ctx context.Context, id string) (*domain.Event, error)
	Stats(ctx context.Context, id string) (*domain.EventStats, error)
}

type RegistrationSvc interface {
	Register(ctx context.Context, input domain.RegisterInput) (*domain.Registration, error)
}

type Handler struct {
	eventService        EventSvc
	registrationService RegistrationSvc
}

func NewHandler(eventService EventSvc, registrationService RegistrationSvc) *Handler {
	return &Handler{
		eventService:        eventService,
		registrationService: registrationService,
	}
}

// Events

func (h *Handler) CreateEvent(c *ginext.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	input, err := req.Validate()
	if err != nil {
		h.handleError(c, err)
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

func (h *Handler) ListEvents(c *ginext.Context) {
	page, err := h.eventService.List(c.Request.Context(), parseEventFilter(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventPageResponse(page))
}

func (h *Handler) GetEvent(c *ginext.Context) {
	id, ok := eventID(c)
	if !ok {
		h.handleError(c, domain.ErrEventNotFound)
		return
	}

	event, err := h.eventService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *Handler) CancelEvent(c *ginext.Context) {
	id, ok := eventID(c)
	if !ok {
		h.handleError(c, domain.ErrEventNotFound)
		return
	}

	event, err := h.eventService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *Handler) EventStats(c *ginext.Context) {
	id, ok := eventID(c)
	if !ok {
		h.handleError(c, domain.ErrEventNotFound)
		return
	}

	stats, err := h.eventService.Stats(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventStatsResponse(stats))
}

// Registrations

// Register validates the body before the id so that a request missing
// name or email gets 400 regardless of the path.
func (h *Handler) Register(c *ginext.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	input := domain.RegisterInput{Name: req.Name, Email: req.Email}
	if err := input.Normalize().Validate(); err != nil {
		h.handleError(c, err)
		return
	}

	id, ok := eventID(c)
	if !ok {
		h.handleError(c, domain.ErrEventNotFound)
		return
	}
	input.EventID = id

	reg, err := h.registrationService.Register(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRegistrationResponse(reg))
}

// eventID reports false for ids that cannot exist in storage.
func eventID(c *ginext.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// parseEventFilter never fails: unparseable values are left zero and
// replaced with defaults by the service.
func parseEventFilter(c *ginext.Context) domain.EventFilter {
	f := domain.EventFilter{
		Query:  strings.TrimSpace(c.Query("q")),
		Status: domain.EventStatus(strings.ToLower(strings.TrimSpace(c.Query("status")))),
	}

	if t, ok := dto.ParseDate(c.Query("from")); ok {
		f.From = &t
	}
	if t, ok := dto.ParseDate(c.Query("to")); ok {
		f.To = &t
	}

	field, dir, _ := strings.Cut(strings.TrimSpace(c.Query("sort")), ":")
	f.SortField = domain.SortField(field)
	f.SortDesc = strings.EqualFold(dir, "desc")

	f.Page, _ = strconv.Atoi(c.Query("page"))
	f.Limit, _ = strconv.Atoi(c.Query("limit"))

	return f
}

func (h *Handler) badRequest(c *ginext.Context, err error) {
	c.Set("error", err.Error())
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body: " + err.Error()})
}

var conflictErrors = []error{
	domain.ErrEventCancelled,
	domain.ErrEventFull,
	domain.ErrAlreadyRegistered,
}

func (h *Handler) handleError(c *ginext.Context, err error) {
	c.Set("error", err.Error())

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: ve.Msg})
		return
	}

	if errors.Is(err, domain.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: domain.ErrEventNotFound.Error()})
		return
	}

	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusConflict, dto.ErrorResponse{Message: target.Error()})
			return
		}
	}

	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
}
