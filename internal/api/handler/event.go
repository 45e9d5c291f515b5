package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Buffden/Event-Management-System-sub004/internal/api/middleware"
	"github.com/Buffden/Event-Management-System-sub004/internal/application"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/actor"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
)

type EventHandler struct {
	events EventServiceInterface
}

func NewEventHandler(events EventServiceInterface) *EventHandler {
	return &EventHandler{events: events}
}

type CreateEventRequest struct {
	Name             string    `json:"name" validate:"required,max=200"`
	Description      string    `json:"description" validate:"required"`
	Category         string    `json:"category" validate:"required,max=100"`
	BannerURL        string    `json:"bannerUrl" validate:"omitempty,url"`
	VenueID          string    `json:"venueId" validate:"required"`
	BookingStartDate time.Time `json:"bookingStartDate" validate:"required"`
	BookingEndDate   time.Time `json:"bookingEndDate" validate:"required"`
}

// UpdateEventRequest is a partial update; omitted fields keep their value.
type UpdateEventRequest struct {
	Name             *string    `json:"name" validate:"omitempty,max=200"`
	Description      *string    `json:"description"`
	Category         *string    `json:"category" validate:"omitempty,max=100"`
	BannerURL        *string    `json:"bannerUrl" validate:"omitempty,url"`
	VenueID          *string    `json:"venueId" validate:"omitempty,min=1"`
	BookingStartDate *time.Time `json:"bookingStartDate"`
	BookingEndDate   *time.Time `json:"bookingEndDate"`
}

type RejectEventRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ListPublic lists published events.
func (h *EventHandler) ListPublic(c echo.Context) error {
	q, err := parseListQuery(c)
	if err != nil {
		return err
	}
	page, err := h.events.ListEvents(c.Request().Context(), q, false)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventPage(page))
}

// ListOwn lists every event of the calling speaker, whatever its status.
func (h *EventHandler) ListOwn(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	q, err := parseListQuery(c)
	if err != nil {
		return err
	}
	q.SpeakerID = a.ID
	page, err := h.events.ListEvents(c.Request().Context(), q, true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventPage(page))
}

// ListAll lists events of every speaker and status. Admin only.
func (h *EventHandler) ListAll(c echo.Context) error {
	q, err := parseListQuery(c)
	if err != nil {
		return err
	}
	page, err := h.events.ListEvents(c.Request().Context(), q, true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventPage(page))
}

// Get returns one event. Anonymous callers only see published events.
func (h *EventHandler) Get(c echo.Context) error {
	a, _ := middleware.ActorFrom(c)
	e, err := h.events.GetEvent(c.Request().Context(), a, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DataResponse{Data: toEventResponse(e)})
}

func (h *EventHandler) Create(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	var req CreateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	e, err := h.events.CreateEvent(c.Request().Context(), a, application.CreateEventInput{
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		BannerURL:        req.BannerURL,
		VenueID:          req.VenueID,
		BookingStartDate: req.BookingStartDate,
		BookingEndDate:   req.BookingEndDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, DataResponse{Data: toEventResponse(e)})
}

func (h *EventHandler) Update(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	var req UpdateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	e, err := h.events.UpdateEvent(c.Request().Context(), a, c.Param("id"), event.Patch{
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		BannerURL:        req.BannerURL,
		VenueID:          req.VenueID,
		BookingStartDate: req.BookingStartDate,
		BookingEndDate:   req.BookingEndDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DataResponse{Data: toEventResponse(e)})
}

func (h *EventHandler) Submit(c echo.Context) error {
	return h.transition(c, h.events.SubmitEvent)
}

func (h *EventHandler) Approve(c echo.Context) error {
	return h.transition(c, h.events.ApproveEvent)
}

func (h *EventHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.events.CancelEvent)
}

func (h *EventHandler) Complete(c echo.Context) error {
	return h.transition(c, h.events.MarkCompleted)
}

func (h *EventHandler) Reject(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	var req RejectEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	e, err := h.events.RejectEvent(c.Request().Context(), a, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DataResponse{Data: toEventResponse(e)})
}

func (h *EventHandler) Delete(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	if err := h.events.DeleteEvent(c.Request().Context(), a, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type transitionFunc func(ctx context.Context, a actor.Actor, id string) (*event.Event, error)

func (h *EventHandler) transition(c echo.Context, fn transitionFunc) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	e, err := fn(c.Request().Context(), a, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DataResponse{Data: toEventResponse(e)})
}

func currentActor(c echo.Context) (actor.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return actor.Actor{}, actor.ErrMissingToken
	}
	return a, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	return c.Validate(req)
}

func parseListQuery(c echo.Context) (application.ListQuery, error) {
	var (
		q        application.ListQuery
		status   string
		from, to time.Time
	)
	err := echo.QueryParamsBinder(c).
		String("status", &status).
		String("category", &q.Category).
		String("venueId", &q.VenueID).
		String("speakerId", &q.SpeakerID).
		String("search", &q.Search).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		Time("from", &from, time.RFC3339).
		Time("to", &to, time.RFC3339).
		BindError()
	if err != nil {
		return q, err
	}

	if status != "" {
		s, ok := event.ParseStatus(status)
		if !ok {
			return q, echo.NewHTTPError(http.StatusBadRequest, "unknown status "+status)
		}
		q.Status = &s
	}
	if !from.IsZero() {
		q.From = &from
	}
	if !to.IsZero() {
		q.To = &to
	}
	return q, nil
}
