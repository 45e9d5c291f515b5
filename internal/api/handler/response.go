package handler

import (
	"time"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
)

// DataResponse wraps a single resource.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ListResponse wraps one page of resources.
type ListResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type EventResponse struct {
	ID               string  `json:"id"`
	SpeakerID        string  `json:"speakerId"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	BannerURL        string  `json:"bannerUrl,omitempty"`
	VenueID          string  `json:"venueId"`
	BookingStartDate string  `json:"bookingStartDate"`
	BookingEndDate   string  `json:"bookingEndDate"`
	Status           string  `json:"status"`
	RejectionReason  *string `json:"rejectionReason"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

func toEventResponse(e *event.Event) *EventResponse {
	return &EventResponse{
		ID:               e.ID,
		SpeakerID:        e.SpeakerID,
		Name:             e.Name,
		Description:      e.Description,
		Category:         e.Category,
		BannerURL:        e.BannerURL,
		VenueID:          e.VenueID,
		BookingStartDate: e.BookingStartDate.UTC().Format(time.RFC3339),
		BookingEndDate:   e.BookingEndDate.UTC().Format(time.RFC3339),
		Status:           string(e.Status),
		RejectionReason:  e.RejectionReason,
		CreatedAt:        e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toEventPage(p event.Page) ListResponse {
	items := make([]*EventResponse, len(p.Items))
	for i, e := range p.Items {
		items[i] = toEventResponse(e)
	}
	return ListResponse{
		Data: items,
		Pagination: Pagination{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      p.Total,
			TotalPages: p.TotalPages(),
		},
	}
}

type VenueResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Capacity    int    `json:"capacity"`
	OpeningTime string `json:"openingTime"`
	ClosingTime string `json:"closingTime"`
}

func toVenueResponse(v *venue.Venue) *VenueResponse {
	return &VenueResponse{
		ID:          v.ID,
		Name:        v.Name,
		Address:     v.Address,
		Capacity:    v.Capacity,
		OpeningTime: v.OpeningTime,
		ClosingTime: v.ClosingTime,
	}
}
