package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type VenueHandler struct {
	venues VenueServiceInterface
}

func NewVenueHandler(venues VenueServiceInterface) *VenueHandler {
	return &VenueHandler{venues: venues}
}

func (h *VenueHandler) List(c echo.Context) error {
	venues, err := h.venues.ListVenues(c.Request().Context())
	if err != nil {
		return err
	}
	items := make([]*VenueResponse, len(venues))
	for i, v := range venues {
		items[i] = toVenueResponse(v)
	}
	return c.JSON(http.StatusOK, DataResponse{Data: items})
}

func (h *VenueHandler) Get(c echo.Context) error {
	v, err := h.venues.GetVenue(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DataResponse{Data: toVenueResponse(v)})
}
