package handler // handler package contains seat listing and availability handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/inventory"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/model"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/repository"
)

// SeatsHandler serves the read side of the inventory: paginated seat
// listings straight from the seat store, and the zone availability summary
// from the embedded aggregate cache.
type SeatsHandler struct {
	Engine *inventory.Engine
}

// NewSeatsHandler constructs a SeatsHandler.
func NewSeatsHandler(engine *inventory.Engine) *SeatsHandler {
	if engine == nil {
		panic("nil engine passed to NewSeatsHandler")
	}
	return &SeatsHandler{Engine: engine}
}

// ListByZone handles GET /v1/events/:event_id/zones/:zone_id/seats with
// optional ?status=, ?page= and ?page_size= query parameters.
func (h *SeatsHandler) ListByZone(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("event_id"), 10, 64)
	if err != nil || eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_id"})
	}
	zoneID, err := strconv.ParseUint(c.Param("zone_id"), 10, 64)
	if err != nil || zoneID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zone_id"})
	}
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !model.ValidSeatStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	result, err := h.Engine.ListSeatsByZone(c.Request().Context(), eventID, zoneID, status, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, result)
}

// Availability handles GET /v1/layouts/:layout_id/zones/:zone_id/availability.
// The counts come from the zone's embedded cache: fast, possibly a moment
// stale, and explicitly not a basis for admission decisions.
func (h *SeatsHandler) Availability(c echo.Context) error {
	layoutID, err := strconv.ParseUint(c.Param("layout_id"), 10, 64)
	if err != nil || layoutID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid layout_id"})
	}
	zoneID, err := strconv.ParseUint(c.Param("zone_id"), 10, 64)
	if err != nil || zoneID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zone_id"})
	}

	zone, err := h.Engine.ZoneAvailability(c.Request().Context(), layoutID, zoneID)
	if err != nil {
		if errors.Is(err, repository.ErrZoneNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"layout_id": zone.LayoutID,
		"zone_id":   zone.ID,
		"name":      zone.Name,
		"counts":    zone.Counts,
	})
}
