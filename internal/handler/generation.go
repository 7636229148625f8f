package handler // handler package contains seat generation handlers for the layout collaborator

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/inventory"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/repository"
)

// GenerationHandler exposes bulk seat generation to the layout-editing
// subsystem.  Zone geometry arrives pre-validated from that subsystem;
// these handlers only re-check the basics (positive dimensions, a name)
// before handing off to the generator.
type GenerationHandler struct {
	Generator *inventory.Generator
}

// NewGenerationHandler constructs a GenerationHandler.
func NewGenerationHandler(gen *inventory.Generator) *GenerationHandler {
	if gen == nil {
		panic("nil generator passed to NewGenerationHandler")
	}
	return &GenerationHandler{Generator: gen}
}

// GenerateZone handles POST /v1/layouts/:layout_id/zones/:zone_id/seats/generate.
// Existing seats for the zone are deleted first; a regenerated zone keeps
// no seat-level continuity.
func (h *GenerationHandler) GenerateZone(c echo.Context) error {
	layoutID, err := strconv.ParseUint(c.Param("layout_id"), 10, 64)
	if err != nil || layoutID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid layout_id"})
	}
	zoneID, err := strconv.ParseUint(c.Param("zone_id"), 10, 64)
	if err != nil || zoneID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zone_id"})
	}
	var body struct {
		EventID     uint64 `json:"event_id"`
		Name        string `json:"name"`
		Rows        uint32 `json:"rows"`
		SeatsPerRow uint32 `json:"seats_per_row"`
		PriceCents  uint32 `json:"price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}
	if strings.TrimSpace(body.Name) == "" || body.Rows == 0 || body.SeatsPerRow == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, rows and seats_per_row are required and must be greater than zero"})
	}

	desc := inventory.ZoneDescriptor{
		ZoneID:      zoneID,
		Name:        body.Name,
		Rows:        body.Rows,
		SeatsPerRow: body.SeatsPerRow,
		PriceCents:  body.PriceCents,
	}
	seats, err := h.Generator.GenerateZone(c.Request().Context(), body.EventID, layoutID, desc)
	if err != nil {
		if errors.Is(err, repository.ErrZoneNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat generation failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"zone_id": zoneID,
		"count":   len(seats),
		"seats":   seats,
	})
}

// RegenerateLayout handles POST /v1/layouts/:layout_id/seats/regenerate.
// The body lists descriptors for the zones whose geometry changed; zones
// not listed keep their seats and in-flight holds.  A failing zone is
// reported in the per-zone results without aborting its siblings.
func (h *GenerationHandler) RegenerateLayout(c echo.Context) error {
	layoutID, err := strconv.ParseUint(c.Param("layout_id"), 10, 64)
	if err != nil || layoutID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid layout_id"})
	}
	var body struct {
		EventID uint64                     `json:"event_id"`
		Zones   []inventory.ZoneDescriptor `json:"zones"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}
	if len(body.Zones) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "zones is required"})
	}

	results := h.Generator.GenerateZones(c.Request().Context(), body.EventID, layoutID, body.Zones)
	return c.JSON(http.StatusOK, echo.Map{
		"layout_id": layoutID,
		"results":   results,
	})
}
