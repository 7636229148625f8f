package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/inventory"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/middleware"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/model"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/repository"
)

// ReservationHandler exposes the reservation engine's transitions over
// HTTP.  All methods assume CallerAuth ran first; they return 401 when no
// caller identity is present in the context.  Error sentinels from the
// engine map onto distinct status codes so a lost seat race ("seat no
// longer available", the dominant on-sale error) is never conflated with
// the per-caller cap or a generic server error.
type ReservationHandler struct {
	Engine *inventory.Engine
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(engine *inventory.Engine) *ReservationHandler {
	if engine == nil {
		panic("nil engine passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: engine}
}

// Reserve handles POST /v1/events/:event_id/zones/:zone_id/seats/reserve.
// The body names the seat position and an optional hold duration.  On
// success the held seat is returned with its hold token and expiry.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	callerID := middleware.CallerID(c)
	if callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := strconv.ParseUint(c.Param("event_id"), 10, 64)
	if err != nil || eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_id"})
	}
	zoneID, err := strconv.ParseUint(c.Param("zone_id"), 10, 64)
	if err != nil || zoneID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zone_id"})
	}
	var body struct {
		Row         uint32 `json:"row"`
		SeatNumber  uint32 `json:"seat_number"`
		HoldMinutes int    `json:"hold_minutes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Row == 0 || body.SeatNumber == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "row and seat_number are required and must be greater than zero"})
	}

	key := model.SeatKey{EventID: eventID, ZoneID: zoneID, Row: body.Row, SeatNumber: body.SeatNumber}
	seat, err := h.Engine.Reserve(c.Request().Context(), key, callerID, time.Duration(body.HoldMinutes)*time.Minute)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrReservationLimitExceeded):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "reservation_limit_exceeded"})
		case errors.Is(err, repository.ErrSeatUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat_unavailable", "message": "seat no longer available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, seat)
}

// ConfirmPurchase handles POST /v1/seats/:id/purchase.  The order
// reference in the body comes from the payment-capture subsystem, which
// has already authorized the charge.
func (h *ReservationHandler) ConfirmPurchase(c echo.Context) error {
	callerID := middleware.CallerID(c)
	if callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || seatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	var body struct {
		OrderRef string `json:"order_ref"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.OrderRef == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_ref is required"})
	}

	seat, err := h.Engine.ConfirmPurchase(c.Request().Context(), seatID, callerID, body.OrderRef)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case errors.Is(err, repository.ErrNotReservedByCaller):
			return c.JSON(http.StatusConflict, echo.Map{"error": "not_reserved_by_caller"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, seat)
}

// Release handles DELETE /v1/seats/:id/reservation.  Releasing a seat the
// caller no longer holds reports a conflict; the seat is left untouched.
func (h *ReservationHandler) Release(c echo.Context) error {
	callerID := middleware.CallerID(c)
	if callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || seatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}

	seat, err := h.Engine.ReleaseReservation(c.Request().Context(), seatID, callerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case errors.Is(err, repository.ErrNotReservedByCaller):
			return c.JSON(http.StatusConflict, echo.Map{"error": "not_reserved_by_caller"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, seat)
}
