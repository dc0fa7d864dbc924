// Package handler adapts the booking rules to HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-hotel-booking/internal/middleware"
	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// BookingService is implemented by *service.BookingService.
type BookingService interface {
	GetBooking(ctx context.Context, userID int64) (*model.BookingWithRoom, error)
	CreateBooking(ctx context.Context, userID, roomID int64) (*model.Booking, error)
	UpdateBooking(ctx context.Context, userID, bookingID, newRoomID int64) (*model.Booking, error)
}

// BookingHandler serves /booking.  Routes must sit behind JWTAuth.
type BookingHandler struct {
	svc BookingService
}

func NewBookingHandler(svc BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{svc: svc}
}

// createBookingRequest leaves roomId unvalidated: a missing room is a rule
// violation with its own message, decided by the service.
type createBookingRequest struct {
	RoomID int64 `json:"roomId"`
}

// updateBookingRequest takes the booking id from the path only; the body
// cannot override it.
type updateBookingRequest struct {
	BookingID int64 `param:"bookingId" json:"-" validate:"required"`
	RoomID    int64 `json:"roomId"`
}

type bookingResponse struct {
	ID   int64      `json:"id"`
	Room model.Room `json:"Room"`
}

type bookingIDResponse struct {
	BookingID int64 `json:"bookingId"`
}

// GetBooking handles GET /booking.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	b, err := h.svc.GetBooking(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingResponse{ID: b.ID, Room: b.Room})
}

// CreateBooking handles POST /booking with body {"roomId": n}.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	b, err := h.svc.CreateBooking(c.Request().Context(), userID, req.RoomID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingIDResponse{BookingID: b.ID})
}

// UpdateBooking handles PUT /booking/:bookingId with body {"roomId": n}.
func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	var req updateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}
	b, err := h.svc.UpdateBooking(c.Request().Context(), userID, req.BookingID, req.RoomID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingIDResponse{BookingID: b.ID})
}
