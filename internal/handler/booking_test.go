package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-hotel-booking/internal/middleware"
	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/service"
	"github.com/iliyamo/event-hotel-booking/internal/utils"
)

const testSecret = "handler-secret"

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) GetBooking(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
	args := m.Called(ctx, userID)
	if b := args.Get(0); b != nil {
		return b.(*model.BookingWithRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingService) CreateBooking(ctx context.Context, userID, roomID int64) (*model.Booking, error) {
	args := m.Called(ctx, userID, roomID)
	if b := args.Get(0); b != nil {
		return b.(*model.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingService) UpdateBooking(ctx context.Context, userID, bookingID, newRoomID int64) (*model.Booking, error) {
	args := m.Called(ctx, userID, bookingID, newRoomID)
	if b := args.Get(0); b != nil {
		return b.(*model.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestEcho(svc BookingService) *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler(nil)
	h := NewBookingHandler(svc)
	g := e.Group("/booking", middleware.JWTAuth(testSecret))
	g.GET("", h.GetBooking)
	g.POST("", h.CreateBooking)
	g.PUT("/:bookingId", h.UpdateBooking)
	return e
}

func doRequest(t *testing.T, e *echo.Echo, method, path, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID > 0 {
		tok, err := utils.NewAccessToken(testSecret, userID, 5)
		require.NoError(t, err)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetBooking_OK(t *testing.T) {
	svc := new(mockBookingService)
	svc.On("GetBooking", mock.Anything, int64(3)).Return(&model.BookingWithRoom{
		Booking: model.Booking{ID: 10, UserID: 3, RoomID: 4},
		Room:    model.Room{ID: 4, Name: "101", Capacity: 2, HotelID: 1},
	}, nil)

	rec := doRequest(t, newTestEcho(svc), http.MethodGet, "/booking", "", 3)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":10,"Room":{"id":4,"name":"101","capacity":2,"hotelId":1}}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestGetBooking_NoBooking(t *testing.T) {
	svc := new(mockBookingService)
	svc.On("GetBooking", mock.Anything, int64(3)).Return(nil, service.ErrNoBooking)

	rec := doRequest(t, newTestEcho(svc), http.MethodGet, "/booking", "", 3)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"user has no booking"}`, rec.Body.String())
}

func TestBooking_RequiresToken(t *testing.T) {
	svc := new(mockBookingService)

	rec := doRequest(t, newTestEcho(svc), http.MethodPost, "/booking", `{"roomId":1}`, 0)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_OK(t *testing.T) {
	svc := new(mockBookingService)
	svc.On("CreateBooking", mock.Anything, int64(3), int64(4)).Return(&model.Booking{ID: 11, UserID: 3, RoomID: 4}, nil)

	rec := doRequest(t, newTestEcho(svc), http.MethodPost, "/booking", `{"roomId":4}`, 3)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bookingId":11}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestCreateBooking_MissingRoomReachesService(t *testing.T) {
	svc := new(mockBookingService)
	svc.On("CreateBooking", mock.Anything, int64(3), int64(0)).Return(nil, service.ErrRoomRequired)

	rec := doRequest(t, newTestEcho(svc), http.MethodPost, "/booking", `{}`, 3)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"room is required"}`, rec.Body.String())
}

func TestCreateBooking_BadBody(t *testing.T) {
	svc := new(mockBookingService)

	rec := doRequest(t, newTestEcho(svc), http.MethodPost, "/booking", `{"roomId":"abc"}`, 3)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_RuleViolationsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{service.ErrRoomNotFound, http.StatusNotFound, "room doesn't exist"},
		{service.ErrPaymentRequired, http.StatusPaymentRequired, "payment required"},
		{service.ErrRemoteEvent, http.StatusForbidden, "remote event"},
		{service.ErrHotelNotIncluded, http.StatusForbidden, "hotel not included"},
		{service.ErrRoomFull, http.StatusForbidden, "room is filled"},
		{service.ErrEnrollmentNotFound, http.StatusNotFound, "user has no enrollment"},
		{service.ErrRoomBusy, http.StatusServiceUnavailable, service.ErrRoomBusy.Error()},
		{fmt.Errorf("%w: %w", service.ErrRoomBusy, context.DeadlineExceeded), http.StatusServiceUnavailable, service.ErrRoomBusy.Error()},
		{errors.New("connection refused"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			svc := new(mockBookingService)
			svc.On("CreateBooking", mock.Anything, int64(3), int64(4)).Return(nil, tc.err)

			rec := doRequest(t, newTestEcho(svc), http.MethodPost, "/booking", `{"roomId":4}`, 3)

			assert.Equal(t, tc.code, rec.Code)
			assert.JSONEq(t, `{"error":"`+tc.msg+`"}`, rec.Body.String())
		})
	}
}

func TestUpdateBooking_OK(t *testing.T) {
	svc := new(mockBookingService)
	svc.On("UpdateBooking", mock.Anything, int64(3), int64(10), int64(5)).Return(&model.Booking{ID: 10, UserID: 3, RoomID: 5}, nil)

	rec := doRequest(t, newTestEcho(svc), http.MethodPut, "/booking/10", `{"roomId":5}`, 3)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bookingId":10}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestUpdateBooking_Errors(t *testing.T) {
	t.Run("not owner", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("UpdateBooking", mock.Anything, int64(3), int64(10), int64(5)).Return(nil, service.ErrNotBookingOwner)

		rec := doRequest(t, newTestEcho(svc), http.MethodPut, "/booking/10", `{"roomId":5}`, 3)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"user doesn't have a booking"}`, rec.Body.String())
	})

	t.Run("unknown room", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("UpdateBooking", mock.Anything, int64(3), int64(10), int64(-1)).Return(nil, service.ErrRoomNotFound)

		rec := doRequest(t, newTestEcho(svc), http.MethodPut, "/booking/10", `{"roomId":-1}`, 3)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"room doesn't exist"}`, rec.Body.String())
	})

	t.Run("non numeric id", func(t *testing.T) {
		svc := new(mockBookingService)

		rec := doRequest(t, newTestEcho(svc), http.MethodPut, "/booking/abc", `{"roomId":5}`, 3)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("body cannot override path id", func(t *testing.T) {
		svc := new(mockBookingService)
		svc.On("UpdateBooking", mock.Anything, int64(7), int64(5), int64(2)).Return(&model.Booking{ID: 5, UserID: 7, RoomID: 2}, nil)

		rec := doRequest(t, newTestEcho(svc), http.MethodPut, "/booking/5", `{"roomId":2,"bookingId":999}`, 7)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"bookingId":5}`, rec.Body.String())
		svc.AssertExpectations(t)
		svc.AssertNotCalled(t, "UpdateBooking", mock.Anything, int64(7), int64(999), mock.Anything)
	})

	t.Run("zero id", func(t *testing.T) {
		svc := new(mockBookingService)

		rec := doRequest(t, newTestEcho(svc), http.MethodPut, "/booking/0", `{"roomId":5}`, 3)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"invalid booking id"}`, rec.Body.String())
	})
}
