package handler

import (
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/meeting-room-reservation/internal/queue"
    "github.com/iliyamo/meeting-room-reservation/internal/service"
)

// idempotencyKeyHeader carries the caller-supplied retry token on
// booking creation requests.
const idempotencyKeyHeader = "Idempotency-Key"

// BookingHandler exposes booking creation, listing, cancellation and
// the utilization report. Events for created and cancelled bookings are
// published through the Publisher; publish failures are logged by the
// publisher and never fail the request.
type BookingHandler struct {
    Bookings  *service.BookingService
    Reports   *service.ReportService
    Publisher *queue.Publisher
}

// NewBookingHandler constructs a BookingHandler. The publisher may be
// nil, in which case no events are emitted.
func NewBookingHandler(bookings *service.BookingService, reports *service.ReportService, publisher *queue.Publisher) *BookingHandler {
    if bookings == nil || reports == nil {
        panic("nil service passed to NewBookingHandler")
    }
    return &BookingHandler{Bookings: bookings, Reports: reports, Publisher: publisher}
}

// Create handles POST /v1/bookings. The optional Idempotency-Key header
// routes the request through the race-free creation protocol; replays
// with the same key and organizer return the original booking with 201.
func (h *BookingHandler) Create(c echo.Context) error {
    var body struct {
        RoomID         string `json:"roomId"`
        Title          string `json:"title"`
        OrganizerEmail string `json:"organizerEmail"`
        StartTime      string `json:"startTime"`
        EndTime        string `json:"endTime"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error": "ValidationError", "message": "invalid request body",
        })
    }

    booking, err := h.Bookings.Create(c.Request().Context(), service.CreateBookingInput{
        RoomID:         body.RoomID,
        Title:          body.Title,
        OrganizerEmail: body.OrganizerEmail,
        StartTime:      body.StartTime,
        EndTime:        body.EndTime,
        IdempotencyKey: c.Request().Header.Get(idempotencyKeyHeader),
    })
    if err != nil {
        return writeServiceError(c, err)
    }

    if h.Publisher != nil {
        h.Publisher.PublishBookingCreated(c.Request().Context(), queue.BookingCreatedEvent{
            BookingID:      booking.ID,
            RoomID:         booking.RoomID,
            Title:          booking.Title,
            OrganizerEmail: booking.OrganizerEmail,
            StartTime:      booking.StartTime.Format(time.RFC3339),
            EndTime:        booking.EndTime.Format(time.RFC3339),
            CreatedAt:      booking.CreatedAt.Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusCreated, booking)
}

// List handles GET /v1/bookings with optional roomId, from, to, limit
// and offset query parameters. The from/to bounds accept RFC 3339
// instants or plain dates, like the utilization report. Results are
// sorted by start time ascending.
func (h *BookingHandler) List(c echo.Context) error {
    q := service.ListBookingsQuery{Limit: 20}

    if v := c.QueryParam("roomId"); v != "" {
        id, err := strconv.ParseUint(v, 10, 64)
        if err != nil || id == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "error": "ValidationError", "message": "invalid roomId",
            })
        }
        q.RoomID = &id
    }
    if v := c.QueryParam("from"); v != "" {
        t, ok := service.ParseTimeBound(v)
        if !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "error": "ValidationError", "message": "invalid from",
            })
        }
        q.From = &t
    }
    if v := c.QueryParam("to"); v != "" {
        t, ok := service.ParseTimeBound(v)
        if !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "error": "ValidationError", "message": "invalid to",
            })
        }
        q.To = &t
    }
    if v := c.QueryParam("limit"); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            q.Limit = n
        }
    }
    if v := c.QueryParam("offset"); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            q.Offset = n
        }
    }

    page, err := h.Bookings.List(c.Request().Context(), q)
    if err != nil {
        return writeServiceError(c, err)
    }
    return c.JSON(http.StatusOK, page)
}

// Cancel handles POST /v1/bookings/:id/cancel. Cancelling an already
// cancelled booking returns it unchanged with 200.
func (h *BookingHandler) Cancel(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error": "ValidationError", "message": "invalid booking id",
        })
    }

    booking, err := h.Bookings.Cancel(c.Request().Context(), id)
    if err != nil {
        return writeServiceError(c, err)
    }

    if h.Publisher != nil {
        h.Publisher.PublishBookingCancelled(c.Request().Context(), queue.BookingCancelledEvent{
            BookingID:   booking.ID,
            RoomID:      booking.RoomID,
            Title:       booking.Title,
            StartTime:   booking.StartTime.Format(time.RFC3339),
            CancelledAt: time.Now().UTC().Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusOK, booking)
}

// Utilization handles GET /v1/bookings/reports/room-utilization. Both
// from and to are required; they accept RFC 3339 instants or plain
// dates.
func (h *BookingHandler) Utilization(c echo.Context) error {
    rows, err := h.Reports.RoomUtilization(c.Request().Context(), c.QueryParam("from"), c.QueryParam("to"))
    if err != nil {
        return writeServiceError(c, err)
    }
    return c.JSON(http.StatusOK, rows)
}
