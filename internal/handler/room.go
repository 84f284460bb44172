package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/meeting-room-reservation/internal/model"
    "github.com/iliyamo/meeting-room-reservation/internal/repository"
)

// RoomHandler exposes the room registry endpoints. Rooms are an
// external collaborator from the booking core's point of view, so the
// handler talks to the repository directly.
type RoomHandler struct {
    Rooms *repository.RoomRepo
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(rooms *repository.RoomRepo) *RoomHandler {
    if rooms == nil {
        panic("nil repository passed to NewRoomHandler")
    }
    return &RoomHandler{Rooms: rooms}
}

// Create handles POST /v1/rooms. Room names are unique
// case-insensitively; a collision reports a validation error.
func (h *RoomHandler) Create(c echo.Context) error {
    var body struct {
        Name      string   `json:"name"`
        Capacity  uint32   `json:"capacity"`
        Floor     int32    `json:"floor"`
        Amenities []string `json:"amenities"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error": "ValidationError", "message": "invalid request body",
        })
    }
    if body.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error": "ValidationError", "message": "name required",
        })
    }
    if body.Capacity < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error": "ValidationError", "message": "capacity must be >= 1",
        })
    }

    room := &model.Room{
        Name:      body.Name,
        Capacity:  body.Capacity,
        Floor:     body.Floor,
        Amenities: body.Amenities,
    }
    if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
        if errors.Is(err, repository.ErrRoomNameTaken) {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "error": "ValidationError", "message": "room name must be unique",
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{
            "error": "Internal", "message": "internal server error",
        })
    }
    return c.JSON(http.StatusCreated, room)
}

// List handles GET /v1/rooms with optional minCapacity and amenity
// filters. The amenity match is case-insensitive.
func (h *RoomHandler) List(c echo.Context) error {
    var minCapacity uint32
    if v := c.QueryParam("minCapacity"); v != "" {
        n, err := strconv.ParseUint(v, 10, 32)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "error": "ValidationError", "message": "invalid minCapacity",
            })
        }
        minCapacity = uint32(n)
    }

    rooms, err := h.Rooms.List(c.Request().Context(), minCapacity, c.QueryParam("amenity"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{
            "error": "Internal", "message": "internal server error",
        })
    }
    return c.JSON(http.StatusOK, rooms)
}
