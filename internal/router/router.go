// Package router defines how HTTP routes are registered for the API.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/meeting-room-reservation/internal/handler"
)

// RegisterRoutes wires all endpoints onto the provided Echo instance.
// The report route is registered before the parameterized cancel route
// so the static path wins.
func RegisterRoutes(e *echo.Echo, bookings *handler.BookingHandler, rooms *handler.RoomHandler) {
    // Health check for load balancers and monitoring.
    e.GET("/healthz", handler.Health)

    r := e.Group("/v1/rooms")
    r.POST("", rooms.Create)
    r.GET("", rooms.List)

    b := e.Group("/v1/bookings")
    b.POST("", bookings.Create)
    b.GET("", bookings.List)
    b.GET("/reports/room-utilization", bookings.Utilization)
    b.POST("/:id/cancel", bookings.Cancel)
}
