// Package handler contains the HTTP boundary. Handlers bind and parse
// requests, delegate to the service layer, and translate tagged service
// errors into HTTP responses.
package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/meeting-room-reservation/internal/service"
)

// statusForKind maps the closed set of service error kinds to HTTP
// status codes. InProgress deliberately maps to 202: the request is
// neither failed nor finished, the caller should retry with the same
// key later.
func statusForKind(kind service.Kind) int {
    switch kind {
    case service.KindValidation, service.KindBusinessRule:
        return http.StatusBadRequest
    case service.KindNotFound:
        return http.StatusNotFound
    case service.KindConflict:
        return http.StatusConflict
    case service.KindInProgress:
        return http.StatusAccepted
    default:
        return http.StatusInternalServerError
    }
}

// writeServiceError renders a service error as JSON. Anything that is
// not a tagged service error is reported as a generic internal failure
// so no driver or transaction detail leaks to clients.
func writeServiceError(c echo.Context, err error) error {
    var se *service.Error
    if errors.As(err, &se) {
        if se.Kind == service.KindInProgress {
            return c.JSON(http.StatusAccepted, echo.Map{"message": se.Message})
        }
        return c.JSON(statusForKind(se.Kind), echo.Map{
            "error":   string(se.Kind),
            "message": se.Message,
        })
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{
        "error":   string(service.KindInternal),
        "message": "internal server error",
    })
}
