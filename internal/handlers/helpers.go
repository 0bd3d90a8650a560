package handlers

import (
	"errors"
	"net/http"

	"github.com/konnect-app/backend/internal/middleware"
	"github.com/konnect-app/backend/internal/services"
	"github.com/konnect-app/backend/pkg/payload"
	"github.com/labstack/echo/v4"
)

// respond writes v as JSON, encrypting it first when the client sent an
// encrypted request. Plain acknowledgement strings are never encrypted.
func respond(c echo.Context, code int, codec *payload.Codec, v interface{}) error {
	if codec != nil && c.Request().Header.Get(middleware.EncryptedHeader) != "" {
		ciphertext, err := codec.EncryptJSON(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to encrypt response payload")
		}
		return c.JSON(code, echo.Map{"payload": ciphertext})
	}
	return c.JSON(code, v)
}

// serviceError maps service-layer failures onto HTTP responses. Partial write
// failures are reported distinctly from clean rejections so the client can
// tell "nothing happened" from "partially happened".
func serviceError(err error) error {
	var partial *services.PartialWriteError
	if errors.As(err, &partial) {
		return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{
			"error":           "operation partially applied",
			"operation":       partial.Op,
			"completed_steps": partial.Completed,
			"failed_step":     partial.Failed,
		})
	}
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrConnectionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidReference):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// currentUserID returns the authenticated user's external id set by the auth
// middleware.
func currentUserID(c echo.Context) (string, error) {
	userID, ok := c.Get("userId").(string)
	if !ok || userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user id missing from context")
	}
	return userID, nil
}
