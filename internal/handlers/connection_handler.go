package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/konnect-app/backend/internal/models"
	"github.com/konnect-app/backend/internal/services"
	"github.com/konnect-app/backend/pkg/payload"
	"github.com/labstack/echo/v4"
)

// ConnectionHandler handles established connections: the sent/received views
// and grant/revoke of shared profiles.
type ConnectionHandler struct {
	grantService *services.GrantService
	viewService  *services.ViewService
	codec        *payload.Codec
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(grants *services.GrantService, views *services.ViewService, codec *payload.Codec) *ConnectionHandler {
	return &ConnectionHandler{
		grantService: grants,
		viewService:  views,
		codec:        codec,
	}
}

// RegisterConnectionRoutes registers connection-related routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.GET("/connections/sent", h.GetSentConnections)
	g.GET("/connections/received", h.GetReceivedConnections)
	g.GET("/connections/received/:id", h.GetReceivedProfiles)
	g.GET("/connections/:id/grants", h.GetGrantSelection)
	g.PUT("/connections/:id/grants", h.ReplaceGrants)
}

// GetSentConnections returns the public profiles of everyone the user shares
// profiles with
func (h *ConnectionHandler) GetSentConnections(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	profiles, err := h.viewService.SentConnectionProfiles(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err)
	}

	return respond(c, http.StatusOK, h.codec, profiles)
}

// GetReceivedConnections returns the public profiles of everyone sharing
// profiles with the user
func (h *ConnectionHandler) GetReceivedConnections(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	profiles, err := h.viewService.ReceivedConnectionProfiles(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err)
	}

	return respond(c, http.StatusOK, h.codec, profiles)
}

// GetReceivedProfiles returns the full profile contents one connection has
// shared with the user
func (h *ConnectionHandler) GetReceivedProfiles(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	profiles, err := h.viewService.ReceivedProfiles(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}

	return respond(c, http.StatusOK, h.codec, profiles)
}

// GetGrantSelection returns the user's profile catalog flagged with the
// granted status for one connection
func (h *ConnectionHandler) GetGrantSelection(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	selection, err := h.grantService.GrantSelection(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}

	return respond(c, http.StatusOK, h.codec, selection)
}

// ReplaceGrants replaces the set of profiles shared with one connection
func (h *ConnectionHandler) ReplaceGrants(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.ReplaceGrantsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.grantService.ReplaceGrants(c.Request().Context(), userID, c.Param("id"), req.ModifiedProfiles); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, "Shared profiles updated successfully")
}
