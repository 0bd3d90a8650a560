package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/konnect-app/backend/internal/models"
	"github.com/konnect-app/backend/internal/services"
	"github.com/konnect-app/backend/pkg/payload"
	"github.com/labstack/echo/v4"
)

// RequestHandler handles the connection-request lifecycle: device batch
// intake, listing pending requesters, accept and decline.
type RequestHandler struct {
	intakeService    *services.IntakeService
	lifecycleService *services.LifecycleService
	viewService      *services.ViewService
	codec            *payload.Codec
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(intake *services.IntakeService, lifecycle *services.LifecycleService, views *services.ViewService, codec *payload.Codec) *RequestHandler {
	return &RequestHandler{
		intakeService:    intake,
		lifecycleService: lifecycle,
		viewService:      views,
		codec:            codec,
	}
}

// RegisterRequestRoutes registers request-related routes
func (h *RequestHandler) RegisterRequestRoutes(g *echo.Group) {
	g.POST("/requests/store", h.StoreRequests)
	g.GET("/requests", h.GetPendingRequesters)
	g.POST("/requests/accept", h.AcceptRequest)
	g.POST("/requests/decline", h.DeclineRequest)
}

// StoreRequests merges a device sync batch of candidate requester ids into
// the user's pending requests
func (h *RequestHandler) StoreRequests(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.StoreRequestsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.intakeService.MergeRequests(c.Request().Context(), userID, req.RequesterIDs); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, "Requests stored in database successfully!")
}

// GetPendingRequesters returns the public profiles of everyone with a pending
// request to the user
func (h *RequestHandler) GetPendingRequesters(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	profiles, err := h.viewService.RequesterProfiles(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err)
	}

	return respond(c, http.StatusOK, h.codec, profiles)
}

// AcceptRequest converts a pending request into a connection sharing the
// given profiles
func (h *RequestHandler) AcceptRequest(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.AcceptRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.lifecycleService.Accept(c.Request().Context(), userID, req.RequesterID, req.ProfileIDs); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, "New Connection saved successfully")
}

// DeclineRequest removes a pending request
func (h *RequestHandler) DeclineRequest(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.DeclineRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.lifecycleService.Decline(c.Request().Context(), userID, req.RequesterID); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, "Succesfully deleted request")
}
