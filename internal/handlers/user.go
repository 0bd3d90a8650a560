package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/konnect-app/backend/internal/models"
	"github.com/konnect-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles the authenticated user's own public profile
type UserHandler struct {
	recordRepository repositories.RecordRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(recordRepo repositories.RecordRepository) *UserHandler {
	return &UserHandler{recordRepository: recordRepo}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMe)
	g.PUT("/users/me", h.UpdateMe)
}

// GetMe returns the authenticated user's public profile
func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	record, err := h.recordRepository.GetUser(c.Request().Context(), userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, record.Public())
}

// UpdateMe updates the authenticated user's public profile fields
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.UpdatePublicProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.recordRepository.GetUser(c.Request().Context(), userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pub := record.Public()
	if req.FirstName != "" {
		pub.FirstName = req.FirstName
	}
	if req.LastName != "" {
		pub.LastName = req.LastName
	}
	if req.Bio != "" {
		pub.Bio = req.Bio
	}
	if req.ProfilePic != "" {
		pub.ProfilePic = req.ProfilePic
	}

	if err := h.recordRepository.SetPublicFields(c.Request().Context(), userID, pub); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, pub)
}
