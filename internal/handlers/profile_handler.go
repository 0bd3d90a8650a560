package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/konnect-app/backend/internal/models"
	"github.com/konnect-app/backend/internal/repositories"
	"github.com/konnect-app/backend/internal/services"
	"github.com/konnect-app/backend/pkg/payload"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileHandler handles HTTP requests for the user's own profile cards.
// Deleting a profile runs the full cascade through every connection that was
// granted it.
type ProfileHandler struct {
	recordRepository repositories.RecordRepository
	cascadeService   *services.CascadeService
	codec            *payload.Codec
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(recordRepo repositories.RecordRepository, cascade *services.CascadeService, codec *payload.Codec) *ProfileHandler {
	return &ProfileHandler{
		recordRepository: recordRepo,
		cascadeService:   cascade,
		codec:            codec,
	}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.POST("/profiles", h.CreateProfile)
	g.GET("/profiles", h.GetProfiles)
	g.GET("/profiles/:id", h.GetProfile)
	g.PUT("/profiles/:id", h.UpdateProfile)
	g.DELETE("/profiles/:id", h.DeleteProfile)
}

// CreateProfile creates a new profile card for the authenticated user
func (h *ProfileHandler) CreateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile := models.Profile{
		ProfileID:   primitive.NewObjectID().Hex(),
		ProfileName: req.ProfileName,
		MobileNo:    req.MobileNo,
		DateOfBirth: req.DateOfBirth,
		HomeAddress: req.HomeAddress,
		Email:       req.Email,
		Links:       req.Links,
		Work:        req.Work,
	}

	if err := h.recordRepository.PushProfile(c.Request().Context(), userID, profile); err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return respond(c, http.StatusCreated, h.codec, profile)
}

// GetProfiles returns all profile cards of the authenticated user
func (h *ProfileHandler) GetProfiles(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	profiles, err := h.recordRepository.GetProfiles(c.Request().Context(), userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return respond(c, http.StatusOK, h.codec, profiles)
}

// GetProfile returns a single profile card by its globally unique id
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profile, err := h.recordRepository.FindProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return respond(c, http.StatusOK, h.codec, profile)
}

// UpdateProfile replaces the content of one of the user's profile cards
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile := models.Profile{
		ProfileID:   c.Param("id"),
		ProfileName: req.ProfileName,
		MobileNo:    req.MobileNo,
		DateOfBirth: req.DateOfBirth,
		HomeAddress: req.HomeAddress,
		Email:       req.Email,
		Links:       req.Links,
		Work:        req.Work,
	}

	if err := h.recordRepository.SetProfile(c.Request().Context(), userID, profile); err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, "Profile edited successfully!")
}

// DeleteProfile deletes a profile card and purges it from every connection
// that held it
func (h *ProfileHandler) DeleteProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.cascadeService.DeleteProfile(c.Request().Context(), userID, c.Param("id")); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, "Profile deleted successfully")
}
