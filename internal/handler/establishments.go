package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AmpolStack/AccessControlPlatform/internal/dto"
	"github.com/AmpolStack/AccessControlPlatform/internal/middleware"
	"github.com/AmpolStack/AccessControlPlatform/internal/service"
)

type EstablishmentHandler struct{ svc service.EstablishmentService }

func NewEstablishmentHandler(svc service.EstablishmentService) *EstablishmentHandler {
	return &EstablishmentHandler{svc: svc}
}

// Create godoc
// @Summary Creates an establishment, optionally with its admin account
// @Tags establishments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateEstablishmentRequest true "Establishment data"
// @Success 201 {object} dto.DataResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/establishments [post]
func (h *EstablishmentHandler) Create(c *gin.Context) {
	var req dto.CreateEstablishmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OKData("establishment created", resp))
}

// Get godoc
// @Summary Fetches one establishment
// @Tags establishments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Establishment ID"
// @Success 200 {object} dto.DataResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/establishments/{id} [get]
func (h *EstablishmentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKData("establishment found", resp))
}

// List godoc
// @Summary Lists establishments
// @Tags establishments
// @Produce json
// @Security BearerAuth
// @Param include_inactive query bool false "Include deactivated establishments"
// @Success 200 {object} dto.DataResponse
// @Router /v1/establishments [get]
func (h *EstablishmentHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	resp, err := h.svc.List(c.Request.Context(), includeInactive)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKData("establishments listed", resp))
}

// Update godoc
// @Summary Applies field-level changes to an establishment
// @Tags establishments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Establishment ID"
// @Param body body dto.UpdateEstablishmentRequest true "Fields to change"
// @Success 200 {object} dto.DataResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/establishments/{id} [put]
func (h *EstablishmentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateEstablishmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKData("establishment updated", resp))
}

// Deactivate godoc
// @Summary Deactivates an establishment
// @Tags establishments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Establishment ID"
// @Success 200 {object} dto.StatusResponse
// @Router /v1/establishments/{id} [delete]
func (h *EstablishmentHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK("establishment deactivated"))
}

// Reactivate godoc
// @Summary Reactivates an establishment
// @Tags establishments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Establishment ID"
// @Success 200 {object} dto.StatusResponse
// @Router /v1/establishments/{id}/reactivate [post]
func (h *EstablishmentHandler) Reactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK("establishment reactivated"))
}

// Open godoc
// @Summary Opens the establishment for the day
// @Tags establishments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Establishment ID"
// @Success 201 {object} dto.DataResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/establishments/{id}/open [post]
func (h *EstablishmentHandler) Open(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Open(c.Request.Context(), id, claims.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OKData("establishment opened", resp))
}

// Close godoc
// @Summary Closes the establishment's current opening
// @Tags establishments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Establishment ID"
// @Success 200 {object} dto.DataResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/establishments/{id}/close [post]
func (h *EstablishmentHandler) Close(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Close(c.Request.Context(), id, claims.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKData("establishment closed", resp))
}

// ListOpenings godoc
// @Summary Lists the opening history of an establishment
// @Tags establishments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Establishment ID"
// @Success 200 {object} dto.DataResponse
// @Router /v1/establishments/{id}/openings [get]
func (h *EstablishmentHandler) ListOpenings(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListOpenings(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKData("openings listed", resp))
}
