package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AmpolStack/AccessControlPlatform/internal/dto"
	"github.com/AmpolStack/AccessControlPlatform/internal/service"
)

type AccessHandler struct{ svc service.AccessService }

func NewAccessHandler(svc service.AccessService) *AccessHandler { return &AccessHandler{svc: svc} }

// RegisterEntry godoc
// @Summary Registers an entry for a user at an establishment
// @Tags access
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegisterEntryRequest true "Entry data"
// @Success 201 {object} dto.StatusResponse
// @Failure 409 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/access/entry [post]
func (h *AccessHandler) RegisterEntry(c *gin.Context) {
	var req dto.RegisterEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	msg, err := h.svc.RegisterEntry(c.Request.Context(), req.UserID, req.EstablishmentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OK(msg))
}

// RegisterEntryByDocument godoc
// @Summary Registers an entry identified by identity document
// @Tags access
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.EntryByDocumentRequest true "Entry data"
// @Success 201 {object} dto.StatusResponse
// @Failure 409 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/access/entry/by-document [post]
func (h *AccessHandler) RegisterEntryByDocument(c *gin.Context) {
	var req dto.EntryByDocumentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	msg, err := h.svc.RegisterEntryByDocument(c.Request.Context(), req.IdentityDocument, req.EstablishmentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OK(msg))
}

// RegisterExit godoc
// @Summary Registers an exit for a user's open session
// @Tags access
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegisterExitRequest true "Exit data"
// @Success 200 {object} dto.StatusResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/access/exit [post]
func (h *AccessHandler) RegisterExit(c *gin.Context) {
	var req dto.RegisterExitRequest
	if !bindAndValidate(c, &req) {
		return
	}
	msg, err := h.svc.RegisterExit(c.Request.Context(), req.UserID, req.EstablishmentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(msg))
}
