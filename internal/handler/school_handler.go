package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/checkus/checkus-api/internal/models"
	"github.com/checkus/checkus-api/internal/service"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
	"github.com/checkus/checkus-api/pkg/response"
)

// SchoolHandler wires HTTP endpoints to the school directory.
type SchoolHandler struct {
	service *service.SchoolService
}

// NewSchoolHandler creates a new handler.
func NewSchoolHandler(svc *service.SchoolService) *SchoolHandler {
	return &SchoolHandler{service: svc}
}

// List godoc
// @Summary List schools
// @Tags Schools
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schools [get]
func (h *SchoolHandler) List(c *gin.Context) {
	schools, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schools, nil)
}

// Get godoc
// @Summary Get a school
// @Tags Schools
// @Produce json
// @Param id path string true "School id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schools/{id} [get]
func (h *SchoolHandler) Get(c *gin.Context) {
	school, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, school, nil)
}

// Create godoc
// @Summary Register a school
// @Tags Schools
// @Accept json
// @Produce json
// @Param payload body models.SchoolRequest true "School payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schools [post]
func (h *SchoolHandler) Create(c *gin.Context) {
	var req models.SchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid school payload"))
		return
	}

	school, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, school)
}

// Update godoc
// @Summary Rename a school
// @Tags Schools
// @Accept json
// @Produce json
// @Param id path string true "School id"
// @Param payload body models.SchoolRequest true "School payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schools/{id} [put]
func (h *SchoolHandler) Update(c *gin.Context) {
	var req models.SchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid school payload"))
		return
	}

	school, err := h.service.Rename(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, school, nil)
}

// Delete godoc
// @Summary Delete a school
// @Tags Schools
// @Produce json
// @Param id path string true "School id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schools/{id} [delete]
func (h *SchoolHandler) Delete(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
