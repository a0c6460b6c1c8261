package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/checkus/checkus-api/internal/middleware"
	"github.com/checkus/checkus-api/internal/models"
	"github.com/checkus/checkus-api/internal/service"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
	"github.com/checkus/checkus-api/pkg/response"
)

// GuardianHandler wires HTTP endpoints to the relationship registry.
type GuardianHandler struct {
	service *service.GuardianService
}

// NewGuardianHandler creates a new handler.
func NewGuardianHandler(svc *service.GuardianService) *GuardianHandler {
	return &GuardianHandler{service: svc}
}

// Create godoc
// @Summary Link a guardian to a student
// @Description Create a student-guardian relationship with a kind
// @Tags StudentGuardians
// @Accept json
// @Produce json
// @Param payload body models.GuardianRelationshipRequest true "Relationship payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student-guardians [post]
func (h *GuardianHandler) Create(c *gin.Context) {
	var req models.GuardianRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid relationship payload"))
		return
	}

	detail, err := h.service.Add(c.Request.Context(), middleware.CurrentClaims(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, detail)
}

// ListByStudent godoc
// @Summary List guardians of a student
// @Tags StudentGuardians
// @Produce json
// @Param studentId path string true "Student id"
// @Success 200 {object} response.Envelope
// @Router /student-guardians/student/{studentId} [get]
func (h *GuardianHandler) ListByStudent(c *gin.Context) {
	details, err := h.service.ListByStudent(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// ListByGuardian godoc
// @Summary List students of a guardian
// @Tags StudentGuardians
// @Produce json
// @Param guardianId path string true "Guardian id"
// @Success 200 {object} response.Envelope
// @Router /student-guardians/guardian/{guardianId} [get]
func (h *GuardianHandler) ListByGuardian(c *gin.Context) {
	details, err := h.service.ListByGuardian(c.Request.Context(), c.Param("guardianId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// Update godoc
// @Summary Change the relationship kind
// @Description The student and guardian ids identify the pair and cannot change
// @Tags StudentGuardians
// @Accept json
// @Produce json
// @Param payload body models.GuardianRelationshipRequest true "Relationship payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student-guardians [put]
func (h *GuardianHandler) Update(c *gin.Context) {
	var req models.GuardianRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid relationship payload"))
		return
	}

	detail, err := h.service.UpdateKind(c.Request.Context(), middleware.CurrentClaims(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// Delete godoc
// @Summary Unlink a guardian from a student
// @Tags StudentGuardians
// @Produce json
// @Param studentId path string true "Student id"
// @Param guardianId path string true "Guardian id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student-guardians/{studentId}/{guardianId} [delete]
func (h *GuardianHandler) Delete(c *gin.Context) {
	key := models.GuardianKey{
		StudentID:  c.Param("studentId"),
		GuardianID: c.Param("guardianId"),
	}
	if err := h.service.Remove(c.Request.Context(), middleware.CurrentClaims(c), key); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Download the guardian roster of a student
// @Tags StudentGuardians
// @Produce text/csv
// @Produce application/pdf
// @Param studentId path string true "Student id"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} byte
// @Router /student-guardians/student/{studentId}/export [get]
func (h *GuardianHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.ExportByStudent(c.Request.Context(), c.Param("studentId"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := "guardians." + format
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}
