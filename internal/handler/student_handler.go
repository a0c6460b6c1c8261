package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/checkus/checkus-api/internal/models"
	"github.com/checkus/checkus-api/internal/service"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
	"github.com/checkus/checkus-api/pkg/response"
)

// StudentHandler wires HTTP endpoints to the student profile service.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// List godoc
// @Summary List student profiles
// @Tags Students
// @Produce json
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	h.search(c, models.StudentFilter{})
}

// Search godoc
// @Summary Search student profiles
// @Tags Students
// @Produce json
// @Param school_id query string false "School id"
// @Param grade query int false "Grade"
// @Param name query string false "Name substring"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param sort_by query string false "Sort column"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /students/search [get]
func (h *StudentHandler) Search(c *gin.Context) {
	filter := models.StudentFilter{
		SchoolID: c.Query("school_id"),
		Name:     c.Query("name"),
	}
	if raw := c.Query("grade"); raw != "" {
		grade, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "grade must be a number"))
			return
		}
		filter.Grade = &grade
	}
	h.search(c, filter)
}

func (h *StudentHandler) search(c *gin.Context, filter models.StudentFilter) {
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	filter.SortBy = c.Query("sort_by")
	filter.SortOrder = c.Query("sort_order")

	details, pagination, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, pagination)
}

// Get godoc
// @Summary Get a student profile
// @Tags Students
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{userId} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Create a student profile
// @Tags Students
// @Accept json
// @Produce json
// @Param userId path string true "User id"
// @Param payload body models.StudentProfileRequest true "Profile payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{userId} [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req models.StudentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student profile payload"))
		return
	}

	detail, err := h.service.Create(c.Request.Context(), c.Param("userId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// Update godoc
// @Summary Update a student profile
// @Tags Students
// @Accept json
// @Produce json
// @Param userId path string true "User id"
// @Param payload body models.StudentProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{userId} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req models.StudentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student profile payload"))
		return
	}

	detail, err := h.service.Update(c.Request.Context(), c.Param("userId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Delete godoc
// @Summary Delete a student profile
// @Tags Students
// @Produce json
// @Param userId path string true "User id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{userId} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("userId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListBySchool godoc
// @Summary List students of a school
// @Tags Students
// @Produce json
// @Param schoolId path string true "School id"
// @Param grade path int false "Grade"
// @Success 200 {object} response.Envelope
// @Router /students/school/{schoolId} [get]
func (h *StudentHandler) ListBySchool(c *gin.Context) {
	var grade *int
	if raw := c.Param("grade"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "grade must be a number"))
			return
		}
		grade = &value
	}

	details, err := h.service.ListBySchool(c.Request.Context(), c.Param("schoolId"), grade)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}
