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

// UserHandler wires HTTP endpoints to identity maintenance.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// Get godoc
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userId} [get]
func (h *UserHandler) Get(c *gin.Context) {
	info, err := h.service.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// UpdateOwnDiscordID godoc
// @Summary Update own discord id
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body models.DiscordIDUpdateRequest true "Discord id payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /users/me/discord-id [put]
func (h *UserHandler) UpdateOwnDiscordID(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	h.updateDiscordID(c, claims.UserID)
}

// UpdateDiscordID godoc
// @Summary Update a user's discord id
// @Tags Users
// @Accept json
// @Produce json
// @Param userId path string true "User id"
// @Param payload body models.DiscordIDUpdateRequest true "Discord id payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userId}/discord-id [put]
func (h *UserHandler) UpdateDiscordID(c *gin.Context) {
	h.updateDiscordID(c, c.Param("userId"))
}

func (h *UserHandler) updateDiscordID(c *gin.Context, userID string) {
	var req models.DiscordIDUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid discord id payload"))
		return
	}

	info, err := h.service.UpdateDiscordID(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// UpdateRoles godoc
// @Summary Replace a user's role set
// @Description Grants take effect on tokens issued after the change
// @Tags Users
// @Accept json
// @Produce json
// @Param userId path string true "User id"
// @Param payload body models.RoleUpdateRequest true "Role payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userId}/roles [put]
func (h *UserHandler) UpdateRoles(c *gin.Context) {
	var req models.RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid role payload"))
		return
	}

	info, err := h.service.UpdateRoles(c.Request.Context(), middleware.CurrentClaims(c), c.Param("userId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}
