package notification

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/handler"
	"github.com/sportivai/federation-api/internal/middleware"
	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/service/notification"
	"github.com/sportivai/federation-api/pkg/errors"
)

type Handler struct {
	service notification.Service
}

func NewHandler(service notification.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/:id/read", h.MarkRead)
		notifications.POST("/read-all", h.MarkAllRead)
	}
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	notifications, err := h.service.List(c.Request.Context(), actor.UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, notifications)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	count, err := h.service.CountUnread(c.Request.Context(), actor.UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, gin.H{"unread": count})
}

func (h *Handler) MarkRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, errors.BadRequest("invalid notification ID", err))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), actor.UserID, id); err != nil {
		handler.Error(c, err)
		return
	}
	handler.NoContent(c)
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.service.MarkAllRead(c.Request.Context(), actor.UserID); err != nil {
		handler.Error(c, err)
		return
	}
	handler.NoContent(c)
}

func (h *Handler) actor(c *gin.Context) (*model.Principal, bool) {
	actor, ok := middleware.PrincipalFrom(c)
	if !ok {
		handler.Error(c, errors.Forbidden())
		return nil, false
	}
	return actor, true
}
