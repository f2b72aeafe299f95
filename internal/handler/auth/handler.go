package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/sportivai/federation-api/internal/handler"
	"github.com/sportivai/federation-api/internal/middleware"
	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/service/auth"
	"github.com/sportivai/federation-api/pkg/errors"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
	r.POST("/auth/register", h.Register)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/invitations", h.Invite)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.BadRequest("invalid request body", err))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, resp)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.BadRequest("invalid request body", err))
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, resp)
}

func (h *Handler) Invite(c *gin.Context) {
	actor, ok := middleware.PrincipalFrom(c)
	if !ok {
		handler.Error(c, errors.Forbidden())
		return
	}

	var req model.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.BadRequest("invalid request body", err))
		return
	}

	invitation, err := h.service.Invite(c.Request.Context(), actor, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, invitation)
}
