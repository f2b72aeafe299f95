package club

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/handler"
	"github.com/sportivai/federation-api/internal/middleware"
	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/service/club"
	"github.com/sportivai/federation-api/pkg/errors"
)

type Handler struct {
	service *club.Service
}

func NewHandler(service *club.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clubs := r.Group("/clubs")
	{
		clubs.GET("", h.List)
		clubs.GET("/:id", h.Get)
		clubs.GET("/:id/adherents", h.ListAdherents)
		clubs.POST("/:id/adherents", h.CreateAdherent)
	}
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := middleware.PrincipalFrom(c)
	if !ok {
		handler.Error(c, errors.Forbidden())
		return
	}

	clubs, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, clubs)
}

func (h *Handler) Get(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	found, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, found)
}

func (h *Handler) ListAdherents(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	adherents, err := h.service.ListAdherents(c.Request.Context(), actor, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, adherents)
}

func (h *Handler) CreateAdherent(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	var req model.CreateAdherentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.BadRequest("invalid request body", err))
		return
	}

	created, err := h.service.CreateAdherent(c.Request.Context(), actor, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, created)
}

func (h *Handler) actorAndID(c *gin.Context) (*model.Principal, uuid.UUID, bool) {
	actor, ok := middleware.PrincipalFrom(c)
	if !ok {
		handler.Error(c, errors.Forbidden())
		return nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, errors.BadRequest("invalid club ID", err))
		return nil, uuid.Nil, false
	}
	return actor, id, true
}
