package demande

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/handler"
	"github.com/sportivai/federation-api/internal/middleware"
	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/service/demande"
	"github.com/sportivai/federation-api/pkg/errors"
)

type Handler struct {
	service *demande.Service
}

func NewHandler(service *demande.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	demandes := r.Group("/demandes")
	{
		demandes.POST("", h.Create)
		demandes.GET("", h.List)
		demandes.GET("/:id", h.Get)
		demandes.POST("/:id/submit", h.Submit)
		demandes.PATCH("/:id/status", h.SetStatus)
	}
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := middleware.PrincipalFrom(c)
	if !ok {
		handler.Error(c, errors.Forbidden())
		return
	}

	var req model.CreateDemandeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.BadRequest("invalid request body", err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, created)
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := middleware.PrincipalFrom(c)
	if !ok {
		handler.Error(c, errors.Forbidden())
		return
	}

	demandes, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, demandes)
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

func (h *Handler) Submit(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	updated, err := h.service.Submit(c.Request.Context(), actor, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, updated)
}

func (h *Handler) SetStatus(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	var req model.UpdateDemandeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.BadRequest("invalid request body", err))
		return
	}

	updated, err := h.service.SetStatus(c.Request.Context(), actor, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, updated)
}

func (h *Handler) actorAndID(c *gin.Context) (*model.Principal, uuid.UUID, bool) {
	actor, ok := middleware.PrincipalFrom(c)
	if !ok {
		handler.Error(c, errors.Forbidden())
		return nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, errors.BadRequest("invalid demande ID", err))
		return nil, uuid.Nil, false
	}
	return actor, id, true
}
