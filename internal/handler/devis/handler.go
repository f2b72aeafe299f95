package devis

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/handler"
	"github.com/sportivai/federation-api/internal/middleware"
	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/service/devis"
	"github.com/sportivai/federation-api/pkg/errors"
)

type Handler struct {
	service *devis.Service
}

func NewHandler(service *devis.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes the quote form endpoints: no account needed
// to ask for pricing.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/devis", h.Create)
	r.GET("/offers", h.Offers)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/devis")
	{
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.PATCH("/:id/status", h.SetStatus)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDevisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.BadRequest("invalid request body", err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, created)
}

func (h *Handler) Offers(c *gin.Context) {
	offers, err := h.service.Offers(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, offers)
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := middleware.PrincipalFrom(c)
	if !ok {
		handler.Error(c, errors.Forbidden())
		return
	}

	all, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, all)
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

func (h *Handler) SetStatus(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	var req model.UpdateDevisStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.BadRequest("invalid request body", err))
		return
	}

	updated, err := h.service.SetStatus(c.Request.Context(), actor, id, req.Status)
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
		handler.Error(c, errors.BadRequest("invalid devis ID", err))
		return nil, uuid.Nil, false
	}
	return actor, id, true
}
