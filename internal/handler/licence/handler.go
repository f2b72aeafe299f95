package licence

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/handler"
	"github.com/sportivai/federation-api/internal/middleware"
	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/service/licence"
	"github.com/sportivai/federation-api/pkg/errors"
)

type Handler struct {
	service *licence.Service
}

func NewHandler(service *licence.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	licences := r.Group("/licences")
	{
		licences.POST("", h.Create)
		licences.GET("", h.List)
		licences.GET("/:id", h.Get)
		licences.PATCH("/:id", h.Update)
		licences.DELETE("/:id", h.Delete)
		licences.POST("/:id/submit", h.Submit)
		licences.POST("/:id/validate", h.Validate)
		licences.POST("/:id/reject", h.Reject)
	}
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := middleware.PrincipalFrom(c)
	if !ok {
		handler.Error(c, errors.Forbidden())
		return
	}

	var req model.CreateLicenceRequest
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

	var filters model.LicenceFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		handler.Error(c, errors.BadRequest("invalid filters", err))
		return
	}

	licences, err := h.service.List(c.Request.Context(), actor, &filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, licences)
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

func (h *Handler) Update(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	var req model.UpdateLicenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.BadRequest("invalid request body", err))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, updated)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		handler.Error(c, err)
		return
	}
	handler.NoContent(c)
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

func (h *Handler) Validate(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	updated, err := h.service.Validate(c.Request.Context(), actor, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, updated)
}

func (h *Handler) Reject(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	var req model.RejectLicenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.BadRequest("rejection reason is required", err))
		return
	}

	updated, err := h.service.Reject(c.Request.Context(), actor, id, req.Reason)
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
		handler.Error(c, errors.BadRequest("invalid licence ID", err))
		return nil, uuid.Nil, false
	}
	return actor, id, true
}
