package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mock_backend/internal/middleware"
	"mock_backend/internal/model"
	"mock_backend/internal/service"
)

// ResourceHandler serves the generic collection CRUD routes
type ResourceHandler struct {
	service service.ResourceService
	logger  *zap.Logger
}

// NewResourceHandler creates a new ResourceHandler
func NewResourceHandler(s service.ResourceService, logger *zap.Logger) *ResourceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceHandler{service: s, logger: logger}
}

func (h *ResourceHandler) Dump(c *gin.Context) {
	snap, err := h.service.Dump(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "read database")
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *ResourceHandler) List(c *gin.Context) {
	filters := parseListFilters(c.Request.URL.Query())

	records, err := h.service.List(c.Request.Context(), c.Param("collection"), filters)
	if err != nil {
		h.respondError(c, err, "list records")
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *ResourceHandler) Get(c *gin.Context) {
	rec, err := h.service.Get(c.Request.Context(), c.Param("collection"), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "retrieve record")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *ResourceHandler) Create(c *gin.Context) {
	rec, ok := bindRecord(c)
	if !ok {
		return
	}

	created, err := h.service.Create(c.Request.Context(), c.Param("collection"), rec)
	if err != nil {
		h.respondError(c, err, "create record")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ResourceHandler) Replace(c *gin.Context) {
	rec, ok := bindRecord(c)
	if !ok {
		return
	}

	updated, err := h.service.Replace(c.Request.Context(), c.Param("collection"), c.Param("id"), rec)
	if err != nil {
		h.respondError(c, err, "update record")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ResourceHandler) Patch(c *gin.Context) {
	fields, ok := bindRecord(c)
	if !ok {
		return
	}

	updated, err := h.service.Patch(c.Request.Context(), c.Param("collection"), c.Param("id"), fields)
	if err != nil {
		h.respondError(c, err, "update record")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ResourceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("collection"), c.Param("id")); err != nil {
		h.respondError(c, err, "delete record")
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// --- Nested routes ---

func (h *ResourceHandler) ListNested(c *gin.Context) {
	filters := parseListFilters(c.Request.URL.Query())

	records, err := h.service.ListNested(c.Request.Context(), c.Param("collection"), c.Param("id"), c.Param("child"), filters)
	if err != nil {
		h.respondError(c, err, "list records")
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *ResourceHandler) CreateNested(c *gin.Context) {
	rec, ok := bindRecord(c)
	if !ok {
		return
	}

	created, err := h.service.CreateNested(c.Request.Context(), c.Param("collection"), c.Param("id"), c.Param("child"), rec)
	if err != nil {
		h.respondError(c, err, "create record")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// bindRecord reads the body as a JSON object, writing 400 on failure
func bindRecord(c *gin.Context) (model.Record, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return nil, false
	}
	rec, err := model.DecodeRecord(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return nil, false
	}
	return rec, true
}

func (h *ResourceHandler) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{})
	case errors.Is(err, service.ErrDuplicateID):
		c.JSON(http.StatusConflict, gin.H{"error": service.ErrDuplicateID.Error()})
	default:
		_ = c.Error(err)
		h.logger.Error("failed to "+action,
			zap.String("collection", c.Param("collection")),
			zap.String("id", c.Param("id")),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// RegisterResourceRoutes registers the collection routes at the router root
func (h *ResourceHandler) RegisterResourceRoutes(r gin.IRouter, readOnly bool) {
	resourceRoutes := r.Group("/")
	if readOnly {
		resourceRoutes.Use(middleware.ReadOnlyMiddleware())
	}
	{
		resourceRoutes.GET("/db", h.Dump)

		resourceRoutes.GET("/:collection", h.List)
		resourceRoutes.POST("/:collection", h.Create)
		resourceRoutes.GET("/:collection/:id", h.Get)
		resourceRoutes.PUT("/:collection/:id", h.Replace)
		resourceRoutes.PATCH("/:collection/:id", h.Patch)
		resourceRoutes.DELETE("/:collection/:id", h.Delete)

		resourceRoutes.GET("/:collection/:id/:child", h.ListNested)
		resourceRoutes.POST("/:collection/:id/:child", h.CreateNested)
	}
}
