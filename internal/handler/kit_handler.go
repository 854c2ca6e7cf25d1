package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/pkg/pagination"
	"storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

type KitHandler struct {
	kitService service.KitService
}

func NewKitHandler(kitService service.KitService) *KitHandler {
	return &KitHandler{kitService: kitService}
}

func (h *KitHandler) RegisterRoutes(router *gin.RouterGroup) {
	kits := router.Group("/api/kits")
	{
		kits.GET("", h.List)
		kits.GET("/:id", h.GetByID)
		kits.POST("", middleware.RequireRole(model.RoleAdmin), h.Create)
		kits.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.Update)
		kits.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
	}
}

// List handles GET /api/kits
// @Summary      List kits
// @Description  Returns a paginated list of kits with their component products
// @Tags         kits
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {object}  response.Response{data=[]model.Kit}
// @Router       /api/kits [get]
func (h *KitHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	kits, total, err := h.kitService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list kits"))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, kits, params.Page, params.Limit, total))
}

// GetByID handles GET /api/kits/:id
func (h *KitHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	kit, err := h.kitService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, kit))
}

// Create handles POST /api/kits (admin only)
// @Summary      Create kit
// @Tags         kits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SaveKitRequest  true  "Kit payload"
// @Success      201      {object}  response.Response{data=model.Kit}
// @Failure      400      {object}  response.Response
// @Router       /api/kits [post]
func (h *KitHandler) Create(c *gin.Context) {
	var req service.SaveKitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	kit, err := h.kitService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, kit))
}

// Update handles PUT /api/kits/:id (admin only). The item list in the body
// replaces the kit's items wholesale.
func (h *KitHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.SaveKitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	kit, err := h.kitService.Update(c.Request.Context(), id, req)
	if err != nil {
		status := http.StatusBadRequest
		if err.Error() == "kit not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, kit))
}

// Delete handles DELETE /api/kits/:id (admin only)
func (h *KitHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.kitService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Kit deleted"))
}
