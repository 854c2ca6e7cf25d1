package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService  service.OrderService
	exportService service.ExportService
}

func NewOrderHandler(orderService service.OrderService, exportService service.ExportService) *OrderHandler {
	return &OrderHandler{orderService: orderService, exportService: exportService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders")
	{
		orders.GET("/export", middleware.RequireRole(model.RoleAdmin), h.Export)
		orders.GET("", middleware.RequireAuth(), h.List)
		orders.POST("", middleware.RequireAuth(), h.Create)
		orders.GET("/:id", middleware.RequireAuth(), h.GetByID)
		orders.PATCH("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateStatus)
	}
}

// List handles GET /api/orders. Regular users get their own orders; admins can
// pass ?all=1 to see everything.
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        all  query     int  false  "Admins only: list all orders"
// @Success      200  {object}  response.Response{data=[]model.Order}
// @Failure      401  {object}  response.Response
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	role, _ := middleware.RoleFromContext(c)
	if c.Query("all") == "1" && role == model.RoleAdmin {
		orders, err := h.orderService.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list orders"))
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, orders))
		return
	}

	orders, err := h.orderService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list orders"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, orders))
}

// Create handles POST /api/orders
// @Summary      Place an order
// @Description  Creates an order from the submitted line items. The total is recomputed server-side.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateOrderRequest  true  "Order payload"
// @Success      201      {object}  response.Response{data=model.Order}
// @Failure      400      {object}  response.Response
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// GetByID handles GET /api/orders/:id. Owners and admins only.
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, _ := middleware.UserIDFromContext(c)
	role, _ := middleware.RoleFromContext(c)

	order, err := h.orderService.GetByID(c.Request.Context(), id, userID, role == model.RoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied"))
		default:
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Order not found"))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// UpdateStatus handles PATCH /api/orders/:id (admin only)
// @Summary      Update order status
// @Description  Transitions an order to a new status and notifies the customer by email and SMS
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                               true  "Order ID"
// @Param        payload  body      service.UpdateOrderStatusRequest  true  "New status"
// @Success      200      {object}  response.Response{data=model.Order}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/orders/{id} [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// Export handles GET /api/orders/export (admin only). Streams a CSV or PDF
// sales report as a download, or returns the aggregation as JSON.
// @Summary      Export sales report
// @Description  Aggregates sold product quantities and revenue, returned as csv, pdf or json
// @Tags         orders
// @Produce      json
// @Produce      text/csv
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        format  query  string  false  "csv, pdf or json (default csv)"
// @Param        top     query  int     false  "Row limit, 1..1000 (default 50)"
// @Param        sort    query  string  false  "quantity or revenue (default quantity)"
// @Success      200
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/orders/export [get]
func (h *OrderHandler) Export(c *gin.Context) {
	top := 0
	if raw := c.Query("top"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			top = n
		}
	}

	result, err := h.exportService.Export(c.Request.Context(), service.ExportParams{
		Format: c.Query("format"),
		Top:    top,
		SortBy: c.Query("sort"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to generate export"))
		return
	}

	if result.Format == service.ExportFormatJSON {
		c.JSON(http.StatusOK, result.JSON)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Body)
}
