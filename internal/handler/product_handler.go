package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/pkg/pagination"
	"storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService service.ProductService
	commentService service.CommentService
}

func NewProductHandler(productService service.ProductService, commentService service.CommentService) *ProductHandler {
	return &ProductHandler{productService: productService, commentService: commentService}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products")
	{
		products.GET("", h.List)
		products.GET("/:id", h.GetByID)
		products.POST("", middleware.RequireRole(model.RoleAdmin), h.Create)
		products.PATCH("/:id", middleware.RequireRole(model.RoleAdmin), h.Update)
		products.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)

		products.GET("/:id/comments", h.ListComments)
		products.POST("/:id/comments", middleware.OptionalAuth(), h.CreateComment)
		products.DELETE("/:id/comments/:commentId", middleware.RequireRole(model.RoleAdmin), h.DeleteComment)
	}
}

// parseIDParam reads a positive integer path parameter. On failure it writes
// the 400 response and returns false.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}

// List handles GET /api/products
// @Summary      List products
// @Description  Returns a paginated product catalog, optionally filtered by a search term
// @Tags         products
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Search by name"
// @Success      200     {object}  response.Response{data=[]model.Product}
// @Router       /api/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	search := c.Query("search")

	products, total, err := h.productService.List(c.Request.Context(), params.Page, params.Limit, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list products"))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, products, params.Page, params.Limit, total))
}

// GetByID handles GET /api/products/:id
// @Summary      Get product detail
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// Create handles POST /api/products (admin only)
// @Summary      Create product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateProductRequest  true  "Product payload"
// @Success      201      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// Update handles PATCH /api/products/:id (admin only). Only the fields present
// in the body are changed.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		status := http.StatusBadRequest
		if err.Error() == "product not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// Delete handles DELETE /api/products/:id (admin only)
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Product deleted"))
}

// ListComments handles GET /api/products/:id/comments
// @Summary      List product comments
// @Description  Returns the latest 50 comments for a product, newest first
// @Tags         comments
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.CommentListResponse}
// @Router       /api/products/{id}/comments [get]
func (h *ProductHandler) ListComments(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.commentService.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list comments"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, list))
}

type createCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateComment handles POST /api/products/:id/comments. Anonymous visitors
// may comment; authenticated callers get their username attached.
func (h *ProductHandler) CreateComment(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	userName := c.GetString(middleware.CtxUserName)

	comment, err := h.commentService.Create(c.Request.Context(), productID, userName, req.Content)
	if err != nil {
		status := http.StatusBadRequest
		if err.Error() == "product not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, comment))
}

// DeleteComment handles DELETE /api/products/:id/comments/:commentId (admin only)
func (h *ProductHandler) DeleteComment(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), productID, commentID); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Comment deleted"))
}
