package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/application/catalog"
)

// StoreHandler handles store-related HTTP requests
type StoreHandler struct {
	BaseHandler
	storeService   *catalog.StoreService
	productService *catalog.ProductService
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(storeService *catalog.StoreService, productService *catalog.ProductService) *StoreHandler {
	return &StoreHandler{
		storeService:   storeService,
		productService: productService,
	}
}

// Create godoc
// @Summary      Open a store
// @Description  Create the authenticated vendor's store. A vendor may own exactly one store.
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateStoreRequest true "Store data"
// @Success      201 {object} APIResponse[catalog.StoreResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /create/store [post]
func (h *StoreHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req catalog.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	store, err := h.storeService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, store)
}

// Update godoc
// @Summary      Update the vendor's store
// @Description  Update name and description of the authenticated vendor's store
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        request body catalog.UpdateStoreRequest true "Store data"
// @Success      200 {object} APIResponse[catalog.StoreResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store [put]
func (h *StoreHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req catalog.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	store, err := h.storeService.Update(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// List godoc
// @Summary      List stores
// @Description  Get a paginated list of stores
// @Tags         stores
// @Produce      json
// @Param        search query string false "Search by name"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]catalog.StoreResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /stores [get]
func (h *StoreHandler) List(c *gin.Context) {
	var filter catalog.StoreListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	stores, total, err := h.storeService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	h.SuccessWithMeta(c, stores, total, page, pageSize)
}

// GetByID godoc
// @Summary      Get a store
// @Description  Get a single store by its ID
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.StoreResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /store/{id} [get]
func (h *StoreHandler) GetByID(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	store, err := h.storeService.GetByID(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// ListProducts godoc
// @Summary      List a store's products
// @Description  Get a paginated list of products listed by a store
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Param        search query string false "Search by name"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /store/{id}/products [get]
func (h *StoreHandler) ListProducts(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var filter catalog.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	products, total, err := h.productService.ListByStore(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	h.SuccessWithMeta(c, products, total, page, pageSize)
}
