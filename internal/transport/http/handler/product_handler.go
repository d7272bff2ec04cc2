package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory-api/internal/domain"
	"inventory-api/internal/service"
	mdw "inventory-api/internal/transport/http/middleware"
	"inventory-api/internal/transport/http/response"
)

type ProductHandler struct {
	svc *service.ProductService
	dev bool
}

func NewProductHandler(svc *service.ProductService, dev bool) *ProductHandler {
	return &ProductHandler{svc: svc, dev: dev}
}

// scope admin 不限归属，user/manager 只看自己的
func (h *ProductHandler) scope(c *gin.Context) string {
	return service.Scope(c.GetString(mdw.KeyRole), c.GetString(mdw.KeyUserID))
}

type createProductReq struct {
	Name          string   `json:"name" binding:"required,max=191"`
	Description   string   `json:"description" binding:"omitempty,max=1000"`
	SKU           string   `json:"sku" binding:"required,max=64"`
	Category      string   `json:"category" binding:"omitempty,max=64"`
	Price         float64  `json:"price" binding:"gte=0"`
	Quantity      int      `json:"quantity" binding:"gte=0"`
	MinStockLevel *int     `json:"minStockLevel" binding:"omitempty,gte=0"`
	Images        []string `json:"images"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var in createProductReq
	if err := c.ShouldBindJSON(&in); err != nil {
		bindFail(c, err)
		return
	}
	p, err := h.svc.CreateProduct(c.Request.Context(), c.GetString(mdw.KeyUserID), service.CreateProductInput{
		Name:          in.Name,
		Description:   in.Description,
		SKU:           in.SKU,
		Category:      in.Category,
		Price:         in.Price,
		Quantity:      in.Quantity,
		MinStockLevel: in.MinStockLevel,
		Images:        in.Images,
	})
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusCreated, response.OK("product created", p))
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.svc.GetProductByID(c.Request.Context(), c.Param("id"), h.scope(c))
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("ok", p))
}

type updateProductReq struct {
	Name          *string  `json:"name" binding:"omitempty,max=191"`
	Description   *string  `json:"description" binding:"omitempty,max=1000"`
	SKU           *string  `json:"sku" binding:"omitempty,max=64"`
	Category      *string  `json:"category" binding:"omitempty,max=64"`
	Price         *float64 `json:"price" binding:"omitempty,gte=0"`
	Quantity      *int     `json:"quantity" binding:"omitempty,gte=0"`
	MinStockLevel *int     `json:"minStockLevel" binding:"omitempty,gte=0"`
	Images        []string `json:"images"`
}

func (h *ProductHandler) Update(c *gin.Context) {
	var in updateProductReq
	if err := c.ShouldBindJSON(&in); err != nil {
		bindFail(c, err)
		return
	}
	p, err := h.svc.UpdateProduct(c.Request.Context(), c.Param("id"), h.scope(c), service.UpdateProductInput{
		Name:          in.Name,
		Description:   in.Description,
		SKU:           in.SKU,
		Category:      in.Category,
		Price:         in.Price,
		Quantity:      in.Quantity,
		MinStockLevel: in.MinStockLevel,
		Images:        in.Images,
	})
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("product updated", p))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	changed, err := h.svc.DeleteProduct(c.Request.Context(), c.Param("id"), h.scope(c))
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("product deleted", gin.H{"deleted": changed}))
}

type updateStockReq struct {
	Quantity int `json:"quantity"`
}

func (h *ProductHandler) UpdateStock(c *gin.Context) {
	var in updateStockReq
	if err := c.ShouldBindJSON(&in); err != nil {
		bindFail(c, err)
		return
	}
	p, err := h.svc.UpdateStock(c.Request.Context(), c.Param("id"), in.Quantity, h.scope(c))
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("stock updated", p))
}

type adjustStockReq struct {
	Delta int `json:"delta"`
}

func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var in adjustStockReq
	if err := c.ShouldBindJSON(&in); err != nil {
		bindFail(c, err)
		return
	}
	p, err := h.svc.AdjustStock(c.Request.Context(), c.Param("id"), in.Delta, h.scope(c))
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("stock adjusted", p))
}

type bulkStockReq struct {
	Items []service.BulkStockItem `json:"items" binding:"required,min=1,dive"`
}

// BulkStock 顺序执行；失败即停，已生效的更新不回滚
func (h *ProductHandler) BulkStock(c *gin.Context) {
	var in bulkStockReq
	if err := c.ShouldBindJSON(&in); err != nil {
		bindFail(c, err)
		return
	}
	res, err := h.svc.BulkAdjustStock(c.Request.Context(), h.scope(c), in.Items)
	if err != nil {
		if se, ok := service.AsError(err); ok {
			c.JSON(se.Status, response.Body{
				Success: false,
				Message: se.Msg,
				Data:    res, // 部分成功的进度
			})
			return
		}
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("stock updated", res))
}

type searchQuery struct {
	Search    string   `form:"search"`
	Category  string   `form:"category"`
	MinPrice  *float64 `form:"minPrice"`
	MaxPrice  *float64 `form:"maxPrice"`
	InStock   *bool    `form:"inStock"`
	Page      int      `form:"page,default=1"`
	Limit     int      `form:"limit,default=10"`
	SortBy    string   `form:"sortBy,default=createdAt"`
	SortOrder string   `form:"sortOrder,default=desc" binding:"omitempty,oneof=asc desc"`
}

func (h *ProductHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFail(c, err)
		return
	}
	page, err := h.svc.SearchProducts(c.Request.Context(), domain.ProductFilter{
		Search:    q.Search,
		Category:  q.Category,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		InStock:   q.InStock,
		OwnerID:   h.scope(c),
		Page:      q.Page,
		Limit:     q.Limit,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("ok", page))
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	items, err := h.svc.LowStockProducts(c.Request.Context(), h.scope(c))
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("ok", gin.H{"products": items}))
}

func (h *ProductHandler) Categories(c *gin.Context) {
	cats, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("ok", gin.H{"categories": cats}))
}

func (h *ProductHandler) Stats(c *gin.Context) {
	stats, err := h.svc.InventoryStats(c.Request.Context(), h.scope(c))
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("ok", stats))
}
