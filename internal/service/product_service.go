package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"inventory-api/internal/core/cache"
	"inventory-api/internal/domain"
	"inventory-api/pkg/utils"
)

const (
	cacheKeyCategories = "inventory:categories"
	cacheKeyStats      = "inventory:stats:" // + owner 或 all
	cacheTTL           = 60 * time.Second
)

// 库存总览指标（全量口径，统计时刷新）
var (
	gaugeProducts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inventory_active_products",
		Help: "Number of active products",
	})
	gaugeOutOfStock = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inventory_out_of_stock_products",
		Help: "Number of active products with zero quantity",
	})
)

func init() { prometheus.MustRegister(gaugeProducts, gaugeOutOfStock) }

type ProductService struct {
	products domain.ProductRepository
	cache    *cache.Cache // 可为 nil（未启用 redis）
	log      *zap.Logger
}

func NewProductService(products domain.ProductRepository, c *cache.Cache, log *zap.Logger) *ProductService {
	return &ProductService{products: products, cache: c, log: log}
}

// Scope 归属范围：admin 不限，其余按本人
func Scope(role, userID string) string {
	if domain.CanBypassOwnership(role) {
		return ""
	}
	return userID
}

type CreateProductInput struct {
	Name          string
	Description   string
	SKU           string
	Category      string
	Price         float64
	Quantity      int
	MinStockLevel *int
	Images        []string
}

func (s *ProductService) CreateProduct(ctx context.Context, ownerID string, in CreateProductInput) (*domain.Product, error) {
	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	if sku == "" {
		return nil, BadRequest("sku is required")
	}
	if in.Price < 0 {
		return nil, BadRequest("price cannot be negative")
	}
	if in.Quantity < 0 {
		return nil, BadRequest("quantity cannot be negative")
	}
	minStock := domain.DefaultMinStockLevel
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return nil, BadRequest("minStockLevel cannot be negative")
		}
		minStock = *in.MinStockLevel
	}

	// SKU 永久占用：软删的也算
	if existing, err := s.products.FindBySKU(ctx, sku); err != nil {
		return nil, Internal("db error", err)
	} else if existing != nil {
		return nil, Conflict("product with this SKU already exists")
	}

	images := in.Images
	if images == nil {
		images = []string{}
	}
	p := &domain.Product{
		ID:            utils.NewID(),
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		SKU:           sku,
		Category:      strings.TrimSpace(in.Category),
		Price:         in.Price,
		Quantity:      in.Quantity,
		MinStockLevel: minStock,
		Images:        images,
		Active:        true,
		OwnerID:       ownerID,
	}
	if err := s.products.Create(ctx, p); err != nil {
		// 预检查后并发仍可能撞唯一索引
		if isDupKey(err) {
			return nil, Conflict("product with this SKU already exists")
		}
		return nil, Internal("create product failed", err)
	}
	s.invalidate(ctx, ownerID)
	s.log.Info("product created", zap.String("product_id", p.ID), zap.String("sku", p.SKU))
	return p, nil
}

// GetProductByID 不存在、已软删、越权三种情况统一返回 not found，不泄露归属信息
func (s *ProductService) GetProductByID(ctx context.Context, id, scopeOwner string) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, Internal("db error", err)
	}
	if p == nil || !p.Active || (scopeOwner != "" && p.OwnerID != scopeOwner) {
		return nil, NotFound("product not found")
	}
	return p, nil
}

type UpdateProductInput struct {
	Name          *string
	Description   *string
	SKU           *string
	Category      *string
	Price         *float64
	Quantity      *int
	MinStockLevel *int
	Images        []string
}

func (s *ProductService) UpdateProduct(ctx context.Context, id, scopeOwner string, in UpdateProductInput) (*domain.Product, error) {
	p, err := s.GetProductByID(ctx, id, scopeOwner)
	if err != nil {
		return nil, err
	}

	if in.SKU != nil {
		sku := strings.ToUpper(strings.TrimSpace(*in.SKU))
		if sku != p.SKU {
			other, err := s.products.FindBySKU(ctx, sku)
			if err != nil {
				return nil, Internal("db error", err)
			}
			if other != nil && other.ID != p.ID {
				return nil, Conflict("product with this SKU already exists")
			}
			p.SKU = sku
		}
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, BadRequest("price cannot be negative")
		}
		p.Price = *in.Price
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, BadRequest("quantity cannot be negative")
		}
		p.Quantity = *in.Quantity
	}
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return nil, BadRequest("minStockLevel cannot be negative")
		}
		p.MinStockLevel = *in.MinStockLevel
	}
	if in.Images != nil {
		p.Images = in.Images
	}

	if err := s.products.Update(ctx, p); err != nil {
		if isDupKey(err) {
			return nil, Conflict("product with this SKU already exists")
		}
		return nil, Internal("update product failed", err)
	}
	s.invalidate(ctx, p.OwnerID)
	return p, nil
}

// DeleteProduct 软删：active → false，SKU 仍被占用
func (s *ProductService) DeleteProduct(ctx context.Context, id, scopeOwner string) (bool, error) {
	p, err := s.GetProductByID(ctx, id, scopeOwner)
	if err != nil {
		return false, err
	}
	rows, err := s.products.UpdateFields(ctx, p.ID, map[string]any{"active": false})
	if err != nil {
		return false, Internal("delete product failed", err)
	}
	s.invalidate(ctx, p.OwnerID)
	s.log.Info("product soft-deleted", zap.String("product_id", p.ID))
	return rows > 0, nil
}

func (s *ProductService) UpdateStock(ctx context.Context, id string, quantity int, scopeOwner string) (*domain.Product, error) {
	if quantity < 0 {
		return nil, BadRequest("quantity cannot be negative")
	}
	p, err := s.GetProductByID(ctx, id, scopeOwner)
	if err != nil {
		return nil, err
	}
	if _, err := s.products.UpdateFields(ctx, p.ID, map[string]any{"quantity": quantity}); err != nil {
		return nil, Internal("update stock failed", err)
	}
	p.Quantity = quantity
	s.invalidate(ctx, p.OwnerID)
	return p, nil
}

// AdjustStock delta 为负表示出库；结果为负时整体拒绝，库存不变
func (s *ProductService) AdjustStock(ctx context.Context, id string, delta int, scopeOwner string) (*domain.Product, error) {
	p, err := s.GetProductByID(ctx, id, scopeOwner)
	if err != nil {
		return nil, err
	}
	newQty := p.Quantity + delta
	if newQty < 0 {
		return nil, BadRequest(fmt.Sprintf("insufficient stock: have %d, requested %d", p.Quantity, -delta))
	}
	return s.UpdateStock(ctx, id, newQty, scopeOwner)
}

type ProductPage struct {
	Products   []domain.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

func (s *ProductService) SearchProducts(ctx context.Context, f domain.ProductFilter) (*ProductPage, error) {
	f.Page, f.Limit = NormalizePage(f.Page, f.Limit)
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, BadRequest("minPrice cannot exceed maxPrice")
	}

	items, total, err := s.products.Search(ctx, f)
	if err != nil {
		return nil, Internal("search products failed", err)
	}
	if items == nil {
		items = []domain.Product{}
	}
	return &ProductPage{
		Products:   items,
		Pagination: NewPagination(f.Page, f.Limit, total),
	}, nil
}

func (s *ProductService) LowStockProducts(ctx context.Context, scopeOwner string) ([]domain.Product, error) {
	items, err := s.products.LowStock(ctx, scopeOwner)
	if err != nil {
		return nil, Internal("low stock query failed", err)
	}
	if items == nil {
		items = []domain.Product{}
	}
	return items, nil
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	load := func(ctx context.Context) (*[]string, error) {
		cats, err := s.products.Categories(ctx)
		if err != nil {
			return nil, err
		}
		return &cats, nil
	}
	if s.cache == nil {
		cats, err := load(ctx)
		if err != nil {
			return nil, Internal("categories query failed", err)
		}
		return *cats, nil
	}
	cats, err := cache.GetOrLoadJSON[[]string](s.cache, ctx, cacheKeyCategories, cacheTTL, load)
	if err != nil {
		return nil, Internal("categories query failed", err)
	}
	if cats == nil {
		return []string{}, nil
	}
	return *cats, nil
}

func (s *ProductService) InventoryStats(ctx context.Context, scopeOwner string) (*domain.InventoryStats, error) {
	load := func(ctx context.Context) (*domain.InventoryStats, error) {
		return s.products.Stats(ctx, scopeOwner)
	}

	var stats *domain.InventoryStats
	var err error
	if s.cache != nil {
		stats, err = cache.GetOrLoadJSON[domain.InventoryStats](s.cache, ctx, statsKey(scopeOwner), cacheTTL, load)
	} else {
		stats, err = load(ctx)
	}
	if err != nil {
		return nil, Internal("stats query failed", err)
	}
	if stats == nil {
		stats = &domain.InventoryStats{}
	}
	if scopeOwner == "" {
		gaugeProducts.Set(float64(stats.TotalProducts))
		gaugeOutOfStock.Set(float64(stats.OutOfStock))
	}
	return stats, nil
}

type BulkStockItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type BulkStockResult struct {
	Updated  int    `json:"updated"`
	FailedID string `json:"failedId,omitempty"`
}

// BulkAdjustStock 顺序执行、不保证原子：中途失败时前面的更新保持生效
func (s *ProductService) BulkAdjustStock(ctx context.Context, scopeOwner string, items []BulkStockItem) (*BulkStockResult, error) {
	res := &BulkStockResult{}
	for _, it := range items {
		if _, err := s.UpdateStock(ctx, it.ID, it.Quantity, scopeOwner); err != nil {
			res.FailedID = it.ID
			return res, err
		}
		res.Updated++
	}
	return res, nil
}

func statsKey(owner string) string {
	if owner == "" {
		owner = "all"
	}
	return cacheKeyStats + owner
}

// invalidate 商品写路径后失效相关缓存；失败只记日志
func (s *ProductService) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	keys := []string{cacheKeyCategories, statsKey(""), statsKey(ownerID)}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("cache invalidate failed", zap.Error(err))
	}
}
