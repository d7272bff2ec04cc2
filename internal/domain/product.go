package domain

import (
	"context"
	"encoding/json"
	"time"
)

// 库存状态（读取时派生，不落库）
const (
	StockStatusOut = "OUT_OF_STOCK"
	StockStatusLow = "LOW_STOCK"
	StockStatusIn  = "IN_STOCK"
)

const DefaultMinStockLevel = 5

type Product struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:191;not null" json:"name"`
	Description   string    `gorm:"size:1000" json:"description,omitempty"`
	SKU           string    `gorm:"uniqueIndex;size:64;not null" json:"sku"` // 统一大写存储
	Category      string    `gorm:"size:64;index" json:"category"`
	Price         float64   `gorm:"not null" json:"price"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	MinStockLevel int       `gorm:"not null;default:5" json:"minStockLevel"`
	Images        []string  `gorm:"serializer:json" json:"images"`
	Active        bool      `gorm:"not null;default:true;index" json:"-"`
	OwnerID       string    `gorm:"size:36;index;not null" json:"ownerId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

func (p *Product) IsLowStock() bool { return p.Quantity <= p.MinStockLevel }

func (p *Product) StockStatus() string {
	switch {
	case p.Quantity == 0:
		return StockStatusOut
	case p.Quantity <= p.MinStockLevel:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// MarshalJSON 输出时附带派生字段
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		LowStock    bool   `json:"lowStock"`
		StockStatus string `json:"stockStatus"`
	}{
		alias:       alias(p),
		LowStock:    p.IsLowStock(),
		StockStatus: p.StockStatus(),
	})
}

// ProductFilter 检索条件；OwnerID 为空表示不按归属过滤
type ProductFilter struct {
	Search    string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	InStock   *bool
	OwnerID   string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type InventoryStats struct {
	TotalProducts int64   `json:"totalProducts"`
	TotalValue    float64 `json:"totalValue"`
	LowStockCount int64   `json:"lowStockCount"`
	OutOfStock    int64   `json:"outOfStockCount"`
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	// FindByID 不限制 active，由规则层决定可见性
	FindByID(ctx context.Context, id string) (*Product, error)
	// FindBySKU 覆盖 active/inactive 全量，SKU 永久占用
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	Search(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	Update(ctx context.Context, p *Product) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) (int64, error)
	LowStock(ctx context.Context, ownerID string) ([]Product, error)
	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context, ownerID string) (*InventoryStats, error)
}
