package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"inventory-api/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

// 排序字段白名单，防 SQL 注入
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"price":     "price",
	"quantity":  "quantity",
	"sku":       "sku",
	"category":  "category",
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *ProductRepo) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, "sku = ?", strings.ToUpper(strings.TrimSpace(sku))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *ProductRepo) Search(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Product{}).Where("active = ?", true)

	if f.OwnerID != "" {
		tx = tx.Where("owner_id = ?", f.OwnerID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(sku) LIKE ?", like, like, like)
	}
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		tx = tx.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		tx = tx.Where("price <= ?", *f.MaxPrice)
	}
	if f.InStock != nil {
		if *f.InStock {
			tx = tx.Where("quantity > 0")
		} else {
			tx = tx.Where("quantity = 0")
		}
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}

	var items []domain.Product
	offset := (f.Page - 1) * f.Limit
	if err := tx.Order(col + " " + dir).Offset(offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))
	return r.db.WithContext(ctx).Save(p).Error
}

// UpdateFields 返回受影响行数，软删/库存更新需要知道是否真的写到了
func (r *ProductRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *ProductRepo) LowStock(ctx context.Context, ownerID string) ([]domain.Product, error) {
	tx := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("quantity <= min_stock_level")
	if ownerID != "" {
		tx = tx.Where("owner_id = ?", ownerID)
	}
	var items []domain.Product
	err := tx.Order("quantity ASC").Find(&items).Error
	return items, err
}

func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("active = ?", true).
		Where("category <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &cats).Error
	return cats, err
}

func (r *ProductRepo) Stats(ctx context.Context, ownerID string) (*domain.InventoryStats, error) {
	base := func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&domain.Product{}).Where("active = ?", true)
		if ownerID != "" {
			tx = tx.Where("owner_id = ?", ownerID)
		}
		return tx
	}

	var out domain.InventoryStats
	if err := base().Count(&out.TotalProducts).Error; err != nil {
		return nil, err
	}
	// COALESCE：无行时 SUM 为 NULL
	row := base().Select("COALESCE(SUM(price * quantity), 0)").Row()
	if err := row.Scan(&out.TotalValue); err != nil {
		return nil, err
	}
	if err := base().Where("quantity <= min_stock_level").Count(&out.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := base().Where("quantity = 0").Count(&out.OutOfStock).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
