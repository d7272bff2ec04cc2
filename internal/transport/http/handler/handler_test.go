package handler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"inventory-api/internal/domain"
)

// 内存版仓储，走真实规则层的流程测试用

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.users {
		if e.Email == u.Email {
			return errors.New("duplicate key")
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "active":
			u.Active = v.(bool)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "first_name":
			u.FirstName = v.(string)
		case "last_name":
			u.LastName = v.(string)
		case "profile_image":
			u.ProfileImage = v.(string)
		case "last_login":
			t := v.(time.Time)
			u.LastLogin = &t
		}
	}
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _ string, offset, limit int) ([]domain.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		all = append(all, *u)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []domain.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

type fakeProductRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{items: map[string]*domain.Product{}}
}

func (f *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.items {
		if e.SKU == p.SKU {
			return errors.New("duplicate key")
		}
	}
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeProductRepo) FindBySKU(_ context.Context, sku string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sku = strings.ToUpper(strings.TrimSpace(sku))
	for _, p := range f.items {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) Search(_ context.Context, q domain.ProductFilter) ([]domain.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []domain.Product{}
	for _, p := range f.items {
		if !p.Active {
			continue
		}
		if q.OwnerID != "" && p.OwnerID != q.OwnerID {
			continue
		}
		if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
			hay := strings.ToLower(p.Name + " " + p.Description + " " + p.SKU)
			if !strings.Contains(hay, s) {
				continue
			}
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		matched = append(matched, *p)
	}
	total := int64(len(matched))
	offset := (q.Page - 1) * q.Limit
	if offset >= len(matched) {
		return []domain.Product{}, total, nil
	}
	end := offset + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) UpdateFields(_ context.Context, id string, fields map[string]any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "active":
			p.Active = v.(bool)
		case "quantity":
			p.Quantity = v.(int)
		}
	}
	return 1, nil
}

func (f *fakeProductRepo) LowStock(_ context.Context, ownerID string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Product{}
	for _, p := range f.items {
		if !p.Active || p.Quantity > p.MinStockLevel {
			continue
		}
		if ownerID != "" && p.OwnerID != ownerID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductRepo) Categories(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range f.items {
		if !p.Active || p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Stats(_ context.Context, ownerID string) (*domain.InventoryStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := &domain.InventoryStats{}
	for _, p := range f.items {
		if !p.Active {
			continue
		}
		if ownerID != "" && p.OwnerID != ownerID {
			continue
		}
		out.TotalProducts++
		out.TotalValue += p.Price * float64(p.Quantity)
		if p.Quantity <= p.MinStockLevel {
			out.LowStockCount++
		}
		if p.Quantity == 0 {
			out.OutOfStock++
		}
	}
	return out, nil
}
