package service

import (
	"context"

	"go.uber.org/zap"

	"inventory-api/internal/domain"
)

// UserService 管理端用户操作（列表 / 启停用）
type UserService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, log: log}
}

type UserPage struct {
	Users      []domain.User `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

func (s *UserService) ListUsers(ctx context.Context, q string, page, limit int) (*UserPage, error) {
	page, limit = NormalizePage(page, limit)
	users, total, err := s.users.List(ctx, q, (page-1)*limit, limit)
	if err != nil {
		return nil, Internal("list users failed", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return &UserPage{Users: users, Pagination: NewPagination(page, limit, total)}, nil
}

// SetActive 停用后用户无法登录、刷新令牌（见 AuthService 的 active 检查）
func (s *UserService) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, Internal("db error", err)
	}
	if u == nil {
		return nil, NotFound("user not found")
	}
	if err := s.users.UpdateFields(ctx, id, map[string]any{"active": active}); err != nil {
		return nil, Internal("update user failed", err)
	}
	u.Active = active
	s.log.Info("user active flag changed", zap.String("user_id", id), zap.Bool("active", active))
	return u, nil
}
