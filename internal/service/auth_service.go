package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"inventory-api/internal/core/auth"
	"inventory-api/internal/domain"
	"inventory-api/pkg/utils"
)

// 登录失败统一提示，避免账号枚举
const loginFailedMsg = "invalid email or password"

type AuthService struct {
	users domain.UserRepository
	jwter *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer, log *zap.Logger) *AuthService {
	return &AuthService{users: users, jwter: jwter, log: log}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string // 可空，默认 user
}

type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	switch role {
	case domain.RoleAdmin, domain.RoleManager, domain.RoleUser:
	default:
		return nil, BadRequest("invalid role")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, Internal("db error", err)
	}
	if existing != nil {
		return nil, Conflict("email already registered")
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: utils.HashPassword(in.Password),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
		Active:       true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发兜底：预检查后仍可能撞唯一索引
		if isDupKey(err) {
			return nil, Conflict("email already registered")
		}
		return nil, Internal("create user failed", err)
	}

	tok, err := s.jwter.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, Internal("issue token failed", err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("role", u.Role))
	return &AuthResult{User: u, Token: tok}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, Internal("db error", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, Unauthorized(loginFailedMsg)
	}
	if !u.Active {
		return nil, Forbidden("account is deactivated")
	}

	now := time.Now()
	if err := s.users.UpdateFields(ctx, u.ID, map[string]any{"last_login": now}); err != nil {
		// 登录时间戳写失败不阻断登录
		s.log.Warn("record last login failed", zap.String("user_id", u.ID), zap.Error(err))
	} else {
		u.LastLogin = &now
	}

	tok, err := s.jwter.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, Internal("issue token failed", err)
	}
	return &AuthResult{User: u, Token: tok}, nil
}

// CurrentUser 缺失或停用返回 nil（非错误），调用方视为会话失效
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, Internal("db error", err)
	}
	if u == nil || !u.Active {
		return nil, nil
	}
	return u, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, userID string) (string, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", Internal("db error", err)
	}
	if u == nil || !u.Active {
		return "", Unauthorized("user inactive")
	}
	tok, err := s.jwter.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return "", Internal("issue token failed", err)
	}
	return tok, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Internal("db error", err)
	}
	if u == nil {
		return Unauthorized("user not found")
	}
	if !utils.CheckPassword(currentPassword, u.PasswordHash) {
		return Unauthorized("current password is incorrect")
	}
	if err := s.users.UpdateFields(ctx, userID, map[string]any{
		"password_hash": utils.HashPassword(newPassword),
	}); err != nil {
		return Internal("update password failed", err)
	}
	return nil
}

type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	ProfileImage *string
}

// UpdateProfile 仅 firstName/lastName/profileImage 可改，其余字段忽略
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, Internal("db error", err)
	}
	if u == nil {
		return nil, NotFound("user not found")
	}

	fields := map[string]any{}
	if in.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.ProfileImage != nil {
		fields["profile_image"] = *in.ProfileImage
	}
	if len(fields) > 0 {
		if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
			return nil, Internal("update profile failed", err)
		}
	}
	u, err = s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, Internal("db error", err)
	}
	return u, nil
}
