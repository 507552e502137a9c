package auth

import (
	"log/slog"

	"github.com/hrwiki/backend/internal/domain/hr"
	"github.com/hrwiki/backend/internal/infrastructure/config"
	"github.com/hrwiki/backend/internal/infrastructure/log"
)

// UserInfo 认证通过的用户信息
type UserInfo struct {
	Username string  `json:"username"`
	Role     hr.Role `json:"role"`
}

// Service 角色解析服务：按用户名口令解析出调用者角色
// 核心管线信任这里给出的角色，不做二次校验
type Service struct {
	manager *config.Manager
	logger  *slog.Logger
}

// NewService 创建认证服务
func NewService(manager *config.Manager) *Service {
	return &Service{
		manager: manager,
		logger:  log.NewModuleLogger("auth", "service"),
	}
}

// VerifyCredentials 校验用户名口令，通过时返回用户信息
func (s *Service) VerifyCredentials(username, password string) (*UserInfo, bool) {
	users := s.manager.Current().Auth.Users

	user, ok := users[username]
	if !ok || user.Password != password {
		return nil, false
	}

	// 角色非法时降级为初级权限
	role := hr.Role(user.Role)
	if !role.IsValid() {
		s.logger.Warn("Invalid role in config, defaulting to hr_junior",
			"username", username,
			"role", user.Role,
		)
		role = hr.RoleHRJunior
	}

	return &UserInfo{Username: username, Role: role}, true
}

// VerifyLegacyPassword 旧版仅密码校验（向后兼容）
// 旧模式下没有用户身份，默认给予 hr_lead 完整权限
func (s *Service) VerifyLegacyPassword(password string) (*UserInfo, bool) {
	legacy := s.manager.Current().Auth.LegacyPassword
	if legacy == "" || password != legacy {
		return nil, false
	}
	return &UserInfo{Username: "legacy_user", Role: hr.RoleHRLead}, true
}

// Resolve 统一入口：有用户名走用户口令模式，否则走旧版密码模式
func (s *Service) Resolve(username, password string) (*UserInfo, bool) {
	if username != "" {
		return s.VerifyCredentials(username, password)
	}
	return s.VerifyLegacyPassword(password)
}
