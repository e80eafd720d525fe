package service

import (
	"errors"
	"strings"
	"time"

	"github.com/lumenblog/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials 表示用户名或密码错误，不区分具体原因。
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService 处理管理员登录与会话刷新。
type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
}

// NewAuthService 构造 AuthService。
func NewAuthService(gdb *gorm.DB, tokens *TokenService) *AuthService {
	return &AuthService{db: gdb, tokens: tokens}
}

// Login 校验管理员凭据，成功后更新最后登录时间并签发会话令牌。
func (s *AuthService) Login(username, password string) (string, *db.Admin, error) {
	var admin db.Admin
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.Model(&admin).Update("last_login", now).Error; err != nil {
		return "", nil, err
	}
	admin.LastLogin = &now

	token, err := s.tokens.Issue(admin.ID, admin.Username)
	if err != nil {
		return "", nil, err
	}

	return token, &admin, nil
}

// Refresh 对签名完好的令牌重新签发，已过期的令牌同样接受。
// 重新签发前确认管理员账号仍然存在，被删除的账号无法凭旧令牌续期。
func (s *AuthService) Refresh(tokenString string) (string, error) {
	claims, err := s.tokens.VerifyIgnoringExpiry(tokenString)
	if err != nil {
		return "", err
	}

	var count int64
	if err := s.db.Model(&db.Admin{}).Where("id = ?", claims.AdminID()).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return "", ErrTokenInvalid
	}

	return s.tokens.Issue(claims.AdminID(), claims.Username)
}
