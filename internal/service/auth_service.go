package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/softysite/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 校验后台管理员凭据。
type AuthService struct {
	db     *gorm.DB
	logger *slog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService 构造 AuthService。
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb, logger: slog.Default()}
}

// Authenticate 按用户名精确查找并比对密码。
// 用户不存在与密码错误都返回 ErrInvalidCredentials；旧版明文密码校验通过后会立即改写为 bcrypt 哈希。
func (s *AuthService) Authenticate(username, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 对齐耗时，避免通过响应时间判断用户是否存在
			bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if db.IsPasswordHash(user.Password) {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
		return &user, nil
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}

	if err := s.upgradeLegacyPassword(&user, password); err != nil {
		s.logger.Warn("legacy password upgrade failed", "user_id", user.ID, "error", err)
	}
	return &user, nil
}

func (s *AuthService) upgradeLegacyPassword(user *db.User, password string) error {
	hashed, err := db.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.db.Model(user).Update("password", hashed).Error; err != nil {
		return fmt.Errorf("store password hash: %w", err)
	}
	user.Password = hashed
	s.logger.Info("upgraded legacy plaintext password", "user_id", user.ID)
	return nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		hashed, err := bcrypt.GenerateFromPassword([]byte("softy-timing-equalizer"), bcrypt.DefaultCost)
		if err == nil {
			s.dummyHash = hashed
		}
	})
	return s.dummyHash
}
