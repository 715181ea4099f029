package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrUserExists 表示用户名已被占用。
var ErrUserExists = errors.New("user already exists")

// User 定义了后台管理员账号，Password 保存 bcrypt 哈希。
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:100;unique;not null"`
	Password  string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定自定义表名。
func (User) TableName() string {
	return "users"
}

// HashPassword 使用 bcrypt 默认成本生成哈希。
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// IsPasswordHash 判断存储值是否为 bcrypt 哈希；旧版安装脚本写入的是明文。
func IsPasswordHash(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

// CreateUser 创建新用户，用户名重复时返回 ErrUserExists。
func CreateUser(gdb *gorm.DB, username, password string) (*User, error) {
	trimmedUser := strings.TrimSpace(username)
	if trimmedUser == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	var count int64
	if err := gdb.Model(&User{}).Where("username = ?", trimmedUser).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := User{Username: trimmedUser, Password: hashed}
	if err := gdb.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// EnsureUser 存在性检查：若提供的用户名与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的用户。
func EnsureUser(gdb *gorm.DB, username, password string) error {
	trimmedUser := strings.TrimSpace(username)
	if trimmedUser == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := gdb.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		_, err := CreateUser(gdb, trimmedUser, password)
		return err
	}

	return nil
}
