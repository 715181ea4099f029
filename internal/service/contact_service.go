package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/softysite/internal/db"
	"gorm.io/gorm"
)

const notifyTimeout = 10 * time.Second

// ContactNotifier 在新留言写入后被异步调用。
type ContactNotifier interface {
	ContactReceived(ctx context.Context, msg db.ContactMessage) error
}

// ContactInput 描述前台联系表单提交的字段，校验顺序与字段顺序一致。
type ContactInput struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Message string `validate:"min=10"`
}

var contactMessages = map[string]string{
	"Name":    "Name is required",
	"Email":   "Please enter a valid email",
	"Message": "Message must be at least 10 characters",
}

// ContactService 负责联系表单留言的写入与后台管理。
type ContactService struct {
	db       *gorm.DB
	validate *validator.Validate
	notifier ContactNotifier
	logger   *slog.Logger
}

// NewContactService 构造 ContactService。
func NewContactService(gdb *gorm.DB) *ContactService {
	return &ContactService{
		db:       gdb,
		validate: validator.New(),
		logger:   slog.Default(),
	}
}

// WithNotifier 设置新留言通知方式，nil 表示不通知。
func (s *ContactService) WithNotifier(n ContactNotifier) *ContactService {
	s.notifier = n
	return s
}

// Validate 按 name → email → message 的顺序返回第一个校验错误。
func (s *ContactService) Validate(input ContactInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := fieldErrs[0].Field()
		return invalid(strings.ToLower(field), contactMessages[field])
	}
	return fmt.Errorf("validate contact: %w", err)
}

// Create 校验并保存一条新留言，IsRead 固定为 false。
func (s *ContactService) Create(input ContactInput) (*db.ContactMessage, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	if err := s.Validate(input); err != nil {
		return nil, err
	}

	msg := db.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Message: input.Message,
		IsRead:  false,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	s.notify(msg)
	return &msg, nil
}

// List 返回全部留言，最新的在前。
func (s *ContactService) List() ([]db.ContactMessage, error) {
	var items []db.ContactMessage
	if err := s.db.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return items, nil
}

// MarkRead 将留言标记为已读；对已读留言重复调用不会产生变化。
func (s *ContactService) MarkRead(id uint) (*db.ContactMessage, error) {
	var msg db.ContactMessage
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&msg, id).Error; err != nil {
			return err
		}
		if msg.IsRead {
			return nil
		}
		if err := tx.Model(&msg).Update("is_read", true).Error; err != nil {
			return err
		}
		msg.IsRead = true
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("mark contact read: %w", err)
	}
	return &msg, nil
}

// Delete 永久删除留言。
func (s *ContactService) Delete(id uint) error {
	result := s.db.Delete(&db.ContactMessage{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (s *ContactService) notify(msg db.ContactMessage) {
	if s.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifier.ContactReceived(ctx, msg); err != nil {
			s.logger.Warn("contact notification failed", "contact_id", msg.ID, "error", err)
		}
	}()
}
