package service

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/softysite/internal/db"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// PublicContentValue 是前台渲染一处文案所需的数据。
type PublicContentValue struct {
	Value string        `json:"value"`
	HTML  template.HTML `json:"html"`
}

// PublicContent 按 section → key 分组。
type PublicContent map[string]map[string]PublicContentValue

// ContentService 维护站点可编辑文案。
type ContentService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewContentService 构造 ContentService
func NewContentService(gdb *gorm.DB) *ContentService {
	return &ContentService{db: gdb, now: time.Now}
}

// List 返回全部文案，按 section、key 升序。
func (s *ContentService) List() ([]db.ContentEntry, error) {
	var items []db.ContentEntry
	err := s.db.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: "section"}},
		{Column: clause.Column{Name: "key"}},
	}}).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return items, nil
}

// Update 覆盖文案内容并刷新 UpdatedAt，空字符串直接拒绝且不触碰数据库。
func (s *ContentService) Update(id uint, value string) (*db.ContentEntry, error) {
	if value == "" {
		return nil, invalid("value", "Invalid value")
	}

	var entry db.ContentEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, id).Error; err != nil {
			return err
		}
		entry.Value = value
		entry.UpdatedAt = s.now()
		return tx.Model(&entry).Updates(map[string]interface{}{
			"value":      entry.Value,
			"updated_at": entry.UpdatedAt,
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("update content: %w", err)
	}
	return &entry, nil
}

// Public 返回前台使用的分组文案，value 以 Markdown 渲染并清洗为安全的 HTML。
func (s *ContentService) Public() (PublicContent, error) {
	items, err := s.List()
	if err != nil {
		return nil, err
	}

	result := make(PublicContent)
	for _, item := range items {
		rendered, err := RenderMarkdown(item.Value)
		if err != nil {
			return nil, fmt.Errorf("render content %s.%s: %w", item.Section, item.Key, err)
		}
		if result[item.Section] == nil {
			result[item.Section] = make(map[string]PublicContentValue)
		}
		result[item.Section][item.Key] = PublicContentValue{Value: item.Value, HTML: rendered}
	}
	return result, nil
}

// RenderMarkdown 渲染 Markdown 并通过 UGC 策略清洗。
func RenderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}
