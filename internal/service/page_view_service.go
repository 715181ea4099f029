package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/softysite/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxPathLength = 255

// PageViewService 负责按路径累计页面浏览量。
type PageViewService struct {
	db    *gorm.DB
	now   func() time.Time
	locks *keyedMutex
}

// NewPageViewService 构造 PageViewService。
func NewPageViewService(gdb *gorm.DB) *PageViewService {
	return &PageViewService{db: gdb, now: time.Now, locks: newKeyedMutex()}
}

// Record 为 path 记一次浏览：不存在时创建 count=1，否则原子地加一。
func (s *PageViewService) Record(path string) (*db.PageView, error) {
	path = strings.TrimSpace(path)
	if path == "" || len(path) > maxPathLength {
		return nil, invalid("path", "Invalid path")
	}

	unlock := s.locks.Lock(path)
	defer unlock()

	now := s.now()
	var view db.PageView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		row := db.PageView{Path: path, Count: 1, CreatedAt: now, UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "path"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":      gorm.Expr("count + 1"),
				"updated_at": now,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("path = ?", path).First(&view).Error
	})
	if err != nil {
		return nil, fmt.Errorf("record page view: %w", err)
	}
	return &view, nil
}

// List 返回全部计数器，按浏览量降序。
func (s *PageViewService) List() ([]db.PageView, error) {
	var items []db.PageView
	if err := s.db.Order("count DESC, path ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list page views: %w", err)
	}
	return items, nil
}

// keyedMutex 为每个 key 提供独立的互斥锁，无人持有时回收。
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
