package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultDatabasePath = "softy.db"

// Models 列出需要自动迁移的全部模型。
func Models() []interface{} {
	return []interface{}{
		&User{},
		&ContactMessage{},
		&ContentEntry{},
		&PageView{},
	}
}

// Open 打开 SQLite 数据库并执行自动迁移。
// databasePath 为空时回退到 softy.db；支持 file: 形式的 DSN（例如内存数据库）。
func Open(databasePath string, opts ...gorm.Option) (*gorm.DB, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = defaultDatabasePath
	}

	if !isMemoryDSN(path) {
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
	}

	if len(opts) == 0 {
		opts = []gorm.Option{&gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}}
	}

	gdb, err := gorm.Open(sqlite.Open(path), opts...)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite 只允许单写者，统一走一条连接避免 database is locked。
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(gdb); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return gdb, nil
}

// Migrate 为核心模型创建或更新表结构。
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// Close 关闭底层连接，忽略 nil。
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isMemoryDSN(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file:")
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
