package db

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed/content.yaml
var defaultContentSeed []byte

// SeedEntry 描述种子文件中的一条文案。
type SeedEntry struct {
	Section string `yaml:"section"`
	Key     string `yaml:"key"`
	Value   string `yaml:"value"`
}

type seedFile struct {
	Entries []SeedEntry `yaml:"entries"`
}

// ParseContentSeed 解析 YAML 种子数据，跳过 section 或 key 为空的条目。
func ParseContentSeed(raw []byte) ([]SeedEntry, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse content seed: %w", err)
	}

	entries := make([]SeedEntry, 0, len(file.Entries))
	for _, entry := range file.Entries {
		section := strings.TrimSpace(entry.Section)
		key := strings.TrimSpace(entry.Key)
		if section == "" || key == "" {
			continue
		}
		entries = append(entries, SeedEntry{Section: section, Key: key, Value: entry.Value})
	}
	return entries, nil
}

// SeedContent 在 content 表为空时写入内置文案，返回写入的条数。
func SeedContent(gdb *gorm.DB) (int, error) {
	entries, err := ParseContentSeed(defaultContentSeed)
	if err != nil {
		return 0, err
	}
	return SeedContentEntries(gdb, entries)
}

// SeedContentEntries 在 content 表为空时写入给定条目。
func SeedContentEntries(gdb *gorm.DB, entries []SeedEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	inserted := 0
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ContentEntry{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		rows := make([]ContentEntry, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, ContentEntry{Section: entry.Section, Key: entry.Key, Value: entry.Value})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		inserted = len(rows)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed content: %w", err)
	}
	return inserted, nil
}
