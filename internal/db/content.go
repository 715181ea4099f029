package db

import "time"

// ContentEntry 是站点上一处可编辑的文案，(Section, Key) 唯一确定一个位置。
type ContentEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Section   string    `gorm:"size:100;not null;uniqueIndex:idx_content_section_key" json:"section"`
	Key       string    `gorm:"size:100;not null;uniqueIndex:idx_content_section_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName 指定自定义表名。
func (ContentEntry) TableName() string {
	return "content"
}
