package db

import "time"

// PageView 按路径累计浏览次数，每个路径至多一行。
type PageView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Path      string    `gorm:"size:255;not null;uniqueIndex" json:"path"`
	Count     uint64    `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName 指定自定义表名。
func (PageView) TableName() string {
	return "page_views"
}
