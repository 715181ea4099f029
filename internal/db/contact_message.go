package db

import "time"

// ContactMessage 保存前台联系表单提交的留言。
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// TableName 指定自定义表名。
func (ContactMessage) TableName() string {
	return "contacts"
}
