package model

import (
	"time"
)

// Project 项目表（店面部署，每个项目有自己启用的语言列表）
type Project struct {
	Name      string    `gorm:"primaryKey;type:text;column:name" json:"name"`
	IsDefault bool      `gorm:"not null;default:false;column:is_default" json:"isDefault"`
	Languages string    `gorm:"type:text;not null;column:languages" json:"languages"` // 分隔列表（如：",en,de,"）
	CreatedAt time.Time `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "projects"
}
