package model

import (
	"time"
)

// Field 产品属性字段配置表
// UpdatedAt 驱动生成器的增量模式：上次运行后未编辑过的字段会被跳过
type Field struct {
	ID        string    `gorm:"primaryKey;type:text;column:id" json:"id"`
	Type      string    `gorm:"type:text;not null;index:idx_fields_type;column:type" json:"type"`
	Titles    string    `gorm:"type:text;column:titles" json:"titles"`   // JSON: lang -> 标题
	Options   string    `gorm:"type:text;column:options" json:"options"` // JSON: FieldOptions
	CreatedAt time.Time `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (Field) TableName() string {
	return "fields"
}

// Category 产品分类表，记录分类上挂载的属性字段
type Category struct {
	ID        string    `gorm:"primaryKey;type:text;column:id" json:"id"`
	Fields    string    `gorm:"type:text;column:fields" json:"fields"` // 分隔的字段 ID 列表
	CreatedAt time.Time `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// Site 分类列表页表，每个语言一行
type Site struct {
	ID              string    `gorm:"primaryKey;type:text;column:id" json:"id"`
	Lang            string    `gorm:"primaryKey;type:text;column:lang" json:"lang"`
	CategoryID      string    `gorm:"type:text;index:idx_sites_category;column:category_id" json:"categoryID"`
	ExtraCategories string    `gorm:"type:text;column:extra_categories" json:"extraCategories"` // 分隔列表
	TagGroups       string    `gorm:"type:text;column:tag_groups" json:"tagGroups"`             // 分隔的标签组 ID 列表
	CreatedAt       time.Time `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (Site) TableName() string {
	return "sites"
}
