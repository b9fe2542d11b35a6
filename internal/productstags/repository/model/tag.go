package model

import (
	"time"
)

// Tag 标签字典表（每个项目、每个语言一份）
// 同一语言内标题唯一：同一个标题不会产生两个内部标签名
type Tag struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Project   string    `gorm:"type:text;not null;column:project" json:"project"`
	Lang      string    `gorm:"type:text;not null;column:lang" json:"lang"`
	Tag       string    `gorm:"type:text;not null;column:tag" json:"tag"` // 内部标签名
	Title     string    `gorm:"type:text;not null;column:title" json:"title"`
	Image     string    `gorm:"type:text;column:image" json:"image"`
	Generator string    `gorm:"type:text;not null;default:user;column:generator" json:"generator"`
	CreatedAt time.Time `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}

// TagGroup 标签组表
// 每个生成标签的属性字段在每个项目、语言组合下对应一个标签组
type TagGroup struct {
	ID           string    `gorm:"primaryKey;type:text;column:id" json:"id"`
	Project      string    `gorm:"type:text;not null;column:project" json:"project"`
	Lang         string    `gorm:"type:text;not null;column:lang" json:"lang"`
	Title        string    `gorm:"type:text;not null;column:title" json:"title"`
	WorkingTitle string    `gorm:"type:text;not null;column:working_title" json:"workingTitle"`
	Generator    string    `gorm:"type:text;not null;default:user;column:generator" json:"generator"`
	CreatedAt    time.Time `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (TagGroup) TableName() string {
	return "tag_groups"
}

// TagGroupTag 标签组成员表
// 每条成员记录有自己的来源标识：生成器只清理自己创建的成员，
// 其他来源的成员保留（组里有外来成员时组本身也不会被删除）
type TagGroupTag struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	GroupID   string    `gorm:"type:text;not null;index:idx_tag_group_tags_group;column:group_id" json:"groupID"`
	Tag       string    `gorm:"type:text;not null;column:tag" json:"tag"`
	Generator string    `gorm:"type:text;not null;default:user;column:generator" json:"generator"`
	CreatedAt time.Time `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
}

// TableName 指定表名
func (TagGroupTag) TableName() string {
	return "tag_group_tags"
}
