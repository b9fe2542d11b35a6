package model

import (
	"time"
)

// Product 产品表
// TagData 是产品标签数据的权威来源，索引表只是它的派生视图
type Product struct {
	ID          string    `gorm:"primaryKey;type:text;column:id" json:"id"`
	Active      bool      `gorm:"not null;default:true;index:idx_products_active;column:active" json:"active"`
	Categories  string    `gorm:"type:text;column:categories" json:"categories"`     // 分隔列表
	FieldValues string    `gorm:"type:text;column:field_values" json:"fieldValues"`  // JSON: fieldID -> 选中的条目值
	TagData     string    `gorm:"type:text;column:tag_data" json:"tagData"`          // JSON: lang -> [{tag, generator}]
	CreatedAt   time.Time `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ProductSearchCache 产品搜索缓存表
// 标签列是 products_to_tags 的反规范化副本，店面搜索过滤直接读它而不用 JOIN
type ProductSearchCache struct {
	ID        string    `gorm:"primaryKey;type:text;column:id" json:"id"`
	Lang      string    `gorm:"primaryKey;type:text;column:lang" json:"lang"`
	Tags      string    `gorm:"type:text;column:tags" json:"tags"`     // 分隔的标签名列表
	Titles    string    `gorm:"type:text;column:titles" json:"titles"` // 分隔的标签标题列表
	UpdatedAt time.Time `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (ProductSearchCache) TableName() string {
	return "product_search_cache"
}
