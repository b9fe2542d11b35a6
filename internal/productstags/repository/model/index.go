package model

// 三张派生索引表
// 行内容是前后带分隔符的列表列（如：",a,b,c,"），单行查询即可得到全部成员，
// 成员判断通过 LIKE ",x," 完成。派生数据，只允许索引器和全量重建写入。

// ProductTags products_to_tags 表：每个语言、每个产品一行，保存产品当前的标签
// 标签列表为空的行必须删除，而不是留一个空行
type ProductTags struct {
	Lang      string `gorm:"primaryKey;type:text;column:lang" json:"lang"`
	ProductID string `gorm:"primaryKey;type:text;column:product_id" json:"productID"`
	Tags      string `gorm:"type:text;not null;column:tags" json:"tags"`
}

// TableName 指定表名
func (ProductTags) TableName() string {
	return "products_to_tags"
}

// TagProducts tags_to_products 表：每个语言、每个标签一行，保存携带该标签的产品
// 产品列表为空的行必须删除
type TagProducts struct {
	Lang       string `gorm:"primaryKey;type:text;column:lang" json:"lang"`
	Tag        string `gorm:"primaryKey;type:text;column:tag" json:"tag"`
	ProductIDs string `gorm:"type:text;not null;column:product_ids" json:"productIDs"`
}

// TableName 指定表名
func (TagProducts) TableName() string {
	return "tags_to_products"
}

// SiteTags 列表页标签缓存表：每个语言、每个列表页一行
// 保存页面可达的所有激活产品的标签并集，每次全量重建，不做增量修补
type SiteTags struct {
	Lang   string `gorm:"primaryKey;type:text;column:lang" json:"lang"`
	SiteID string `gorm:"primaryKey;type:text;column:site_id" json:"siteID"`
	Tags   string `gorm:"type:text;not null;column:tags" json:"tags"`
}

// TableName 指定表名
func (SiteTags) TableName() string {
	return "site_tags"
}
