package entity

// Product 产品
// TagSet 是标签数据的权威来源，FieldValues 记录每个属性字段选中的条目值
type Product struct {
	ID          string              `json:"id"`
	Active      bool                `json:"active"`
	Categories  []string            `json:"categories,omitempty"`
	FieldValues map[string][]string `json:"fieldValues,omitempty"` // fieldID -> 选中的条目值
	TagSet      TagSet              `json:"tags,omitempty"`
	CreatedAt   string              `json:"createdAt,omitempty"`
	UpdatedAt   string              `json:"updatedAt,omitempty"`
}

// HasField 产品是否带有某个属性字段的值
func (p *Product) HasField(fieldID string) bool {
	values, ok := p.FieldValues[fieldID]
	return ok && len(values) > 0
}

// SelectedValues 返回产品在某字段上选中的条目值
func (p *Product) SelectedValues(fieldID string) []string {
	return p.FieldValues[fieldID]
}

// Category 产品分类，记录挂在该分类上的属性字段
type Category struct {
	ID     string   `json:"id"`
	Fields []string `json:"fields,omitempty"`
}

// HasField 分类是否挂载了某个字段
func (c *Category) HasField(fieldID string) bool {
	for _, id := range c.Fields {
		if id == fieldID {
			return true
		}
	}
	return false
}

// Site 分类列表页
// 展示主分类及额外关联分类下的产品，TagGroups 保存挂在页面上的标签组
type Site struct {
	ID              string   `json:"id"`
	Lang            string   `json:"lang"`
	CategoryID      string   `json:"categoryID"`
	ExtraCategories []string `json:"extraCategories,omitempty"`
	TagGroups       []string `json:"tagGroups,omitempty"`
}

// CategoryIDs 返回页面关联的全部分类 ID（主分类 + 额外分类，去重）
func (s *Site) CategoryIDs() []string {
	ids := []string{}
	seen := map[string]struct{}{}

	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	add(s.CategoryID)
	for _, id := range s.ExtraCategories {
		add(id)
	}

	return ids
}

// Project 项目（一个店面部署），维护启用的语言列表
type Project struct {
	Name      string   `json:"name"`
	Default   bool     `json:"default"`
	Languages []string `json:"languages"`
}

// HasLanguage 项目是否启用了某语言
func (p *Project) HasLanguage(lang string) bool {
	for _, l := range p.Languages {
		if l == lang {
			return true
		}
	}
	return false
}
