package entity

import (
	"fmt"
	"time"
)

// 字段类型
const (
	// FieldTypeAttributeList 属性列表字段，产品可以带多个条目
	FieldTypeAttributeList = "attribute-list"
	// FieldTypeAttributeGroup 属性组字段，产品只能选择一个条目（如变体维度）
	FieldTypeAttributeGroup = "attribute-group"
	// FieldTypeTags 产品标签字段
	FieldTypeTags = "productstags.tags"
)

// TagsFieldID 标准标签字段的固定 ID
const TagsFieldID = "field-101"

// FieldEntry 属性字段的一个配置条目
// 标题按语言存储，开启 generate_tags 后每个条目标题会成为一个标签
type FieldEntry struct {
	Value  string            `json:"value"` // 条目值，产品通过它选中条目
	Titles map[string]string `json:"titles"`
	Image  string            `json:"image,omitempty"`
}

// Title 返回条目在某语言下的标题，缺失时回退到任意已配置语言
func (e *FieldEntry) Title(lang string) string {
	if title, ok := e.Titles[lang]; ok && title != "" {
		return title
	}
	for _, title := range e.Titles {
		if title != "" {
			return title
		}
	}
	return e.Value
}

// FieldOptions 属性字段的配置
type FieldOptions struct {
	GenerateTags bool         `json:"generateTags"`
	SearchFilter bool         `json:"searchFilter"` // 已配置为默认搜索过滤器的字段不再挂到列表页
	Entries      []FieldEntry `json:"entries"`
}

// Field 产品属性字段配置
type Field struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Titles    map[string]string `json:"titles"`
	Options   FieldOptions `json:"options"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Validate 校验字段配置
// 配置错误属于警告级：调用方记录日志并跳过该字段
func (f *Field) Validate() error {
	switch f.Type {
	case FieldTypeAttributeList, FieldTypeAttributeGroup, FieldTypeTags:
	default:
		return fmt.Errorf("unknown field type %q", f.Type)
	}

	if f.Type == FieldTypeTags {
		return nil
	}

	seen := make(map[string]struct{}, len(f.Options.Entries))
	for i, entry := range f.Options.Entries {
		if entry.Value == "" {
			return fmt.Errorf("entry %d has no value", i)
		}
		if _, ok := seen[entry.Value]; ok {
			return fmt.Errorf("duplicate entry value %q", entry.Value)
		}
		seen[entry.Value] = struct{}{}
	}

	return nil
}

// GeneratesTags 字段是否参与标签生成
func (f *Field) GeneratesTags() bool {
	if f.Type != FieldTypeAttributeList && f.Type != FieldTypeAttributeGroup {
		return false
	}
	return f.Options.GenerateTags && len(f.Options.Entries) > 0
}

// Entry 按条目值查找配置条目
func (f *Field) Entry(value string) (*FieldEntry, bool) {
	for i := range f.Options.Entries {
		if f.Options.Entries[i].Value == value {
			return &f.Options.Entries[i], true
		}
	}
	return nil, false
}

// Title 返回字段在某语言下的标题
func (f *Field) Title(lang string) string {
	if title, ok := f.Titles[lang]; ok && title != "" {
		return title
	}
	for _, title := range f.Titles {
		if title != "" {
			return title
		}
	}
	return f.ID
}
