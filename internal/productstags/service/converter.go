// Package service 提供业务逻辑层的服务实现
// 包括增量索引器、全量重建、属性标签生成器和列表页标签缓存
package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jinzhu/copier"

	"github.com/jimyag/productstags/internal/productstags/entity"
	"github.com/jimyag/productstags/internal/productstags/repository/model"
	"github.com/jimyag/productstags/pkg/delimited"
)

// productModelToEntity 将 model.Product 转换为 entity.Product
func productModelToEntity(m *model.Product) (*entity.Product, error) {
	e := &entity.Product{
		ID:     m.ID,
		Active: m.Active,
	}

	e.Categories = delimited.Split(m.Categories)

	if m.FieldValues != "" {
		if err := json.Unmarshal([]byte(m.FieldValues), &e.FieldValues); err != nil {
			return nil, fmt.Errorf("decode field values of product %s: %w", m.ID, err)
		}
	}
	if e.FieldValues == nil {
		e.FieldValues = map[string][]string{}
	}

	if m.TagData != "" {
		if err := json.Unmarshal([]byte(m.TagData), &e.TagSet); err != nil {
			return nil, fmt.Errorf("decode tag data of product %s: %w", m.ID, err)
		}
	}
	if e.TagSet == nil {
		e.TagSet = entity.TagSet{}
	}

	// 处理时间字段
	e.CreatedAt = m.CreatedAt.Format(time.RFC3339)
	e.UpdatedAt = m.UpdatedAt.Format(time.RFC3339)

	return e, nil
}

// productEntityToModel 将 entity.Product 转换为 model.Product
func productEntityToModel(e *entity.Product) (*model.Product, error) {
	m := &model.Product{
		ID:         e.ID,
		Active:     e.Active,
		Categories: delimited.Join(e.Categories),
	}

	if len(e.FieldValues) > 0 {
		data, err := json.Marshal(e.FieldValues)
		if err != nil {
			return nil, fmt.Errorf("encode field values of product %s: %w", e.ID, err)
		}
		m.FieldValues = string(data)
	}

	if len(e.TagSet) > 0 {
		data, err := json.Marshal(e.TagSet)
		if err != nil {
			return nil, fmt.Errorf("encode tag data of product %s: %w", e.ID, err)
		}
		m.TagData = string(data)
	}

	// 处理时间字段
	if e.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, e.CreatedAt); err == nil {
			m.CreatedAt = t
		} else {
			m.CreatedAt = time.Now()
		}
	} else {
		m.CreatedAt = time.Now()
	}
	m.UpdatedAt = time.Now()

	return m, nil
}

// fieldModelToEntity 将 model.Field 转换为 entity.Field
func fieldModelToEntity(m *model.Field) (*entity.Field, error) {
	e := &entity.Field{
		ID:        m.ID,
		Type:      m.Type,
		UpdatedAt: m.UpdatedAt,
	}

	if m.Titles != "" {
		if err := json.Unmarshal([]byte(m.Titles), &e.Titles); err != nil {
			return nil, fmt.Errorf("decode titles of field %s: %w", m.ID, err)
		}
	}

	if m.Options != "" {
		if err := json.Unmarshal([]byte(m.Options), &e.Options); err != nil {
			return nil, fmt.Errorf("decode options of field %s: %w", m.ID, err)
		}
	}

	return e, nil
}

// fieldEntityToModel 将 entity.Field 转换为 model.Field
func fieldEntityToModel(e *entity.Field) (*model.Field, error) {
	m := &model.Field{
		ID:   e.ID,
		Type: e.Type,
	}

	if len(e.Titles) > 0 {
		data, err := json.Marshal(e.Titles)
		if err != nil {
			return nil, fmt.Errorf("encode titles of field %s: %w", e.ID, err)
		}
		m.Titles = string(data)
	}

	data, err := json.Marshal(e.Options)
	if err != nil {
		return nil, fmt.Errorf("encode options of field %s: %w", e.ID, err)
	}
	m.Options = string(data)

	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()

	return m, nil
}

// siteModelToEntity 将 model.Site 转换为 entity.Site
func siteModelToEntity(m *model.Site) *entity.Site {
	return &entity.Site{
		ID:              m.ID,
		Lang:            m.Lang,
		CategoryID:      m.CategoryID,
		ExtraCategories: delimited.Split(m.ExtraCategories),
		TagGroups:       delimited.Split(m.TagGroups),
	}
}

// siteEntityToModel 将 entity.Site 转换为 model.Site
func siteEntityToModel(e *entity.Site) *model.Site {
	return &model.Site{
		ID:              e.ID,
		Lang:            e.Lang,
		CategoryID:      e.CategoryID,
		ExtraCategories: delimited.Join(e.ExtraCategories),
		TagGroups:       delimited.Join(e.TagGroups),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

// projectModelToEntity 将 model.Project 转换为 entity.Project
func projectModelToEntity(m *model.Project) *entity.Project {
	return &entity.Project{
		Name:      m.Name,
		Default:   m.IsDefault,
		Languages: delimited.Split(m.Languages),
	}
}

// tagModelToEntity 将 model.Tag 转换为 entity.Tag
func tagModelToEntity(m *model.Tag) (*entity.Tag, error) {
	e := &entity.Tag{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}
	return e, nil
}

// tagGroupModelToEntity 将 model.TagGroup 转换为 entity.TagGroup
// tags 由调用方从成员表读出后填入
func tagGroupModelToEntity(m *model.TagGroup, tags []string) (*entity.TagGroup, error) {
	e := &entity.TagGroup{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}
	e.Tags = tags
	return e, nil
}
