// Package delimited 提供索引表行使用的分隔列表格式的编解码
// 存储格式为前后都带分隔符的字符串（如：",a,b,c,"），
// 单行即可通过 LIKE ",x," 判断成员关系，无需 JOIN
package delimited

import (
	"strings"
)

// Separator 列表分隔符
const Separator = ","

// Join 将列表编码为分隔字符串（格式：",a,b,c,"）
// 空列表返回空字符串，而不是 ",,"
func Join(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return Separator + strings.Join(items, Separator) + Separator
}

// Split 将分隔字符串解码为列表
// 忽略空元素，因此 ",a,,b," 解码为 ["a" "b"]
func Split(value string) []string {
	value = strings.Trim(value, Separator)
	if value == "" {
		return []string{}
	}

	parts := strings.Split(value, Separator)
	items := make([]string, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			continue
		}
		items = append(items, part)
	}

	return items
}

// Contains 判断分隔字符串中是否包含某个元素
// 完全匹配，不是子串匹配
func Contains(value, item string) bool {
	return strings.Contains(value, Separator+item+Separator)
}

// Pattern 返回用于 SQL LIKE 查询的成员匹配模式（如："%,x,%"）
func Pattern(item string) string {
	return "%" + Separator + item + Separator + "%"
}

// Set 保持插入顺序的字符串集合
// 索引表的行内容不允许重复元素，写入前都通过 Set 去重
type Set struct {
	items []string
	index map[string]struct{}
}

// NewSet 创建集合，初始元素按顺序去重
func NewSet(items ...string) *Set {
	s := &Set{
		items: make([]string, 0, len(items)),
		index: make(map[string]struct{}, len(items)),
	}
	s.Add(items...)
	return s
}

// Add 添加元素，已存在的忽略
func (s *Set) Add(items ...string) {
	for _, item := range items {
		if item == "" {
			continue
		}
		if _, ok := s.index[item]; ok {
			continue
		}
		s.index[item] = struct{}{}
		s.items = append(s.items, item)
	}
}

// Remove 移除元素
func (s *Set) Remove(items ...string) {
	for _, item := range items {
		if _, ok := s.index[item]; !ok {
			continue
		}
		delete(s.index, item)
		for i, existing := range s.items {
			if existing == item {
				s.items = append(s.items[:i], s.items[i+1:]...)
				break
			}
		}
	}
}

// Has 判断元素是否存在
func (s *Set) Has(item string) bool {
	_, ok := s.index[item]
	return ok
}

// Len 返回元素数量
func (s *Set) Len() int {
	return len(s.items)
}

// Items 返回元素列表（插入顺序的副本）
func (s *Set) Items() []string {
	items := make([]string, len(s.items))
	copy(items, s.items)
	return items
}

// Diff 返回在 s 中但不在 other 中的元素
func (s *Set) Diff(other *Set) []string {
	result := []string{}
	for _, item := range s.items {
		if !other.Has(item) {
			result = append(result, item)
		}
	}
	return result
}

// Union 合并另一个集合的所有元素
func (s *Set) Union(other *Set) {
	s.Add(other.items...)
}

// Encode 将集合编码为分隔字符串
func (s *Set) Encode() string {
	return Join(s.items)
}

// DecodeSet 将分隔字符串解码为集合
func DecodeSet(value string) *Set {
	return NewSet(Split(value)...)
}
