package entity

// GeneratorUser 用户手动添加的标签的来源标识
const GeneratorUser = "user"

// GeneratorAttributeTags 属性字段标签生成器的来源标识
const GeneratorAttributeTags = "quiqqer/productstags"

// TagAssignment 产品上的一条标签分配记录
// Generator 记录来源：用户手动添加或某个自动生成器
type TagAssignment struct {
	Tag       string `json:"tag"`
	Generator string `json:"generator"`
}

// Tag 标签字典中的一条标签
type Tag struct {
	Project   string `json:"project"`
	Lang      string `json:"lang"`
	Tag       string `json:"tag"` // 内部标签名，语言内唯一
	Title     string `json:"title"`
	Image     string `json:"image,omitempty"`
	Generator string `json:"generator"`
}

// TagGroup 标签组，通常对应一个生成标签的属性字段
type TagGroup struct {
	ID           string   `json:"id"`
	Project      string   `json:"project"`
	Lang         string   `json:"lang"`
	Title        string   `json:"title"`
	WorkingTitle string   `json:"workingTitle"`
	Generator    string   `json:"generator"`
	Tags         []string `json:"tags"`
}

// TagSet 产品的标签集合：语言 -> 分配列表
// 产品记录自身是权威数据源，索引表只是它的派生视图
type TagSet map[string][]TagAssignment

// Tags 返回某语言下去重后的标签名列表，保持首次出现顺序
func (ts TagSet) Tags(lang string) []string {
	assignments := ts[lang]
	seen := make(map[string]struct{}, len(assignments))
	tags := make([]string, 0, len(assignments))

	for _, a := range assignments {
		if a.Tag == "" {
			continue
		}
		if _, ok := seen[a.Tag]; ok {
			continue
		}
		seen[a.Tag] = struct{}{}
		tags = append(tags, a.Tag)
	}

	return tags
}

// TagsByGenerator 返回某语言下指定生成器创建的标签名列表
func (ts TagSet) TagsByGenerator(lang, generator string) []string {
	tags := []string{}
	for _, a := range ts[lang] {
		if a.Generator == generator {
			tags = append(tags, a.Tag)
		}
	}
	return tags
}

// Add 添加一条分配记录
// 同一 (tag, generator) 组合已存在时不重复添加
func (ts TagSet) Add(lang, tag, generator string) bool {
	for _, a := range ts[lang] {
		if a.Tag == tag && a.Generator == generator {
			return false
		}
	}
	ts[lang] = append(ts[lang], TagAssignment{Tag: tag, Generator: generator})
	return true
}

// Remove 移除某语言下指定标签的所有分配记录
func (ts TagSet) Remove(lang, tag string) {
	assignments := ts[lang]
	kept := assignments[:0]
	for _, a := range assignments {
		if a.Tag != tag {
			kept = append(kept, a)
		}
	}
	ts[lang] = kept
}

// RemoveByGenerator 移除某语言下指定生成器创建的所有分配记录
// generator 为空时移除该语言的全部分配
func (ts TagSet) RemoveByGenerator(lang, generator string) {
	if generator == "" {
		ts[lang] = []TagAssignment{}
		return
	}

	assignments := ts[lang]
	kept := assignments[:0]
	for _, a := range assignments {
		if a.Generator != generator {
			kept = append(kept, a)
		}
	}
	ts[lang] = kept
}

// Cleanup 清理标签集合
// 去掉缺少 tag/generator 的记录，同一语言内重复标签只保留第一条，
// 并保证每个配置语言都有一个（可能为空的）条目
// exists 用于过滤字典中不存在的标签，传 nil 表示跳过该检查
func (ts TagSet) Cleanup(languages []string, exists func(lang, tag string) bool) TagSet {
	result := make(TagSet, len(languages))

	for _, lang := range languages {
		result[lang] = []TagAssignment{}
		seen := map[string]struct{}{}

		for _, a := range ts[lang] {
			if a.Tag == "" || a.Generator == "" {
				continue
			}
			if _, ok := seen[a.Tag]; ok {
				continue
			}
			if exists != nil && !exists(lang, a.Tag) {
				continue
			}
			seen[a.Tag] = struct{}{}
			result[lang] = append(result[lang], a)
		}
	}

	return result
}
