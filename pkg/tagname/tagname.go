// Package tagname 提供标签标题到内部标签名的规范化
// 同一个标题在同一语言下始终得到同一个标签名，
// 标签名只包含小写字母、数字、下划线和连字符
package tagname

import (
	"strings"
	"unicode"
)

// MaxLength 标签名最大长度
const MaxLength = 250

// Clear 将标签标题规范化为内部标签名
// 规则：转小写、空白转下划线、去掉其他非字母数字字符
func Clear(title string) string {
	title = strings.TrimSpace(title)

	var b strings.Builder
	b.Grow(len(title))

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII:
			b.WriteRune(r)
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		case r == '_' || r == '-':
			b.WriteRune(r)
		}
	}

	name := b.String()
	if len(name) > MaxLength {
		name = name[:MaxLength]
	}

	return name
}

// Valid 判断是否为合法的内部标签名
func Valid(name string) bool {
	if name == "" || len(name) > MaxLength {
		return false
	}

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}

	return true
}
