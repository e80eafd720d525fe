package service

import (
	"strings"
	"unicode"
)

// DeriveSlug 从标题推导 URL 标识：转为小写，仅保留字母、数字与 CJK 字符，
// 其余连续字符折叠为单个连字符，并去掉首尾连字符。对已规范化的输入幂等。
func DeriveSlug(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))

	slug := make([]rune, 0, len(lowered))
	lastDash := false
	for _, ch := range lowered {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || unicode.Is(unicode.Han, ch) {
			slug = append(slug, ch)
			lastDash = false
			continue
		}
		if !lastDash && len(slug) > 0 {
			slug = append(slug, '-')
			lastDash = true
		}
	}

	return strings.Trim(string(slug), "-")
}
