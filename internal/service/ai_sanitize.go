package service

import "regexp"

var (
	markdownImagePattern      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	markdownLinkPattern       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	markdownFencedCodePattern = regexp.MustCompile("(?s)```.*?```")
	markdownInlineCodePattern = regexp.MustCompile("`[^`\n]*`")
)

// sanitizeForSummary 在生成 Prompt 前清理 Markdown 噪音：
// 移除图片引用，链接折叠为可见文本，代码块替换为占位符，并截断到上限长度。
func sanitizeForSummary(content string) string {
	cleaned := markdownImagePattern.ReplaceAllString(content, "")
	cleaned = markdownLinkPattern.ReplaceAllString(cleaned, "$1")
	cleaned = markdownFencedCodePattern.ReplaceAllString(cleaned, "[代码块]")
	cleaned = markdownInlineCodePattern.ReplaceAllString(cleaned, "")
	return truncateRunes(cleaned, maxSummaryContentRuneCount)
}
