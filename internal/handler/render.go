package handler

import (
	"bytes"
	"log"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

	// UGC 策略允许常见富文本标签，过滤脚本与事件属性
	htmlPolicy = bluemonday.UGCPolicy()
)

// renderMarkdown 将 Markdown 正文渲染为净化后的 HTML。
func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		log.Printf("[RENDER] markdown 渲染失败: %v", err)
		return ""
	}
	return htmlPolicy.Sanitize(buf.String())
}
