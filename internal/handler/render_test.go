package handler

import (
	"strings"
	"testing"
)

func TestRenderMarkdownBasics(t *testing.T) {
	html := renderMarkdown("# 标题\n\n**加粗**文本")
	if !strings.Contains(html, "<h1") {
		t.Fatalf("expected heading in output: %q", html)
	}
	if !strings.Contains(html, "<strong>加粗</strong>") {
		t.Fatalf("expected bold text in output: %q", html)
	}
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	html := renderMarkdown("正文 <script>alert('xss')</script> 结束")
	if strings.Contains(html, "<script>") {
		t.Fatalf("script tag must be sanitized: %q", html)
	}
}

func TestRenderMarkdownGFMTable(t *testing.T) {
	html := renderMarkdown("| A | B |\n|---|---|\n| 1 | 2 |")
	if !strings.Contains(html, "<table>") {
		t.Fatalf("expected GFM table rendering: %q", html)
	}
}
