package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// 正文超过该长度时截断，避免 Prompt 过长
	maxSummaryContentRuneCount = 4000
	generateTimeout            = 30 * time.Second
	resolveTimeout             = 30 * time.Second
)

// ErrAIUnavailable 表示尚未配置 API Key 或模型尚未解析完成。
var ErrAIUnavailable = errors.New("AI 服务不可用，请先配置 Gemini API Key")

// GenerationError 携带生成侧返回的错误信息。
type GenerationError struct {
	Message string
}

func (e *GenerationError) Error() string {
	return "AI 总结生成失败: " + e.Message
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// 模型解析状态：未解析 / 解析中 / 就绪 / 失败。
// 解析在后台进行，Configure 返回后调用方仍需通过 IsAvailable 确认。
type modelState int

const (
	modelUnresolved modelState = iota
	modelResolving
	modelReady
	modelFailed
)

// AIService 基于 Gemini 生成文章摘要。
type AIService struct {
	mu              sync.Mutex
	apiKey          string
	model           string
	state           modelState
	configuredModel string

	http    httpDoer
	baseURL string
}

// NewAIService 构造 AIService，configuredModel 来自进程配置，可为空。
func NewAIService(configuredModel string) *AIService {
	return &AIService{
		configuredModel: strings.TrimSpace(configuredModel),
		http:            &http.Client{Timeout: generateTimeout},
		baseURL:         defaultGeminiBaseURL,
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AIService) SetHTTPClient(client httpDoer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if client == nil {
		s.http = &http.Client{Timeout: generateTimeout}
		return
	}
	s.http = client
}

// SetBaseURL 覆盖默认的 Gemini API 地址。
func (s *AIService) SetBaseURL(base string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

// Configure 接收 Gemini API Key 并启动模型解析。Key 为空时静默标记不可用，
// 不返回错误。返回 true 仅代表 Key 已被接受，模型可能仍在后台解析。
func (s *AIService) Configure(apiKey string) bool {
	key := strings.TrimSpace(apiKey)

	s.mu.Lock()
	if key == "" {
		s.apiKey = ""
		s.model = ""
		s.state = modelUnresolved
		s.mu.Unlock()
		log.Printf("[AI] Gemini API Key 未配置，AI 总结功能不可用")
		return false
	}

	sameKey := s.apiKey == key
	s.apiKey = key

	if s.configuredModel != "" {
		s.model = strings.TrimPrefix(s.configuredModel, "models/")
		s.state = modelReady
		s.mu.Unlock()
		log.Printf("[AI] Gemini 服务已初始化，使用配置模型: %s", s.configuredModel)
		return true
	}

	if sameKey && (s.state == modelResolving || s.state == modelReady) {
		s.mu.Unlock()
		return true
	}

	s.state = modelResolving
	s.mu.Unlock()

	go s.resolveModel(key)
	log.Printf("[AI] Gemini 服务已初始化，正在解析可用模型")
	return true
}

// IsAvailable 仅在 Key 已接受且模型解析完成后返回 true。
func (s *AIService) IsAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey != "" && s.state == modelReady
}

// resolveModel 枚举可用模型，优先选择支持 generateContent 的条目，
// 全部不支持时退回列表中的第一个。失败只记录日志，不向外抛出。
func (s *AIService) resolveModel(apiKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	s.mu.Lock()
	client := s.http
	base := s.baseURL
	s.mu.Unlock()

	endpoint := base + "/models?key=" + url.QueryEscape(apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		s.markResolveFailed(apiKey, err)
		return
	}

	resp, err := client.Do(req)
	if err != nil {
		s.markResolveFailed(apiKey, err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		s.markResolveFailed(apiKey, err)
		return
	}
	if resp.StatusCode >= http.StatusBadRequest {
		s.markResolveFailed(apiKey, fmt.Errorf("list models: %s", resp.Status))
		return
	}

	var list struct {
		Models []struct {
			Name                       string   `json:"name"`
			SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
		} `json:"models"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		s.markResolveFailed(apiKey, err)
		return
	}
	if len(list.Models) == 0 {
		s.markResolveFailed(apiKey, errors.New("model list is empty"))
		return
	}

	picked := ""
	for _, m := range list.Models {
		for _, method := range m.SupportedGenerationMethods {
			if method == "generateContent" {
				picked = m.Name
				break
			}
		}
		if picked != "" {
			break
		}
	}
	if picked == "" {
		picked = list.Models[0].Name
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Key 在解析期间被替换时丢弃本次结果
	if s.apiKey != apiKey {
		return
	}
	s.model = strings.TrimPrefix(picked, "models/")
	s.state = modelReady
	log.Printf("[AI] Gemini 自动选择模型: %s", picked)
}

func (s *AIService) markResolveFailed(apiKey string, err error) {
	log.Printf("[AI] 列出 Gemini 模型失败: %v", err)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.apiKey != apiKey {
		return
	}
	s.state = modelFailed
}

// GenerateSummary 为文章生成一段中文总结。服务不可用时返回 ErrAIUnavailable，
// 生成侧错误以 GenerationError 形式返回，超时同样视为生成失败。
func (s *AIService) GenerateSummary(ctx context.Context, title, content string) (string, error) {
	s.mu.Lock()
	available := s.apiKey != "" && s.state == modelReady
	apiKey := s.apiKey
	model := s.model
	client := s.http
	base := s.baseURL
	s.mu.Unlock()

	if !available {
		return "", ErrAIUnavailable
	}

	prompt := buildSummaryPrompt(title, sanitizeForSummary(content))
	logAIExchange("SUMMARY", "prompt", prompt)

	payload := generateContentRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &GenerationError{Message: err.Error()}
	}

	callCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", base, model, url.QueryEscape(apiKey))
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &GenerationError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "lumenblog-ai/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return "", &GenerationError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &GenerationError{Message: err.Error()}
	}

	var completion generateContentResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", &GenerationError{Message: err.Error()}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := strings.TrimSpace(completion.Error.Message)
		if msg == "" {
			msg = strings.TrimSpace(string(respBody))
		}
		if msg == "" {
			msg = resp.Status
		}
		return "", &GenerationError{Message: msg}
	}

	summary := strings.TrimSpace(completion.text())
	if summary == "" {
		return "", &GenerationError{Message: "接口未返回结果"}
	}

	logAIExchange("SUMMARY", "response", summary)
	return summary, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	// 部分实现直接返回顶层 text 字段
	Text  string `json:"text"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// text 兼容嵌套的 candidates 结构与顶层 text 字段两种返回形态。
func (r *generateContentResponse) text() string {
	if len(r.Candidates) > 0 {
		var builder strings.Builder
		for _, part := range r.Candidates[0].Content.Parts {
			builder.WriteString(part.Text)
		}
		if builder.Len() > 0 {
			return builder.String()
		}
	}
	return r.Text
}

func buildSummaryPrompt(title, content string) string {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	var builder strings.Builder
	builder.WriteString("请为以下文章生成一段简洁的中文总结（100-200字），概括文章的主要内容和核心观点。")
	builder.WriteString("只需要返回总结内容，不要包含任何前缀或标签。\n\n")
	builder.WriteString("文章标题：")
	builder.WriteString(title)
	builder.WriteString("\n\n文章内容：\n")
	builder.WriteString(content)
	return builder.String()
}

func truncateRunes(input string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(input)
	if len(runes) <= limit {
		return input
	}
	return string(runes[:limit])
}
