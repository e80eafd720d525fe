package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumenblog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSettingNotFound 表示请求的配置项不存在。
var ErrSettingNotFound = errors.New("setting not found")

// AIConfigurator 是设置模块所依赖的摘要服务能力。
type AIConfigurator interface {
	Configure(apiKey string) bool
	IsAvailable() bool
	GenerateSummary(ctx context.Context, title, content string) (string, error)
}

// SettingService 提供系统设置的读取与更新能力。
// Gemini API Key 在读取时只返回脱敏后的形式。
type SettingService struct {
	db *gorm.DB
	ai AIConfigurator
}

// NewSettingService 构造 SettingService。
func NewSettingService(gdb *gorm.DB, ai AIConfigurator) *SettingService {
	return &SettingService{db: gdb, ai: ai}
}

// Get 读取单个配置项，敏感键返回脱敏值。
func (s *SettingService) Get(key string) (string, error) {
	var record db.Setting
	if err := s.db.Where("key = ?", key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSettingNotFound
		}
		return "", fmt.Errorf("load setting %s: %w", key, err)
	}

	if key == db.SettingKeyGeminiAPIKey {
		return maskSecret(record.Value), nil
	}
	return record.Value, nil
}

// GetAll 读取全部配置项供后台展示，敏感键脱敏。
func (s *SettingService) GetAll() (map[string]string, error) {
	var records []db.Setting
	if err := s.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	settings := make(map[string]string, len(records))
	for _, record := range records {
		if record.Key == db.SettingKeyGeminiAPIKey {
			settings[record.Key] = maskSecret(record.Value)
			continue
		}
		settings[record.Key] = record.Value
	}
	return settings, nil
}

// Set 写入配置项；Gemini API Key 额外推送给摘要服务重新初始化。
func (s *SettingService) Set(key, value string) error {
	setting := db.Setting{Key: key, Value: value}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}

	if key == db.SettingKeyGeminiAPIKey && s.ai != nil {
		s.ai.Configure(value)
	}
	return nil
}

// IsAIAvailable 透出摘要服务的可用状态。
func (s *SettingService) IsAIAvailable() bool {
	return s.ai != nil && s.ai.IsAvailable()
}

// TestAI 用一段固定文本验证摘要服务的连通性。
func (s *SettingService) TestAI(ctx context.Context) (string, error) {
	if !s.IsAIAvailable() {
		return "", ErrAIUnavailable
	}
	return s.ai.GenerateSummary(ctx, "测试文章", "这是一篇用于测试 AI 总结功能的文章。")
}

// maskSecret 返回固定掩码加末四位，过短的值完全掩盖。
func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		return "******"
	}
	return "******" + string(runes[len(runes)-4:])
}
