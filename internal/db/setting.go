package db

import "gorm.io/gorm"

// Setting 存储后台可配置的系统级键值对。
type Setting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// SettingKeyGeminiAPIKey 表示 Gemini API Key，读取时只返回脱敏后的值。
const SettingKeyGeminiAPIKey = "gemini_api_key"
