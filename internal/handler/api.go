package handler

import (
	"strings"

	"github.com/lumenblog/internal/config"
	"github.com/lumenblog/internal/db"
	"github.com/lumenblog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	ai        *service.AIService
	articles  *service.ArticleService
	comments  *service.CommentService
	links     *service.LinkService
	settings  *service.SettingService
	auth      *service.AuthService
	tokens    *service.TokenService
	uploadDir string
	uploadURL string
	maxUpload int64
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	aiService := service.NewAIService(cfg.GeminiModel)
	tokenService := service.NewTokenService(cfg.JWTSecret)

	return &API{
		db:        gdb,
		ai:        aiService,
		articles:  service.NewArticleService(gdb, aiService),
		comments:  service.NewCommentService(gdb),
		links:     service.NewLinkService(gdb),
		settings:  service.NewSettingService(gdb, aiService),
		auth:      service.NewAuthService(gdb, tokenService),
		tokens:    tokenService,
		uploadDir: cfg.UploadDir,
		uploadURL: cfg.UploadURLPath,
		maxUpload: cfg.MaxUploadSize,
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// AI 暴露摘要服务，供启动流程注入 API Key。
func (a *API) AI() *service.AIService {
	return a.ai
}

// BootstrapAI 初始化摘要服务：数据库中保存的 Key 优先于环境变量。
func (a *API) BootstrapAI(envKey string) {
	key := strings.TrimSpace(envKey)

	var record db.Setting
	if err := a.db.Where("key = ?", db.SettingKeyGeminiAPIKey).First(&record).Error; err == nil {
		if stored := strings.TrimSpace(record.Value); stored != "" {
			key = stored
		}
	}

	a.ai.Configure(key)
}
