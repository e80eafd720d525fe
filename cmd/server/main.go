package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/lumenblog/internal/config"
	"github.com/lumenblog/internal/db"
	"github.com/lumenblog/internal/handler"
	"github.com/lumenblog/internal/router"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 按环境变量补种管理员账号
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := db.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to ensure admin account: %v", err)
		}
	}

	api := handler.NewAPI(db.DB, cfg)

	// 数据库中保存的 Gemini Key 优先于环境变量
	api.BootstrapAI(cfg.GeminiAPIKey)

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, cfg.UploadDir, cfg.UploadURLPath)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
