package handler

import (
	"fmt"
	"image"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// UploadImage 处理图片上传请求，文件名由日期加 uuid 组成。
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的图片")
		return
	}

	if a.maxUpload > 0 && file.Size > a.maxUpload {
		respondError(c, http.StatusBadRequest, "图片大小超出限制")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "只允许上传图片文件")
		return
	}

	// 尺寸探测失败不阻断上传，宽高返回 0
	width, height := probeImageSize(file)

	if err := os.MkdirAll(a.uploadDir, 0755); err != nil {
		internalError(c, err, "创建上传目录失败")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		internalError(c, err, "保存文件失败")
		return
	}

	fileURL := fmt.Sprintf("%s/%s", strings.TrimRight(a.uploadURL, "/"), newFilename)
	respondSuccess(c, http.StatusCreated, gin.H{
		"url":      fileURL,
		"filename": newFilename,
		"size":     file.Size,
		"width":    width,
		"height":   height,
	})
}

func probeImageSize(file *multipart.FileHeader) (int, int) {
	src, err := file.Open()
	if err != nil {
		return 0, 0
	}
	defer src.Close()

	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
