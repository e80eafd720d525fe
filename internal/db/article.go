package db

import "gorm.io/gorm"

// Article 定义了文章模型
type Article struct {
	gorm.Model
	Title     string   `gorm:"size:200;not null"`
	Slug      string   `gorm:"size:200;uniqueIndex"`
	Content   string   `gorm:"type:text;not null"`
	Summary   string   `gorm:"size:500"`
	AISummary string   `gorm:"type:text"`
	Tags      []string `gorm:"serializer:json"`
	Published bool     `gorm:"index;default:false"`
	ViewCount int      `gorm:"default:0"`
}
