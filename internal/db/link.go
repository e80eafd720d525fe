package db

import "gorm.io/gorm"

// Link 定义了导航链接模型
type Link struct {
	gorm.Model
	Title       string `gorm:"size:100;not null"`
	Description string `gorm:"size:500"`
	URL         string `gorm:"size:500;not null"`
	Icon        string `gorm:"size:50"`
	Category    string `gorm:"size:50;default:默认"`
	SortOrder   int    `gorm:"default:0"`
	IsActive    bool   `gorm:"default:true"`
}
