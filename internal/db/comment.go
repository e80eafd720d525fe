package db

import "gorm.io/gorm"

// Comment 定义了文章评论模型，is_approved 为 false 时处于待审核状态。
type Comment struct {
	gorm.Model
	ArticleID  uint    `gorm:"index;not null"`
	Article    Article `gorm:"constraint:OnDelete:CASCADE"`
	Nickname   string  `gorm:"size:50;not null"`
	Email      string  `gorm:"size:100"`
	Content    string  `gorm:"type:text;not null"`
	IsApproved bool    `gorm:"default:false"`
	IPAddress  string  `gorm:"size:45"`
}
