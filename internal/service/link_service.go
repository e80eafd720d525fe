package service

import (
	"errors"
	"strings"

	"github.com/lumenblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrLinkNotFound      = errors.New("link not found")
	ErrLinkTitleRequired = errors.New("link title is required")
	ErrLinkURLRequired   = errors.New("link url is required")
)

// LinkService wraps navigation link database operations.
type LinkService struct {
	db *gorm.DB
}

// LinkInput represents fields accepted when creating a link.
type LinkInput struct {
	Title       string
	Description string
	URL         string
	Icon        string
	Category    string
	SortOrder   int
}

// LinkUpdate 表示部分更新：nil 字段保持原值不变。
type LinkUpdate struct {
	Title       *string
	Description *string
	URL         *string
	Icon        *string
	Category    *string
	SortOrder   *int
	IsActive    *bool
}

// NewLinkService creates a LinkService instance.
func NewLinkService(gdb *gorm.DB) *LinkService {
	return &LinkService{db: gdb}
}

// ListActive returns active links ordered by sort order, then newest first.
func (s *LinkService) ListActive() ([]db.Link, error) {
	var links []db.Link
	if err := s.db.
		Where("is_active = ?", true).
		Order("sort_order asc, created_at desc").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// Get fetches a link by id.
func (s *LinkService) Get(id uint) (*db.Link, error) {
	var link db.Link
	if err := s.db.First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

// Create persists a navigation link with defaults matching the admin UI.
func (s *LinkService) Create(input LinkInput) (*db.Link, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrLinkTitleRequired
	}
	linkURL := strings.TrimSpace(input.URL)
	if linkURL == "" {
		return nil, ErrLinkURLRequired
	}

	icon := strings.TrimSpace(input.Icon)
	if icon == "" {
		icon = "🔗"
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = "默认"
	}

	link := db.Link{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		URL:         linkURL,
		Icon:        icon,
		Category:    category,
		SortOrder:   input.SortOrder,
		IsActive:    true,
	}

	if err := s.db.Create(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// Update applies partial updates to an existing link.
func (s *LinkService) Update(id uint, input LinkUpdate) (*db.Link, error) {
	var existing db.Link
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		existing.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		existing.Description = strings.TrimSpace(*input.Description)
	}
	if input.URL != nil {
		existing.URL = strings.TrimSpace(*input.URL)
	}
	if input.Icon != nil {
		existing.Icon = strings.TrimSpace(*input.Icon)
	}
	if input.Category != nil {
		existing.Category = strings.TrimSpace(*input.Category)
	}
	if input.SortOrder != nil {
		existing.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// Delete removes a link by id.
func (s *LinkService) Delete(id uint) error {
	res := s.db.Delete(&db.Link{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}
