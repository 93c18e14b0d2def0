package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Recipe is a catalog record owned by the hosted backend.
type Recipe struct {
	ID             string         `gorm:"primarykey;type:varchar(64)" json:"id"`
	Title          string         `gorm:"not null" json:"title"`
	Method         string         `gorm:"type:text" json:"method"`
	Images         pq.StringArray `gorm:"type:text" json:"images"`
	CookingMinutes int            `json:"cooking_minutes"`
	Price          float64        `gorm:"not null" json:"price"`
	Ingredients    pq.StringArray `gorm:"type:text" json:"ingredients"`
	Category       string         `gorm:"type:varchar(100);index" json:"category"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (Recipe) TableName() string {
	return "recipes"
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// CookingTime renders minutes the way the document store keeps them ("25 minutes").
func (r Recipe) CookingTime() string {
	if r.CookingMinutes <= 0 {
		return ""
	}
	return FormatCookingTime(r.CookingMinutes)
}

// PrimaryImage is the first image URL, or "" when there is none.
func (r Recipe) PrimaryImage() string {
	if len(r.Images) == 0 {
		return ""
	}
	return r.Images[0]
}

func FormatCookingTime(minutes int) string {
	return fmt.Sprintf("%d minutes", minutes)
}

// ParseCookingTime accepts "25 minutes", "25 min" or a bare "25". Unparseable input yields 0.
func ParseCookingTime(s string) int {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, "minutes")
	s = strings.TrimSuffix(s, "minute")
	s = strings.TrimSuffix(s, "min")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
