package service

import (
	"context"
	"sort"

	"github.com/mykitchen/kitchen/internal/app/repository"
	"github.com/mykitchen/kitchen/pkg/logger"
)

const Uncategorized = "uncategorized"

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type TitleCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

type CookingTimePoint struct {
	RecipeID string `json:"id"`
	Title    string `json:"title"`
	Minutes  int    `json:"minutes"`
}

// Charts holds the series behind the catalog dashboards.
type Charts struct {
	TotalRecipes int                `json:"total_recipes"`
	Categories   []CategoryCount    `json:"categories"`
	Titles       []TitleCount       `json:"titles"`
	CookingTimes []CookingTimePoint `json:"cooking_times"`
}

type AnalyticsService interface {
	Charts(ctx context.Context) (*Charts, error)
}

type analyticsService struct {
	recipeRepo repository.RecipeRepository
}

func NewAnalyticsService(recipeRepo repository.RecipeRepository) AnalyticsService {
	return &analyticsService{recipeRepo: recipeRepo}
}

func (s *analyticsService) Charts(ctx context.Context) (*Charts, error) {
	recipes, err := s.recipeRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to load recipes for charts", err)
		return nil, err
	}

	byCategory := map[string]int{}
	byTitle := map[string]int{}
	charts := &Charts{
		TotalRecipes: len(recipes),
		CookingTimes: []CookingTimePoint{},
	}

	for _, r := range recipes {
		category := r.Category
		if category == "" {
			category = Uncategorized
		}
		byCategory[category]++
		byTitle[r.Title]++

		if r.CookingMinutes > 0 {
			charts.CookingTimes = append(charts.CookingTimes, CookingTimePoint{
				RecipeID: r.ID,
				Title:    r.Title,
				Minutes:  r.CookingMinutes,
			})
		}
	}

	charts.Categories = make([]CategoryCount, 0, len(byCategory))
	for c, n := range byCategory {
		charts.Categories = append(charts.Categories, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(charts.Categories, func(i, j int) bool {
		a, b := charts.Categories[i], charts.Categories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})

	charts.Titles = make([]TitleCount, 0, len(byTitle))
	for t, n := range byTitle {
		charts.Titles = append(charts.Titles, TitleCount{Title: t, Count: n})
	}
	sort.Slice(charts.Titles, func(i, j int) bool {
		a, b := charts.Titles[i], charts.Titles[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Title < b.Title
	})

	logger.Debug("Charts computed", map[string]interface{}{
		"recipes":    charts.TotalRecipes,
		"categories": len(charts.Categories),
	})
	return charts, nil
}
