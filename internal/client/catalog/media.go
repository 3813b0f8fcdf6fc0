package catalog

import (
	"slices"

	"github.com/dmitrijs2005/flock/internal/client/models"
)

// FilterByCategory keeps items in category. CategoryAll and "" keep
// everything.
func FilterByCategory(items []models.MediaItem, category string) []models.MediaItem {
	if category == "" || category == models.CategoryAll {
		return items
	}
	out := make([]models.MediaItem, 0, len(items))
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// Featured is the first Sunday preaching, which the media screen shows on top.
func Featured(items []models.MediaItem) (models.MediaItem, bool) {
	for _, it := range items {
		if it.Category == models.CategorySundayPreachings {
			return it, true
		}
	}
	return models.MediaItem{}, false
}

func FindMedia(items []models.MediaItem, id int64) (models.MediaItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return models.MediaItem{}, false
}

// ValidCategory reports whether c is one of models.MediaCategories.
func ValidCategory(c string) bool {
	return slices.Contains(models.MediaCategories, c)
}
