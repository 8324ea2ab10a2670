package services

import "github.com/isdelr/baraholka-be/internal/models"

// CategoryName returns the display name of a category, or the id itself when unknown.
func CategoryName(categoryID string) string {
	if c, ok := findCategory(categoryID); ok {
		return c.Name
	}
	return categoryID
}

// SubcategoryName returns the display name of a subcategory, or its id when unknown.
func SubcategoryName(categoryID, subcategoryID string) string {
	c, ok := findCategory(categoryID)
	if !ok {
		return subcategoryID
	}
	for _, sc := range c.Subcategories {
		if sc.ID == subcategoryID {
			return sc.Name
		}
	}
	return subcategoryID
}

func findCategory(id string) (models.Category, bool) {
	for _, c := range models.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}
