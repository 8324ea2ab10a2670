package services

import (
	"time"

	"github.com/isdelr/baraholka-be/internal/models"
)

// Owners of the first-run demonstration listings. They are not real accounts.
const (
	SampleUserID1 = "sampleUser123"
	SampleUserID2 = "sampleSellerABC"
	SampleUserID3 = "anotherSampleSellerXYZ"
)

const placeholderImage = "https://placehold.co/600x400?text=Item+"

// sampleListings builds the demonstration fleet relative to now.
func sampleListings(now time.Time) []models.Product {
	ago := func(d time.Duration) int64 { return now.Add(-d).UnixMilli() }
	day := 24 * time.Hour

	return []models.Product{
		{
			ID:          "1",
			Title:       "Nike Air sneakers",
			Description: "Almost new, worn a couple of times. Size 42. Original.",
			Price:       2500,
			Category:    "clothing",
			Subcategory: "sneakers",
			Images:      []string{placeholderImage + "1", placeholderImage + "2"},
			UserID:      SampleUserID2,
			Status:      models.StatusActive,
			CreatedAt:   ago(2 * day),
			ContactInfo: "@nike_seller_example",
			City:        models.Cities[1],
			Condition:   models.ConditionUsed,
		},
		{
			ID:          "2",
			Title:       "iPhone 13 Pro Max (new)",
			Description: "Perfect condition, full set. 256GB. Sealed.",
			Price:       35000,
			Category:    "electronics",
			Subcategory: "phones",
			Images:      []string{placeholderImage + "3"},
			UserID:      SampleUserID3,
			Status:      models.StatusActive,
			CreatedAt:   ago(5 * day),
			ContactInfo: "@apple_fan_example",
			City:        models.Cities[5],
			Condition:   models.ConditionNew,
		},
		{
			ID:          "3",
			Title:       "Steam account with CS2 Prime",
			Description: "Lots of games, high level. Details in DM.",
			Price:       1200,
			Category:    "digital-goods",
			Subcategory: "game-accounts",
			Images:      []string{},
			UserID:      SampleUserID1,
			Status:      models.StatusPending,
			CreatedAt:   ago(3 * time.Hour),
			ContactInfo: "@my_steam_acc_example",
			City:        models.Cities[0],
			Condition:   models.ConditionUsed,
		},
		{
			ID:          "4",
			Title:       "Forest berries vape liquid (new)",
			Description: "Very tasty, 3mg nicotine. New and sealed.",
			Price:       300,
			Category:    "vapes",
			Subcategory: "vape-liquids",
			Images:      []string{placeholderImage + "4"},
			UserID:      SampleUserID3,
			Status:      models.StatusActive,
			CreatedAt:   ago(day),
			ContactInfo: "@vape_guru_example",
			City:        models.Cities[3],
			Condition:   models.ConditionNew,
		},
		{
			ID:              "5",
			Title:           "Grey unisex hoodie",
			Description:     "Size L, very warm and comfortable. Excellent condition.",
			Price:           800,
			Category:        "clothing",
			Subcategory:     "hoodies",
			Images:          []string{placeholderImage + "5", placeholderImage + "6"},
			UserID:          SampleUserID1,
			Status:          models.StatusRejected,
			RejectionReason: "The photo does not match the item. Please upload a current photo.",
			CreatedAt:       ago(3 * day),
			ContactInfo:     "@fashion_lover_example",
			City:            models.Cities[5],
			Condition:       models.ConditionUsed,
		},
	}
}
