package models

// Category is a top-level listing category.
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Icon          string        `json:"icon"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Subcategory belongs to exactly one Category.
type Subcategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Categories is the fixed category tree offered to sellers.
var Categories = []Category{
	{ID: "clothing", Name: "Clothing", Icon: "fa-solid fa-shirt", Subcategories: []Subcategory{
		{ID: "sneakers", Name: "Sneakers"},
		{ID: "hoodies", Name: "Hoodies"},
		{ID: "t-shirts", Name: "T-shirts"},
		{ID: "accessories", Name: "Accessories"},
	}},
	{ID: "electronics", Name: "Electronics", Icon: "fa-solid fa-mobile-screen", Subcategories: []Subcategory{
		{ID: "phones", Name: "Phones"},
		{ID: "laptops", Name: "Laptops"},
		{ID: "headphones", Name: "Headphones"},
	}},
	{ID: "digital-goods", Name: "Digital goods", Icon: "fa-solid fa-gamepad", Subcategories: []Subcategory{
		{ID: "game-accounts", Name: "Game accounts"},
		{ID: "game-items", Name: "In-game items"},
		{ID: "subscriptions", Name: "Subscriptions"},
	}},
	{ID: "vapes", Name: "Vapes", Icon: "fa-solid fa-smoking", Subcategories: []Subcategory{
		{ID: "vape-devices", Name: "Devices"},
		{ID: "vape-liquids", Name: "Liquids"},
	}},
	{ID: "other", Name: "Other", Icon: "fa-solid fa-box", Subcategories: []Subcategory{
		{ID: "misc", Name: "Miscellaneous"},
	}},
}

// Cities lists the cities a listing can be placed in. The first entry is the
// default used when stored listings lack a city.
var Cities = []string{
	"Kyiv", "Kharkiv", "Odesa", "Dnipro", "Zaporizhzhia",
	"Lviv", "Kryvyi Rih", "Mykolaiv", "Vinnytsia", "Poltava",
	"Chernihiv", "Cherkasy", "Zhytomyr", "Sumy", "Rivne",
}

// DefaultCity is the backfill value for listings without a city.
var DefaultCity = Cities[0]
