package models

// UncategorizedName is the protected fallback category.
const UncategorizedName = "Uncategorized"

// SeedCategoryNames are inserted once into an empty categories table.
var SeedCategoryNames = []string{"Shoes", "Clothes", "Bags", "Watches", "Sunglasses"}

type Category struct {
	ID       int64   `json:"id" db:"id"`
	Name     string  `json:"categoryName" db:"categoryName"`
	Slug     string  `json:"slug"`
	ImageURL *string `json:"imageUrl" db:"image_url"`

	// Only filled by the admin listing.
	ProductCount *int `json:"productCount,omitempty"`
}

// IsProtected reports whether the category is the undeletable fallback.
func (c *Category) IsProtected() bool {
	return c.Name == UncategorizedName
}
