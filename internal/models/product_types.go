package models

// Product is a catalog entry. Nullable columns are pointers so the JSON
// carries null instead of empty strings.
type Product struct {
	ID                 int64   `json:"id" db:"id"`
	Name               string  `json:"productName" db:"productName"`
	Slug               string  `json:"slug"`
	Price              float64 `json:"price" db:"price"`
	Image              *string `json:"image" db:"image"`
	SecondaryImage1    *string `json:"secondaryImage1" db:"secondaryImage1"`
	SecondaryImage2    *string `json:"secondaryImage2" db:"secondaryImage2"`
	SecondaryImage3    *string `json:"secondaryImage3" db:"secondaryImage3"`
	Brand              *string `json:"brand" db:"brand"`
	ProductDescription *string `json:"productDescription" db:"productDescription"`
	IsTrending         bool    `json:"isTrending" db:"isTrending"`
	CategoryID         int64   `json:"categoryId" db:"categoryId"`
	CategoryName       string  `json:"categoryName,omitempty"`
	PublishingDate     string  `json:"publishingDate" db:"publishingDate"`
}

// Images returns the non-empty image URLs, main image first (at most four).
func (p *Product) Images() []string {
	images := make([]string, 0, 4)
	for _, img := range []*string{p.Image, p.SecondaryImage1, p.SecondaryImage2, p.SecondaryImage3} {
		if img != nil && *img != "" {
			images = append(images, *img)
		}
	}
	return images
}

// ProductFilter narrows the public product listing.
type ProductFilter struct {
	Query        string
	CategoryID   int64
	TrendingOnly bool
}

type HeroImage struct {
	ID       int64  `json:"id" db:"id"`
	ImageURL string `json:"image_url" db:"image_url"`
}
