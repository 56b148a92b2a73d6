package models

// MaxCartQuantity caps a single cart or order line. Binding tags repeat the
// value as lte=10000.
const MaxCartQuantity = 10000

// CartItem is one rendered cart line. ID is the product id.
type CartItem struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
	Image     *string `json:"image"`
	Brand     *string `json:"brand"`
}

// Cart has the same shape for guests and logged-in users.
type Cart struct {
	LoggedIn bool       `json:"loggedIn"`
	Items    []CartItem `json:"items"`
	Total    float64    `json:"total"`
}

// CartLine is a product and quantity pair, used for guest carts and
// direct order payloads.
type CartLine struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0,lte=10000"`
}
