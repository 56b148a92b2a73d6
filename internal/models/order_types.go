package models

// Order statuses. A cart order becomes created at checkout and never goes back.
const (
	OrderStatusCart    = "cart"
	OrderStatusCreated = "created"
)

// BuyerDetails is the contact snapshot stored on an order. A nil field means
// "not provided".
type BuyerDetails struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	MobilePhone *string `json:"mobilePhone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postalCode"`
}

// FillFrom returns a copy where every nil field takes the profile value.
// Empty profile values count as missing.
func (b BuyerDetails) FillFrom(p *UserProfile) BuyerDetails {
	if p == nil {
		return b
	}
	pick := func(explicit *string, fallback string) *string {
		if explicit != nil {
			return explicit
		}
		if fallback == "" {
			return nil
		}
		v := fallback
		return &v
	}
	return BuyerDetails{
		FirstName:   pick(b.FirstName, p.FirstName),
		LastName:    pick(b.LastName, p.LastName),
		Email:       pick(b.Email, p.Email),
		MobilePhone: pick(b.MobilePhone, p.MobilePhone),
		Address:     pick(b.Address, p.Address),
		City:        pick(b.City, p.City),
		PostalCode:  pick(b.PostalCode, p.PostalCode),
	}
}

type OrderItem struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"lineTotal"`
	Image       *string `json:"image"`
}

// Order is a checked-out order as shown to its owner.
type Order struct {
	ID            int64        `json:"id"`
	Status        string       `json:"status"`
	CreatedAt     string       `json:"createdAt"`
	PaymentMethod *string      `json:"paymentMethod"`
	Buyer         BuyerDetails `json:"buyer"`
	Items         []OrderItem  `json:"items"`
	Total         float64      `json:"total"`
}

// OrderCustomer is the customer block of the admin order view. Username is
// null for guest orders; the contact fields are empty strings when unknown.
type OrderCustomer struct {
	Username    *string `json:"username"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	MobilePhone string  `json:"mobilePhone"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	PostalCode  string  `json:"postalCode"`
}

// AdminOrder is the back-office order view. UserID is nil for guest orders.
type AdminOrder struct {
	ID            int64         `json:"id"`
	UserID        *int64        `json:"userId"`
	Status        string        `json:"status"`
	CreatedAt     string        `json:"createdAt"`
	PaymentMethod *string       `json:"paymentMethod"`
	Customer      OrderCustomer `json:"customer"`
	Items         []OrderItem   `json:"items"`
	Total         float64       `json:"total"`
}

// AdminOrderFilter holds the optional listing filters. Dates are YYYY-MM-DD
// and both ends are inclusive.
type AdminOrderFilter struct {
	From     string
	To       string
	Customer string
}
