package models

// Roles a user can hold.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is a registered account. PasswordHash may still hold a legacy
// plaintext value until the next successful login upgrades it.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password"`
	Role         string `json:"role" db:"role"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserProfile holds contact and shipping details, one row per user.
type UserProfile struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	MobilePhone string `json:"mobilePhone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postalCode"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}
