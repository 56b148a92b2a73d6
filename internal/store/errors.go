package store

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/01moynul/storefront-golang/internal/models"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrInvalidInput    = errors.New("invalid input")
	ErrProductNotFound = errors.New("product not found")

	ErrCategoryNotFound  = errors.New("category not found")
	ErrProtectedCategory = errors.New("the Uncategorized category cannot be deleted")
	ErrProductInOrders   = errors.New("product is referenced by existing orders")

	ErrNoCart    = errors.New("no cart to checkout")
	ErrEmptyCart = errors.New("cart is empty")

	// ErrQuantityLimit is an ErrInvalidInput for lines over MaxCartQuantity.
	ErrQuantityLimit = fmt.Errorf("%w: quantity exceeds %d", ErrInvalidInput, models.MaxCartQuantity)
)

// CategoryInUseError is returned by a non-forced delete of a category that
// still has products.
type CategoryInUseError struct {
	ProductCount int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category has %d products", e.ProductCount)
}

// InvalidLineError rejects one line of an order payload.
type InvalidLineError struct {
	ProductID int64
	Reason    string
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("invalid line for product %d: %s", e.ProductID, e.Reason)
}

func (e *InvalidLineError) Unwrap() error {
	return ErrInvalidInput
}

func isConstraint(err error, code int, text string) bool {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == code {
		return true
	}
	return err != nil && strings.Contains(err.Error(), text)
}

func isUniqueViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, "FOREIGN KEY constraint failed")
}
