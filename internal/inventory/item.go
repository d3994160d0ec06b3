package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DefaultCategory is used when an item is added without a category.
const DefaultCategory = "Other"

var (
	// ErrInvalidItem is returned when a new item is missing required fields.
	ErrInvalidItem = errors.New("invalid item")
	// ErrItemNotFound is returned when an item id is not in the catalog.
	ErrItemNotFound = errors.New("item not found")
	// ErrDuplicateItem is returned when two catalog items share an id.
	ErrDuplicateItem = errors.New("duplicate item id")
)

var validate = validator.New()

// NewItem is the input for adding an item to the catalog.
type NewItem struct {
	Vendor   string `validate:"required"`
	Category string
	Name     string `validate:"required"`
}

// Normalize trims whitespace and fills in the default category.
func (n NewItem) Normalize() NewItem {
	n.Vendor = strings.TrimSpace(n.Vendor)
	n.Name = strings.TrimSpace(n.Name)
	n.Category = strings.TrimSpace(n.Category)
	if n.Category == "" {
		n.Category = DefaultCategory
	}
	return n
}

// Validate checks required fields after normalization.
func (n NewItem) Validate() error {
	err := validate.Struct(n.Normalize())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" is "+fe.Tag())
	}
	return fmt.Errorf("%w: %s", ErrInvalidItem, strings.Join(fields, ", "))
}

// Build validates the input and returns an item with zero beginning inventory.
func (n NewItem) Build(id string) (Item, error) {
	if err := n.Validate(); err != nil {
		return Item{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Item{}, fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	n = n.Normalize()
	return Item{
		ID:                 id,
		Vendor:             n.Vendor,
		Category:           n.Category,
		Name:               n.Name,
		BeginningInventory: decimal.Zero,
	}, nil
}

// IndexOf returns the position of id in items, or -1.
func IndexOf(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// CheckUnique returns ErrDuplicateItem if any id repeats.
func CheckUnique(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateItem, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}
