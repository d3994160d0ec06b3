package tracker

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"parcount/internal/inventory"
)

// Field names an editable quantity.
type Field int

const (
	FieldEnding Field = iota
	FieldOrder
	FieldPar
	FieldBeginning
)

func (f Field) String() string {
	switch f {
	case FieldEnding:
		return "ending"
	case FieldOrder:
		return "order"
	case FieldPar:
		return "par"
	case FieldBeginning:
		return "beginning"
	default:
		return "unknown"
	}
}

// ParseField maps a field name to its Field.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ending", "end":
		return FieldEnding, nil
	case "order", "actual", "actualorder":
		return FieldOrder, nil
	case "par":
		return FieldPar, nil
	case "beginning", "begin":
		return FieldBeginning, nil
	default:
		return 0, fmt.Errorf("unknown field %q", name)
	}
}

// Edit applies raw text typed for field on item id. Text that is not a
// non-negative number is ignored and reported as not accepted. Blank text
// clears ending, order and par, and sets beginning inventory to zero.
func (t *Tracker) Edit(field Field, id, raw string) (bool, error) {
	q, ok := inventory.ParseQuantity(raw)
	if !ok {
		return false, nil
	}
	var err error
	switch field {
	case FieldEnding:
		err = t.SetEnding(id, q)
	case FieldOrder:
		err = t.SetActualOrder(id, q)
	case FieldPar:
		err = t.SetPar(id, q)
	case FieldBeginning:
		err = t.SetBeginning(id, q.Decimal)
	default:
		err = fmt.Errorf("unknown field %d", field)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetEnding records or clears the counted ending inventory for the week.
func (t *Tracker) SetEnding(id string, q decimal.NullDecimal) error {
	return t.setEntry(id, q, func(e *inventory.Entry) { e.EndingInventory = q })
}

// SetActualOrder records or clears the quantity ordered for the week.
func (t *Tracker) SetActualOrder(id string, q decimal.NullDecimal) error {
	return t.setEntry(id, q, func(e *inventory.Entry) { e.ActualOrder = q })
}

func (t *Tracker) setEntry(id string, q decimal.NullDecimal, apply func(*inventory.Entry)) error {
	if q.Valid && q.Decimal.IsNegative() {
		return ErrInvalidQuantity
	}
	return t.update(true, func(s *state) ([]string, error) {
		if inventory.IndexOf(s.items, id) < 0 {
			return nil, fmt.Errorf("%w: %s", inventory.ErrItemNotFound, id)
		}
		entry := s.sheet[id]
		apply(&entry)
		if entry.Empty() {
			delete(s.sheet, id)
		} else {
			s.sheet[id] = entry
		}
		return []string{t.week.SheetKey()}, nil
	})
}

// SetPar records or clears the par level for an item.
func (t *Tracker) SetPar(id string, q decimal.NullDecimal) error {
	if q.Valid && q.Decimal.IsNegative() {
		return ErrInvalidQuantity
	}
	return t.update(true, func(s *state) ([]string, error) {
		if inventory.IndexOf(s.items, id) < 0 {
			return nil, fmt.Errorf("%w: %s", inventory.ErrItemNotFound, id)
		}
		if q.Valid {
			s.pars[id] = q.Decimal
		} else {
			delete(s.pars, id)
		}
		return []string{keyPars}, nil
	})
}

// SetBeginning overrides an item's beginning inventory.
func (t *Tracker) SetBeginning(id string, q decimal.Decimal) error {
	if q.IsNegative() {
		return ErrInvalidQuantity
	}
	return t.update(true, func(s *state) ([]string, error) {
		i := inventory.IndexOf(s.items, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", inventory.ErrItemNotFound, id)
		}
		s.items[i].BeginningInventory = q
		return []string{keyItems}, nil
	})
}

// AddItem appends a new catalog item with zero beginning inventory and no
// par.
func (t *Tracker) AddItem(n inventory.NewItem) (inventory.Item, error) {
	item, err := n.Build(t.opts.NewID())
	if err != nil {
		return inventory.Item{}, err
	}
	err = t.update(true, func(s *state) ([]string, error) {
		if inventory.IndexOf(s.items, item.ID) >= 0 {
			return nil, fmt.Errorf("%w: %s", inventory.ErrDuplicateItem, item.ID)
		}
		s.items = append(s.items, item)
		return []string{keyItems}, nil
	})
	if err != nil {
		return inventory.Item{}, err
	}
	t.record("item_added", map[string]any{
		"week":   t.week.ID,
		"id":     item.ID,
		"vendor": item.Vendor,
		"name":   item.Name,
	})
	return item, nil
}
