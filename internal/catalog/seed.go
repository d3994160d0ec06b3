package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"parcount/internal/inventory"
)

type rawSeed struct {
	Items []rawItem `yaml:"items"`
}

type rawItem struct {
	ID        string   `yaml:"id,omitempty"`
	Vendor    string   `yaml:"vendor"`
	Category  string   `yaml:"category,omitempty"`
	Name      string   `yaml:"name"`
	Beginning *yaml.Node `yaml:"beginning,omitempty"`
	Par       *yaml.Node `yaml:"par,omitempty"`
}

// ValidationError captures a single field-specific validation issue.
type ValidationError struct {
	File    string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
}

// ValidationErrors aggregates multiple validation problems.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

// Seed is a validated initial catalog with its par table.
type Seed struct {
	Items  []inventory.Item
	Pars   inventory.ParTable
	Source string
}

// LoadSeed reads and validates a YAML seed file.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	return ParseSeed(data, path, nil)
}

// ParseSeed unmarshals and validates a YAML seed. Items without an id get
// one from newID, which defaults to random UUIDs.
func ParseSeed(data []byte, source string, newID func() string) (Seed, error) {
	if newID == nil {
		newID = uuid.NewString
	}
	var raw rawSeed
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Seed{}, ValidationErrors{{
			File:    source,
			Field:   "yaml",
			Message: err.Error(),
		}}
	}

	var errs ValidationErrors
	if len(raw.Items) == 0 {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   "items",
			Message: "must contain at least one item",
		})
	}

	seed := Seed{Pars: inventory.ParTable{}, Source: source}
	ids := make(map[string]struct{})
	for idx, r := range raw.Items {
		path := fmt.Sprintf("items[%d]", idx)
		item, par, itemErrs := validateItem(r, path, source)
		errs = append(errs, itemErrs...)
		if len(itemErrs) > 0 {
			continue
		}

		if item.ID == "" {
			item.ID = newID()
		}
		if _, exists := ids[item.ID]; exists {
			errs = append(errs, ValidationError{
				File:    source,
				Field:   path + ".id",
				Message: fmt.Sprintf("duplicate id %q", item.ID),
			})
			continue
		}
		ids[item.ID] = struct{}{}

		seed.Items = append(seed.Items, item)
		if par.Valid {
			seed.Pars[item.ID] = par.Decimal
		}
	}

	if len(errs) > 0 {
		return Seed{}, errs
	}
	return seed, nil
}

func validateItem(raw rawItem, fieldPath, source string) (inventory.Item, decimal.NullDecimal, ValidationErrors) {
	var errs ValidationErrors
	n := inventory.NewItem{Vendor: raw.Vendor, Category: raw.Category, Name: raw.Name}.Normalize()

	if n.Vendor == "" {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   fieldPath + ".vendor",
			Message: "vendor is required",
		})
	}
	if n.Name == "" {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   fieldPath + ".name",
			Message: "name is required",
		})
	}

	beginning := decimal.Zero
	switch d, err := quantity(raw.Beginning); {
	case err != nil:
		errs = append(errs, ValidationError{
			File:    source,
			Field:   fieldPath + ".beginning",
			Message: err.Error(),
		})
	case d.Valid:
		beginning = d.Decimal
	}

	par, err := quantity(raw.Par)
	if err != nil {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   fieldPath + ".par",
			Message: err.Error(),
		})
	}

	item := inventory.Item{
		ID:                 strings.TrimSpace(raw.ID),
		Vendor:             n.Vendor,
		Category:           n.Category,
		Name:               n.Name,
		BeginningInventory: beginning,
	}
	return item, par, errs
}

var errNotQuantity = errors.New("must be a non-negative number")

// quantity reads a numeric scalar exactly. An absent or null node is unset.
func quantity(node *yaml.Node) (decimal.NullDecimal, error) {
	if node == nil || node.ShortTag() == "!!null" {
		return decimal.NullDecimal{}, nil
	}
	if node.Kind != yaml.ScalarNode {
		return decimal.NullDecimal{}, errNotQuantity
	}
	d, err := decimal.NewFromString(strings.TrimSpace(node.Value))
	if err != nil || d.IsNegative() {
		return decimal.NullDecimal{}, errNotQuantity
	}
	return decimal.NewNullDecimal(d), nil
}

func quantityNode(d decimal.Decimal) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: d.String()}
}

// MarshalSeed renders a catalog and par table in seed format.
func MarshalSeed(items []inventory.Item, pars inventory.ParTable) ([]byte, error) {
	raw := rawSeed{Items: make([]rawItem, 0, len(items))}
	for _, item := range items {
		r := rawItem{
			ID:        item.ID,
			Vendor:    item.Vendor,
			Category:  item.Category,
			Name:      item.Name,
			Beginning: quantityNode(item.BeginningInventory),
		}
		if p, ok := pars[item.ID]; ok {
			r.Par = quantityNode(p)
		}
		raw.Items = append(raw.Items, r)
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal seed: %w", err)
	}
	return data, nil
}

// WriteSeed writes a catalog in seed format to path.
func WriteSeed(path string, items []inventory.Item, pars inventory.ParTable) error {
	data, err := MarshalSeed(items, pars)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create seed dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write seed %s: %w", path, err)
	}
	return nil
}
