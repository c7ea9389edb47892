package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	perrors "github.com/abgdnv/products/internal/errors"
)

// IDField is the name of the identifier attribute. It is never assigned from a field-set.
const IDField = "id"

// Setter assigns a request value to one attribute of a product.
type Setter func(p *Product, value any) error

// attributes is the product schema: every attribute a field-set may assign.
// Store-managed columns (id, created_at, updated_at) are not assignable.
var attributes = map[string]Setter{
	"name":     SetName,
	"category": SetCategory,
}

// SetName assigns the text form of value to the product name. Null stores "".
func SetName(p *Product, value any) error {
	s, err := coerce("name", value)
	if err != nil {
		return err
	}
	p.Name = ""
	if s != nil {
		p.Name = *s
	}
	return nil
}

// SetCategory assigns the text form of value to the category. Null clears it.
func SetCategory(p *Product, value any) error {
	s, err := coerce("category", value)
	if err != nil {
		return err
	}
	p.Category = s
	return nil
}

// LookupAttribute returns the setter for the named attribute and whether the product has it.
func LookupAttribute(name string) (Setter, bool) {
	setter, ok := attributes[name]
	return setter, ok
}

// CoerceString converts a decoded request value to its text form.
// Strings pass through, numbers are formatted, booleans become "t" or "f", nil stays nil.
// Objects and arrays have no text form and are rejected.
func CoerceString(value any) (*string, error) {
	var s string
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		s = v
	case json.Number:
		s = v.String()
	case bool:
		s = "f"
		if v {
			s = "t"
		}
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	default:
		return nil, fmt.Errorf("unsupported value of type %T", value)
	}
	return &s, nil
}

func coerce(attr string, value any) (*string, error) {
	s, err := CoerceString(value)
	if err != nil {
		return nil, &perrors.ValidationError{Fields: map[string]string{attr: "must be a string, number, boolean or null"}}
	}
	return s, nil
}
