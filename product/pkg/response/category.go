package response

import (
	"fmt"
)

// Category is the closed set of catalog categories. The zero value is not a category.
type Category uint8

const (
	CategoryWomen Category = iota + 1
	CategoryMen
	CategoryUnisex
)

var categoryNames = map[Category]string{
	CategoryWomen:  "women",
	CategoryMen:    "men",
	CategoryUnisex: "unisex",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

func ParseCategory(value string) (Category, error) {
	for category, name := range categoryNames {
		if name == value {
			return category, nil
		}
	}
	return 0, fmt.Errorf("invalid product category %q", value)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("invalid product category %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
