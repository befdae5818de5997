package catalog

import (
	"fmt"
	"strings"
)

// Draft holds the raw fields of the "add item" form.
type Draft struct {
	Name   string
	Rarity string
	Price  string
	Img    string
	Stock  string
	Tags   string
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Normalize turns the draft into an item payload without an ID. Rarity
// defaults to the first tier when empty; prices and stock fall back to 0.
func (d Draft) Normalize() (Item, error) {
	if err := ValidateName(d.Name); err != nil {
		return Item{}, &ValidationError{Field: "name", Err: err}
	}

	rarity := Rarities[0]
	if strings.TrimSpace(d.Rarity) != "" {
		r, ok := ParseRarity(d.Rarity)
		if !ok {
			return Item{}, &ValidationError{Field: "rarity", Err: fmt.Errorf("%w: %q", ErrUnknownRarity, d.Rarity)}
		}
		rarity = r
	}

	return Item{
		Name:   strings.TrimSpace(d.Name),
		Rarity: rarity,
		Price:  ParseAmount(d.Price),
		Img:    strings.TrimSpace(d.Img),
		Stock:  ParseCount(d.Stock),
		Tags:   SplitTags(d.Tags),
	}, nil
}
