// Package contact builds the chat deep links visitors use to reach the owner.
package contact

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"pawtrades/internal/catalog"
	"pawtrades/internal/money"
)

const baseURL = "https://wa.me/"

type Builder struct {
	phone  string
	brand  string
	prices money.Formatter
}

// NewBuilder keeps only the digits of phone.
func NewBuilder(phone, brand string, prices money.Formatter) Builder {
	return Builder{
		phone:  digits(phone),
		brand:  brand,
		prices: prices,
	}
}

// Link returns the deep link with a prefilled message about item, or the
// generic buy/sell/trade message when item is nil.
func (b Builder) Link(item *catalog.Item) string {
	return b.Plain() + "?text=" + encodeComponent(b.Message(item))
}

// Plain returns the chat link without a prefilled message.
func (b Builder) Plain() string {
	return baseURL + b.phone
}

func (b Builder) Message(item *catalog.Item) string {
	if item == nil {
		return fmt.Sprintf("Hola! Me interesa *vender/comprar/intercambiar* en %s.\nQuiero venderte o proponerte un intercambio.", b.brand)
	}
	return fmt.Sprintf("Hola! Me interesa *%s* en %s.\nVi que está a %s. ¿Sigue disponible?", item.Name, b.brand, b.prices.Format(item.Price))
}

func (b Builder) Phone() string {
	return b.phone
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// encodeComponent percent-encodes s the way browsers encode a URI component.
// url.QueryEscape gets close but turns spaces into '+' and escapes the marks
// in componentSafe.
func encodeComponent(s string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	for _, r := range componentSafe {
		escaped = strings.ReplaceAll(escaped, fmt.Sprintf("%%%02X", r), string(r))
	}
	return escaped
}

const componentSafe = "!'()*"
