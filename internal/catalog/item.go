package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Rarity string

const (
	RarityLegendary Rarity = "legendary"
	RarityUltraRare Rarity = "ultra-rare"
	RarityRare      Rarity = "rare"
	RarityCommon    Rarity = "common"
)

const unrecognizedLabel = "Sin clasificar"

// Rarities lists the known tiers from scarcest to most common.
var Rarities = []Rarity{RarityLegendary, RarityUltraRare, RarityRare, RarityCommon}

var rarityLabels = map[Rarity]string{
	RarityLegendary: "Legendario",
	RarityUltraRare: "Ultra-raro",
	RarityRare:      "Raro",
	RarityCommon:    "Común",
}

// rarityWire holds the values the storefront's rows and filters use.
var rarityWire = map[Rarity]string{
	RarityLegendary: "legendario",
	RarityUltraRare: "ultra-raro",
	RarityRare:      "raro",
	RarityCommon:    "común",
}

var rarityAliases = map[string]Rarity{
	"legendary":  RarityLegendary,
	"legendario": RarityLegendary,
	"ultra-rare": RarityUltraRare,
	"ultra-raro": RarityUltraRare,
	"ultrarare":  RarityUltraRare,
	"rare":       RarityRare,
	"raro":       RarityRare,
	"common":     RarityCommon,
	"común":      RarityCommon,
	"comun":      RarityCommon,
}

// ParseRarity normalizes s to a known rarity. Unknown values are returned
// verbatim with ok=false.
func ParseRarity(s string) (Rarity, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if r, ok := rarityAliases[key]; ok {
		return r, true
	}
	return Rarity(strings.TrimSpace(s)), false
}

func (r Rarity) Known() bool {
	_, ok := rarityLabels[r]
	return ok
}

// Label is the display name, or a neutral placeholder for unknown tiers.
func (r Rarity) Label() string {
	if l, ok := rarityLabels[r]; ok {
		return l
	}
	return unrecognizedLabel
}

// Item is a catalog entry.
type Item struct {
	ID     string   `json:"id,omitempty" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Rarity Rarity   `json:"rarity" yaml:"rarity"`
	Price  float64  `json:"price" yaml:"price"`
	Img    string   `json:"img" yaml:"img"`
	Stock  int      `json:"stock" yaml:"stock"`
	Tags   []string `json:"tags" yaml:"tags"`
}

// TagString joins tags the way the backend stores them.
func (i Item) TagString() string {
	return strings.Join(i.Tags, ",")
}

func (i Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with i.
func (i Item) Clone() Item {
	c := i
	if i.Tags != nil {
		c.Tags = append([]string(nil), i.Tags...)
	}
	return c
}

type itemWire struct {
	ID     json.RawMessage `json:"id"`
	Name   *string         `json:"name"`
	Rarity *string         `json:"rarity"`
	Price  json.RawMessage `json:"price"`
	Img    *string         `json:"img"`
	Stock  json.RawMessage `json:"stock"`
	Tags   json.RawMessage `json:"tags"`
}

// UnmarshalJSON accepts the loosely typed rows the backend hands out: numbers
// may arrive as strings or null, tags as a delimited string or an array.
func (i *Item) UnmarshalJSON(data []byte) error {
	var w itemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id, err := decodeID(w.ID)
	if err != nil {
		return err
	}
	tags, err := decodeTags(w.Tags)
	if err != nil {
		return err
	}

	*i = Item{
		ID:    id,
		Price: decodeNumber(w.Price),
		Stock: countOf(decodeNumber(w.Stock)),
		Tags:  tags,
	}
	if w.Name != nil {
		i.Name = *w.Name
	}
	if w.Img != nil {
		i.Img = *w.Img
	}
	if w.Rarity != nil {
		i.Rarity, _ = ParseRarity(*w.Rarity)
	}
	return nil
}

// WireValue is the value stored in the backend's rarity column. Unknown
// rarities are written back verbatim.
func (r Rarity) WireValue() string {
	if w, ok := rarityWire[r]; ok {
		return w
	}
	return string(r)
}

// MarshalJSON writes tags as a comma separated string and rarity as its wire value.
func (i Item) MarshalJSON() ([]byte, error) {
	type out struct {
		ID     string  `json:"id,omitempty"`
		Name   string  `json:"name"`
		Rarity string  `json:"rarity"`
		Price  float64 `json:"price"`
		Img    string  `json:"img"`
		Stock  int     `json:"stock"`
		Tags   string  `json:"tags"`
	}
	return json.Marshal(out{
		ID:     i.ID,
		Name:   i.Name,
		Rarity: i.Rarity.WireValue(),
		Price:  i.Price,
		Img:    i.Img,
		Stock:  i.Stock,
		Tags:   i.TagString(),
	})
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decoding id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decoding id: %w", err)
	}
	return n.String(), nil
}

func decodeTags(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decoding tags: %w", err)
		}
		return SplitTags(s), nil
	case '[':
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decoding tags: %w", err)
		}
		return cleanTags(list), nil
	default:
		return nil, fmt.Errorf("decoding tags: unexpected %s", raw)
	}
}

// decodeNumber never fails: anything that is not a finite non-negative number
// becomes 0.
func decodeNumber(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return nonNegative(n)
	case string:
		return ParseAmount(n)
	default:
		return 0
	}
}

// ParseAmount converts user or wire text to a non-negative number, defaulting
// to 0 on anything non-numeric.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return nonNegative(f)
}

// ParseCount is ParseAmount for whole quantities. Fractions are truncated and
// values past math.MaxInt saturate.
func ParseCount(s string) int {
	return countOf(ParseAmount(s))
}

func countOf(f float64) int {
	f = nonNegative(f)
	if f >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(f)
}

func nonNegative(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// SplitTags splits a comma separated tag string, dropping empty entries.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return cleanTags(strings.Split(s, ","))
}

func cleanTags(in []string) []string {
	var out []string
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
