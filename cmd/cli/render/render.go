package render

type Renderer interface {
	RenderItemList(view ItemListView) string
	RenderItemDetail(view ItemDetailView) string
}

// ItemCard is one catalog entry, already formatted for display.
type ItemCard struct {
	ID     string
	Name   string
	Rarity string
	Price  string
	Stock  int
	Tags   []string
	Img    string
}

type ItemListView struct {
	Items []ItemCard
	// Summary is printed above the cards when non-empty, e.g. the active
	// filter and sort.
	Summary string
}

func (v ItemListView) IsEmpty() bool {
	return len(v.Items) == 0
}

type ItemDetailView struct {
	Item    ItemCard
	Contact string
	// CanDelete reports whether the signed-in owner may remove the item.
	CanDelete bool
}
