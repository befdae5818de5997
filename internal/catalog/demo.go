package catalog

// DemoItems is the fixed dataset shown when no backend is configured.
func DemoItems() []Item {
	return []Item{
		{ID: "p1", Name: "Shadow Dragon", Rarity: RarityLegendary, Price: 350000, Img: "https://placehold.co/600x600/png?text=Shadow+Dragon", Stock: 1, Tags: []string{"montable", "neón"}},
		{ID: "p2", Name: "Frost Fury", Rarity: RarityLegendary, Price: 210000, Img: "https://placehold.co/600x600/png?text=Frost+Fury", Stock: 3, Tags: []string{"montable"}},
		{ID: "p3", Name: "Albino Monkey", Rarity: RarityUltraRare, Price: 90000, Img: "https://placehold.co/600x600/png?text=Albino+Monkey", Stock: 2, Tags: []string{"fly", "ride"}},
		{ID: "p4", Name: "Golden Penguin", Rarity: RarityRare, Price: 45000, Img: "https://placehold.co/600x600/png?text=Golden+Penguin", Stock: 5, Tags: []string{"colección"}},
	}
}
