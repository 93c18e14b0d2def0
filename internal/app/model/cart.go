package model

// CartEntry is one line of the cart. RecipeID is unique within a cart and
// Quantity is at least 1 while the entry exists.
type CartEntry struct {
	RecipeID  string  `json:"id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Title     string  `json:"title,omitempty"`
	Image     string  `json:"image,omitempty"`
}

// Subtotal is Quantity × UnitPrice.
func (e CartEntry) Subtotal() float64 {
	return float64(e.Quantity) * e.UnitPrice
}

// EntryFromRecipe snapshots the display metadata of r into a cart entry.
func EntryFromRecipe(r *Recipe, quantity int) CartEntry {
	return CartEntry{
		RecipeID:  r.ID,
		Quantity:  quantity,
		UnitPrice: r.Price,
		Title:     r.Title,
		Image:     r.PrimaryImage(),
	}
}
