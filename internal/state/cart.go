package state

import "github.com/mykitchen/kitchen/internal/app/model"

// Cart is the ordered entry list plus its derived total.
type Cart struct {
	Entries []model.CartEntry `json:"entries"`
	Total   float64           `json:"total"`
}

// NewCart builds a cart from entries, dropping malformed ones and merging
// duplicates.
func NewCart(entries []model.CartEntry) Cart {
	return Cart{}.Apply(ReplaceCart{Entries: entries})
}

// Apply returns the cart after ev. Events for other namespaces and malformed
// events leave the cart unchanged.
func (c Cart) Apply(ev Event) Cart {
	var next []model.CartEntry

	switch e := ev.(type) {
	case AddOrMerge:
		if !validEntry(e.Entry) {
			return c
		}
		next = c.clone()
		if i := indexOf(next, e.Entry.RecipeID); i >= 0 {
			next[i].Quantity += e.Entry.Quantity
		} else {
			next = append(next, e.Entry)
		}

	case SetQuantity:
		i := indexOf(c.Entries, e.RecipeID)
		if i < 0 {
			return c
		}
		next = c.clone()
		next[i].Quantity = atLeastOne(e.Quantity)

	case Adjust:
		i := indexOf(c.Entries, e.RecipeID)
		if i < 0 {
			return c
		}
		next = c.clone()
		next[i].Quantity = atLeastOne(next[i].Quantity + e.Delta)

	case Remove:
		if indexOf(c.Entries, e.RecipeID) < 0 {
			return c
		}
		next = make([]model.CartEntry, 0, len(c.Entries)-1)
		for _, entry := range c.Entries {
			if entry.RecipeID != e.RecipeID {
				next = append(next, entry)
			}
		}

	case Reprice:
		i := indexOf(c.Entries, e.RecipeID)
		if i < 0 || e.UnitPrice < 0 {
			return c
		}
		next = c.clone()
		next[i].UnitPrice = e.UnitPrice

	case ClearCart:
		next = []model.CartEntry{}

	case ReplaceCart:
		next = make([]model.CartEntry, 0, len(e.Entries))
		for _, entry := range e.Entries {
			if !validEntry(entry) {
				continue
			}
			if i := indexOf(next, entry.RecipeID); i >= 0 {
				next[i].Quantity += entry.Quantity
				continue
			}
			next = append(next, entry)
		}

	default:
		return c
	}

	return Cart{Entries: next, Total: Total(next)}
}

// Entry returns the entry for recipeID.
func (c Cart) Entry(recipeID string) (model.CartEntry, bool) {
	if i := indexOf(c.Entries, recipeID); i >= 0 {
		return c.Entries[i], true
	}
	return model.CartEntry{}, false
}

// Count is the number of distinct entries.
func (c Cart) Count() int {
	return len(c.Entries)
}

func (c Cart) clone() []model.CartEntry {
	out := make([]model.CartEntry, len(c.Entries), len(c.Entries)+1)
	copy(out, c.Entries)
	return out
}

func indexOf(entries []model.CartEntry, recipeID string) int {
	for i := range entries {
		if entries[i].RecipeID == recipeID {
			return i
		}
	}
	return -1
}

func validEntry(e model.CartEntry) bool {
	return e.RecipeID != "" && e.Quantity >= 1 && e.UnitPrice >= 0
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
