package state

import "github.com/mykitchen/kitchen/internal/app/model"

// Staging is the recipe the user is about to add to the cart and the quantity
// they picked. Quantity is at least 1.
type Staging struct {
	Recipe   *model.Recipe `json:"recipe"`
	Quantity int           `json:"quantity"`
}

// NewStaging is the empty default: nothing focused, quantity 1.
func NewStaging() Staging {
	return Staging{Quantity: 1}
}

func (s Staging) Apply(ev Event) Staging {
	s.Quantity = atLeastOne(s.Quantity)

	switch e := ev.(type) {
	case Focus:
		r := e.Recipe
		r.Images = append(r.Images[:0:0], r.Images...)
		r.Ingredients = append(r.Ingredients[:0:0], r.Ingredients...)
		return Staging{Recipe: &r, Quantity: 1}
	case IncrementStaged:
		s.Quantity++
	case DecrementStaged:
		s.Quantity = atLeastOne(s.Quantity - 1)
	case ResetStaging:
		return NewStaging()
	}
	return s
}

// Entry converts the staged recipe into a cart entry. ok is false when nothing
// is focused.
func (s Staging) Entry() (entry model.CartEntry, ok bool) {
	if s.Recipe == nil {
		return model.CartEntry{}, false
	}
	return model.EntryFromRecipe(s.Recipe, atLeastOne(s.Quantity)), true
}
