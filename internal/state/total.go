package state

import "github.com/mykitchen/kitchen/internal/app/model"

// Total is Σ quantity × unitPrice over entries, recomputed from scratch.
func Total(entries []model.CartEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Subtotal()
	}
	return total
}
