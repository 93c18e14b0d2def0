// Package state holds the client-side state containers. Each container is a
// value type whose Apply method maps (state, event) to the next state without
// touching the receiver, so earlier snapshots stay valid.
package state

import "github.com/mykitchen/kitchen/internal/app/model"

// Namespace routes an event to exactly one container.
type Namespace string

const (
	NamespaceSession Namespace = "session"
	NamespaceStaging Namespace = "staging"
	NamespaceCart    Namespace = "cart"
)

// Event is a discrete mutation request.
type Event interface {
	Namespace() Namespace
}

// Session events

// SetSession signs an identity in. Any non-empty identity is accepted, with or
// without a UID; an all-empty identity is a no-op.
type SetSession struct {
	Identity model.Identity
}

type ClearSession struct{}

// MarkReady records that session restoration has finished.
type MarkReady struct{}

func (SetSession) Namespace() Namespace   { return NamespaceSession }
func (ClearSession) Namespace() Namespace { return NamespaceSession }
func (MarkReady) Namespace() Namespace    { return NamespaceSession }

// Staging events

type Focus struct {
	Recipe model.Recipe
}

type IncrementStaged struct{}

type DecrementStaged struct{}

type ResetStaging struct{}

func (Focus) Namespace() Namespace           { return NamespaceStaging }
func (IncrementStaged) Namespace() Namespace { return NamespaceStaging }
func (DecrementStaged) Namespace() Namespace { return NamespaceStaging }
func (ResetStaging) Namespace() Namespace    { return NamespaceStaging }

// Cart events

// AddOrMerge appends Entry, or adds its quantity to the existing entry with the
// same RecipeID.
type AddOrMerge struct {
	Entry model.CartEntry
}

// SetQuantity sets an existing entry's quantity, clamped to at least 1.
type SetQuantity struct {
	RecipeID string
	Quantity int
}

// Adjust shifts an existing entry's quantity by Delta, clamped to at least 1.
type Adjust struct {
	RecipeID string
	Delta    int
}

type Remove struct {
	RecipeID string
}

// Reprice refreshes the unit price of an existing entry.
type Reprice struct {
	RecipeID  string
	UnitPrice float64
}

type ClearCart struct{}

// ReplaceCart swaps in a whole entry list, e.g. one restored from the mirror.
type ReplaceCart struct {
	Entries []model.CartEntry
}

func (AddOrMerge) Namespace() Namespace  { return NamespaceCart }
func (SetQuantity) Namespace() Namespace { return NamespaceCart }
func (Adjust) Namespace() Namespace      { return NamespaceCart }
func (Remove) Namespace() Namespace      { return NamespaceCart }
func (Reprice) Namespace() Namespace     { return NamespaceCart }
func (ClearCart) Namespace() Namespace   { return NamespaceCart }
func (ReplaceCart) Namespace() Namespace { return NamespaceCart }
