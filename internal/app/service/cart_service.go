package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/internal/app/repository"
	"github.com/mykitchen/kitchen/internal/state"
	"github.com/mykitchen/kitchen/pkg/logger"
)

var (
	ErrCartEntryNotFound = errors.New("cart entry not found")
	ErrNothingStaged     = errors.New("no recipe is staged")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
)

// ReconcileReport summarizes one Reconcile pass.
type ReconcileReport struct {
	Checked  int      `json:"checked"`
	Removed  []string `json:"removed"`
	Repriced []string `json:"repriced"`
}

type CartService interface {
	// FocusRecipe loads id in the background and stages it with quantity 1.
	// The channel reports the outcome.
	FocusRecipe(ctx context.Context, id string) <-chan error
	Staged() state.Staging
	IncrementStaged() state.Staging
	DecrementStaged() state.Staging
	CommitStaged() (state.Cart, error)

	Cart() state.Cart
	AddRecipe(ctx context.Context, id string, quantity int) (state.Cart, error)
	SetQuantity(id string, quantity int) (state.Cart, error)
	Increment(id string) (state.Cart, error)
	Decrement(id string) (state.Cart, error)
	Remove(id string) (state.Cart, error)
	Clear() state.Cart

	Reconcile(ctx context.Context) (*ReconcileReport, error)
}

type cartService struct {
	recipeRepo repository.RecipeRepository
	store      StateStore
}

func NewCartService(recipeRepo repository.RecipeRepository, store StateStore) CartService {
	return &cartService{recipeRepo: recipeRepo, store: store}
}

func (s *cartService) FocusRecipe(ctx context.Context, id string) <-chan error {
	logger.Debug("Focusing recipe", map[string]interface{}{
		"recipe_id": id,
	})

	return s.store.Go(ctx, func(ctx context.Context) (state.Event, error) {
		recipe, err := s.findRecipe(ctx, id)
		if err != nil {
			return nil, err
		}
		return state.Focus{Recipe: *recipe}, nil
	})
}

func (s *cartService) Staged() state.Staging {
	return s.store.Snapshot().Staging
}

func (s *cartService) IncrementStaged() state.Staging {
	return s.store.Dispatch(state.IncrementStaged{}).Staging
}

func (s *cartService) DecrementStaged() state.Staging {
	return s.store.Dispatch(state.DecrementStaged{}).Staging
}

// CommitStaged moves the staged recipe into the cart, merging with an existing
// entry, and resets staging.
func (s *cartService) CommitStaged() (state.Cart, error) {
	entry, ok := s.store.Snapshot().Staging.Entry()
	if !ok {
		logger.Warn("Commit attempted with nothing staged")
		return s.Cart(), ErrNothingStaged
	}

	s.store.Dispatch(state.AddOrMerge{Entry: entry})
	snap := s.store.Dispatch(state.ResetStaging{})

	logger.Info("Staged recipe added to cart", map[string]interface{}{
		"recipe_id": entry.RecipeID,
		"quantity":  entry.Quantity,
		"total":     snap.Cart.Total,
	})
	return snap.Cart, nil
}

func (s *cartService) Cart() state.Cart {
	return s.store.Snapshot().Cart
}

func (s *cartService) AddRecipe(ctx context.Context, id string, quantity int) (state.Cart, error) {
	logger.Info("Adding recipe to cart", map[string]interface{}{
		"recipe_id": id,
		"quantity":  quantity,
	})

	if quantity < 1 {
		return s.Cart(), ErrInvalidQuantity
	}

	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return s.Cart(), err
	}

	snap := s.store.Dispatch(state.AddOrMerge{Entry: model.EntryFromRecipe(recipe, quantity)})
	return snap.Cart, nil
}

func (s *cartService) SetQuantity(id string, quantity int) (state.Cart, error) {
	return s.mutateEntry(id, state.SetQuantity{RecipeID: id, Quantity: quantity})
}

func (s *cartService) Increment(id string) (state.Cart, error) {
	return s.mutateEntry(id, state.Adjust{RecipeID: id, Delta: 1})
}

func (s *cartService) Decrement(id string) (state.Cart, error) {
	return s.mutateEntry(id, state.Adjust{RecipeID: id, Delta: -1})
}

func (s *cartService) Remove(id string) (state.Cart, error) {
	return s.mutateEntry(id, state.Remove{RecipeID: id})
}

func (s *cartService) Clear() state.Cart {
	logger.Info("Clearing cart")
	return s.store.Dispatch(state.ClearCart{}).Cart
}

// mutateEntry reports ErrCartEntryNotFound instead of dispatching a no-op. The
// lookup and the dispatch are not atomic; a concurrent removal turns ev into a
// no-op inside the container.
func (s *cartService) mutateEntry(id string, ev state.Event) (state.Cart, error) {
	cart := s.Cart()
	if _, ok := cart.Entry(id); !ok {
		logger.Warn("Cart entry not found", map[string]interface{}{
			"recipe_id": id,
			"event":     fmt.Sprintf("%T", ev),
		})
		return cart, ErrCartEntryNotFound
	}
	return s.store.Dispatch(ev).Cart, nil
}

// Reconcile checks every cart entry against the catalog. Entries whose recipe
// is gone are removed and changed prices are refreshed. A backend error stops
// the pass; entries already handled keep their changes.
func (s *cartService) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	entries := s.Cart().Entries
	report := &ReconcileReport{Removed: []string{}, Repriced: []string{}}

	logger.Debug("Reconciling cart", map[string]interface{}{
		"entries": len(entries),
	})

	for _, entry := range entries {
		recipe, err := s.recipeRepo.FindByID(ctx, entry.RecipeID)
		if errors.Is(err, repository.ErrNotFound) {
			s.store.Dispatch(state.Remove{RecipeID: entry.RecipeID})
			report.Removed = append(report.Removed, entry.RecipeID)
			report.Checked++
			continue
		}
		if err != nil {
			logger.Error("Cart reconcile aborted", err, map[string]interface{}{
				"recipe_id": entry.RecipeID,
				"checked":   report.Checked,
			})
			return report, err
		}

		if recipe.Price != entry.UnitPrice {
			s.store.Dispatch(state.Reprice{RecipeID: entry.RecipeID, UnitPrice: recipe.Price})
			report.Repriced = append(report.Repriced, entry.RecipeID)
		}
		report.Checked++
	}

	logger.Info("Cart reconciled", map[string]interface{}{
		"checked":  report.Checked,
		"removed":  len(report.Removed),
		"repriced": len(report.Repriced),
	})
	return report, nil
}

func (s *cartService) findRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Warn("Recipe not found", map[string]interface{}{
			"recipe_id": id,
		})
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		logger.Error("Failed to fetch recipe", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}
	return recipe, nil
}
