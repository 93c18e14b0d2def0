package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/pkg/logger"
)

var _ RecipeRepository = (*RecipeRepositoryFS)(nil)

// RecipeRepositoryFS keeps recipes in a Firestore collection, one document per
// recipe keyed by recipe id.
type RecipeRepositoryFS struct {
	Client     *firestore.Client
	Collection string
}

func NewRecipeRepositoryFS(client *firestore.Client, collection string) *RecipeRepositoryFS {
	if collection == "" {
		collection = "recipes"
	}
	return &RecipeRepositoryFS{Client: client, Collection: collection}
}

func (r *RecipeRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(r.Collection)
}

func (r *RecipeRepositoryFS) ready() error {
	if r == nil || r.Client == nil {
		return errors.New("recipe_repository_fs: firestore client is nil")
	}
	return nil
}

func (r *RecipeRepositoryFS) FindAll(ctx context.Context) ([]model.Recipe, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	logger.Debug("Finding all recipes in firestore", map[string]interface{}{
		"collection": r.Collection,
	})

	// No OrderBy: Firestore drops documents missing the ordered field, and
	// documents written by the web client carry no timestamps.
	it := r.col().Documents(ctx)
	defer it.Stop()

	recipes := []model.Recipe{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			logger.Error("Failed to iterate recipes in firestore", err, nil)
			return nil, err
		}

		recipe, err := decodeRecipe(snap)
		if err != nil {
			logger.Warn("Skipping malformed recipe document", map[string]interface{}{
				"doc_id": snap.Ref.ID,
				"error":  err.Error(),
			})
			continue
		}
		recipes = append(recipes, recipe)
	}
	sortNewestFirst(recipes)

	logger.Debug("Recipes found in firestore", map[string]interface{}{
		"count": len(recipes),
	})
	return recipes, nil
}

func (r *RecipeRepositoryFS) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		logger.Error("Failed to get recipe from firestore", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}

	recipe, err := decodeRecipe(snap)
	if err != nil {
		logger.Error("Malformed recipe document", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}
	return &recipe, nil
}

func (r *RecipeRepositoryFS) Create(ctx context.Context, recipe *model.Recipe) error {
	if err := r.ready(); err != nil {
		return err
	}

	ref := r.col().NewDoc()
	if id := strings.TrimSpace(recipe.ID); id != "" {
		ref = r.col().Doc(id)
	}

	now := time.Now().UTC()
	recipe.CreatedAt, recipe.UpdatedAt = now, now

	if _, err := ref.Create(ctx, recipeDocFromModel(recipe)); err != nil {
		logger.Error("Failed to create recipe in firestore", err, map[string]interface{}{
			"title": recipe.Title,
		})
		return err
	}
	recipe.ID = ref.ID

	logger.Debug("Recipe created in firestore", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	return nil
}

func (r *RecipeRepositoryFS) Update(ctx context.Context, recipe *model.Recipe) error {
	if err := r.ready(); err != nil {
		return err
	}

	recipe.UpdatedAt = time.Now().UTC()
	doc := recipeDocFromModel(recipe)

	_, err := r.col().Doc(recipe.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: doc.Title},
		{Path: "method", Value: doc.Method},
		{Path: "images", Value: doc.Images},
		{Path: "cookingTime", Value: doc.CookingTime},
		{Path: "price", Value: doc.Price},
		{Path: "ingredients", Value: doc.Ingredients},
		{Path: "category", Value: doc.Category},
		{Path: "categories", Value: firestore.Delete},
		{Path: "updatedAt", Value: doc.UpdatedAt},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to update recipe in firestore", err, map[string]interface{}{
			"recipe_id": recipe.ID,
		})
		return err
	}
	return nil
}

func (r *RecipeRepositoryFS) Delete(ctx context.Context, id string) error {
	if err := r.ready(); err != nil {
		return err
	}

	_, err := r.col().Doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to delete recipe from firestore", err, map[string]interface{}{
			"recipe_id": id,
		})
		return err
	}
	return nil
}

// recipeDoc is the document shape written by this repository. Cooking time is
// kept as text ("25 minutes") to match documents written by the web client.
type recipeDoc struct {
	Title       string    `firestore:"title"`
	Method      string    `firestore:"method"`
	Images      []string  `firestore:"images"`
	CookingTime string    `firestore:"cookingTime"`
	Price       float64   `firestore:"price"`
	Ingredients []string  `firestore:"ingredients"`
	Category    string    `firestore:"category"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func recipeDocFromModel(r *model.Recipe) recipeDoc {
	return recipeDoc{
		Title:       r.Title,
		Method:      r.Method,
		Images:      append([]string{}, r.Images...),
		CookingTime: r.CookingTime(),
		Price:       r.Price,
		Ingredients: append([]string{}, r.Ingredients...),
		Category:    r.Category,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// storedRecipeDoc is the read shape. It also accepts web client documents,
// which store price as the raw form text, name the category field
// "categories" and have no timestamps.
type storedRecipeDoc struct {
	Title       string      `firestore:"title"`
	Method      string      `firestore:"method"`
	Images      []string    `firestore:"images"`
	CookingTime string      `firestore:"cookingTime"`
	Price       interface{} `firestore:"price"`
	Ingredients []string    `firestore:"ingredients"`
	Category    string      `firestore:"category"`
	Categories  string      `firestore:"categories"`
	CreatedAt   time.Time   `firestore:"createdAt"`
	UpdatedAt   time.Time   `firestore:"updatedAt"`
}

func decodeRecipe(snap *firestore.DocumentSnapshot) (model.Recipe, error) {
	var doc storedRecipeDoc
	if err := snap.DataTo(&doc); err != nil {
		return model.Recipe{}, err
	}
	return doc.toModel(snap.Ref.ID)
}

func (d storedRecipeDoc) toModel(id string) (model.Recipe, error) {
	price, err := parsePrice(d.Price)
	if err != nil {
		return model.Recipe{}, fmt.Errorf("recipe %s: %w", id, err)
	}

	category := strings.TrimSpace(d.Category)
	if category == "" {
		category = strings.TrimSpace(d.Categories)
	}

	return model.Recipe{
		ID:             id,
		Title:          d.Title,
		Method:         d.Method,
		Images:         d.Images,
		CookingMinutes: model.ParseCookingTime(d.CookingTime),
		Price:          price,
		Ingredients:    d.Ingredients,
		Category:       category,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

func parsePrice(v interface{}) (float64, error) {
	switch p := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return p, nil
	case int64:
		return float64(p), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, fmt.Errorf("price %q is not a number", p)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("price has unsupported type %T", v)
	}
}

// sortNewestFirst orders by creation time, newest first. Recipes without a
// timestamp go last, ordered by id.
func sortNewestFirst(recipes []model.Recipe) {
	sort.SliceStable(recipes, func(i, j int) bool {
		a, b := recipes[i].CreatedAt, recipes[j].CreatedAt
		if !a.Equal(b) {
			return a.After(b)
		}
		return recipes[i].ID < recipes[j].ID
	})
}
