package service

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/internal/app/repository"
	"github.com/mykitchen/kitchen/internal/db"
	"github.com/mykitchen/kitchen/internal/store"
	"github.com/mykitchen/kitchen/pkg/logger"
	"github.com/mykitchen/kitchen/pkg/util"
)

func TestMain(m *testing.M) {
	logger.Initialize(logger.Config{Level: "disabled"})
	util.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

// flakyRecipeRepo wraps a real repository and fails FindByID for chosen ids.
type flakyRecipeRepo struct {
	repository.RecipeRepository

	mu   sync.Mutex
	fail map[string]error
}

func (r *flakyRecipeRepo) failOn(id string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[id] = err
}

func (r *flakyRecipeRepo) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	r.mu.Lock()
	err := r.fail[id]
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.RecipeRepository.FindByID(ctx, id)
}

type fixture struct {
	repo  *flakyRecipeRepo
	store *store.Store
}

func setupFixture(t *testing.T) *fixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	st := store.New(nil)
	t.Cleanup(func() {
		st.Close()
		db.CleanupTestDB(testDB)
	})

	return &fixture{
		repo:  &flakyRecipeRepo{RecipeRepository: repository.NewRecipeRepository(testDB), fail: map[string]error{}},
		store: st,
	}
}

func validInput(title string) RecipeInput {
	return RecipeInput{
		Title:          title,
		Method:         "Fry onions, add rice",
		Images:         []string{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"},
		CookingMinutes: 45,
		Price:          10,
		Ingredients:    []string{"rice", "onion"},
		Category:       "dinner",
	}
}

func (f *fixture) seed(t *testing.T, title string, price float64) *model.Recipe {
	in := validInput(title)
	recipe := &model.Recipe{}
	in.apply(recipe)
	recipe.Price = price
	require.NoError(t, f.repo.Create(context.Background(), recipe))
	return recipe
}
