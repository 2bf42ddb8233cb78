package entities

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/aretw0/shelf/pkg/core"
	"github.com/aretw0/shelf/pkg/typed"
)

// Recipe defaults.
const (
	DefaultRecipeCategory = "Outros"
	DefaultDifficulty     = "Médio"
	DefaultPrepTime       = 30
	DefaultCategoryIcon   = "food-fork-drink"
)

var categoryColors = []string{
	"#FF9AA2", "#FFB7B2", "#FFDAC1", "#E2F0CB", "#B5EAD7",
	"#C7CEDB", "#DDA0DD", "#98FB98", "#F0E68C", "#DEB887",
}

// Recipe is a local recipe.
type Recipe struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	CategoryID   string   `json:"categoryId,omitempty"`
	Area         string   `json:"area,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	Ingredients  string   `json:"ingredients,omitempty"`
	Image        string   `json:"image,omitempty"`
	Difficulty   string   `json:"difficulty"`
	PrepTime     int      `json:"prepTime"`
	Tags         []string `json:"tags,omitempty"`
	IsFromAPI    bool     `json:"isFromAPI"`
	CreatedAt    string   `json:"createdAt,omitempty"`
	UpdatedAt    string   `json:"updatedAt,omitempty"`
}

type Recipes struct {
	*typed.Collection[Recipe]
}

func NewRecipes(store *core.Store) *Recipes {
	return &Recipes{typed.New[Recipe](store, RecipesNamespace)}
}

// Save validates r, fills the defaults and stores it.
func (r *Recipes) Save(ctx context.Context, recipe Recipe) (Recipe, error) {
	if strings.TrimSpace(recipe.Name) == "" {
		return Recipe{}, invalid("recipe name is required")
	}
	if recipe.Category == "" {
		recipe.Category = recipe.CategoryID
	}
	if recipe.Category == "" {
		recipe.Category = DefaultRecipeCategory
	}
	if recipe.Difficulty == "" {
		recipe.Difficulty = DefaultDifficulty
	}
	if recipe.PrepTime == 0 {
		recipe.PrepTime = DefaultPrepTime
	}
	recipe.IsFromAPI = false
	return r.Collection.Save(ctx, recipe)
}

// List returns every recipe ordered by name.
func (r *Recipes) List(ctx context.Context) ([]Recipe, error) {
	return r.Sorted(ctx, func(a, b Recipe) int { return byName(a.Name, b.Name) })
}

// ByCategory returns the recipes whose category or category id is category.
func (r *Recipes) ByCategory(ctx context.Context, category string) ([]Recipe, error) {
	if category == "" {
		return []Recipe{}, nil
	}
	return r.Find(ctx, func(rec Recipe) bool {
		return rec.Category == category || rec.CategoryID == category
	})
}

// Category groups recipes.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	IsFromAPI   bool   `json:"isFromAPI"`
}

type Categories struct {
	*typed.Collection[Category]
	recipes *Recipes
}

func NewCategories(store *core.Store, recipes *Recipes) *Categories {
	return &Categories{Collection: typed.New[Category](store, CategoriesNamespace), recipes: recipes}
}

// Save validates and stores a category. A missing color is picked from a
// fixed palette by name.
func (c *Categories) Save(ctx context.Context, cat Category) (Category, error) {
	if strings.TrimSpace(cat.Name) == "" {
		return Category{}, invalid("category name is required")
	}
	if cat.Color == "" {
		cat.Color = colorFor(cat.Name)
	}
	if cat.Icon == "" {
		cat.Icon = DefaultCategoryIcon
	}
	cat.IsFromAPI = false
	return c.Collection.Save(ctx, cat)
}

// List returns every category ordered by name.
func (c *Categories) List(ctx context.Context) ([]Category, error) {
	return c.Sorted(ctx, func(a, b Category) int { return byName(a.Name, b.Name) })
}

// Delete removes a category unless a recipe still refers to it by id or name.
func (c *Categories) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, invalid("category id is required")
	}
	refs := []string{id}
	if cat, found, err := c.Get(ctx, id); err != nil {
		return false, err
	} else if found && cat.Name != id {
		refs = append(refs, cat.Name)
	}
	for _, ref := range refs {
		inUse, err := c.recipes.ByCategory(ctx, ref)
		if err != nil {
			return false, err
		}
		if len(inUse) > 0 {
			return false, fmt.Errorf("%w: %d recipe(s) reference %q", ErrCategoryInUse, len(inUse), ref)
		}
	}
	return c.Collection.Delete(ctx, id)
}

func colorFor(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return categoryColors[h.Sum32()%uint32(len(categoryColors))]
}

// Review rates a recipe from 1 to 5.
type Review struct {
	ID       string `json:"id"`
	RecipeID string `json:"recipeId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment,omitempty"`
	Author   string `json:"author,omitempty"`
}

type Reviews struct {
	*typed.Collection[Review]
}

func NewReviews(store *core.Store) *Reviews {
	return &Reviews{typed.New[Review](store, ReviewsNamespace)}
}

// Save validates and stores a review.
func (r *Reviews) Save(ctx context.Context, rev Review) (Review, error) {
	if rev.RecipeID == "" {
		return Review{}, invalid("review recipeId is required")
	}
	if rev.Rating < 1 || rev.Rating > 5 {
		return Review{}, invalid("rating must be between 1 and 5, got %d", rev.Rating)
	}
	return r.Collection.Save(ctx, rev)
}

// ForRecipe returns the reviews of a recipe.
func (r *Reviews) ForRecipe(ctx context.Context, recipeID string) ([]Review, error) {
	if recipeID == "" {
		return []Review{}, nil
	}
	return r.Find(ctx, func(rev Review) bool { return rev.RecipeID == recipeID })
}

// Average returns the mean rating of a recipe rounded to one decimal, or 0
// when it has no reviews.
func (r *Reviews) Average(ctx context.Context, recipeID string) (float64, error) {
	reviews, err := r.ForRecipe(ctx, recipeID)
	if err != nil || len(reviews) == 0 {
		return 0, err
	}
	sum := 0
	for _, rev := range reviews {
		sum += rev.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10, nil
}
