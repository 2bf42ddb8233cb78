// Package entities defines the record types kept on a shelf and the domain
// rules that apply when they are saved or deleted.
package entities

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/shelf/pkg/core"
)

// Namespaces used by the entity collections.
const (
	TeamsNamespace       = "teams"
	PlayersNamespace     = "players"
	GamesNamespace       = "games"
	TournamentsNamespace = "tournaments"
	TasksNamespace       = "tasks"
	RecipesNamespace     = "recipes"
	CategoriesNamespace  = "categories"
	ReviewsNamespace     = "reviews"
	SettingsNamespace    = "settings"
	ProfileNamespace     = "profile"
)

var (
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("invalid entity")
	// ErrCategoryInUse is returned when deleting a category that recipes still reference.
	ErrCategoryInUse = errors.New("category has recipes")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func byName(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// Catalog groups every entity collection of one store.
type Catalog struct {
	Teams       *Teams
	Players     *Players
	Games       *Games
	Tournaments *Tournaments
	Tasks       *Tasks
	Recipes     *Recipes
	Categories  *Categories
	Reviews     *Reviews
	Settings    *SettingsDocument
	Profile     *ProfileDocument
}

// NewCatalog opens every entity collection on store.
func NewCatalog(store *core.Store) *Catalog {
	recipes := NewRecipes(store)
	return &Catalog{
		Teams:       NewTeams(store),
		Players:     NewPlayers(store),
		Games:       NewGames(store),
		Tournaments: NewTournaments(store),
		Tasks:       NewTasks(store),
		Recipes:     recipes,
		Categories:  NewCategories(store, recipes),
		Reviews:     NewReviews(store),
		Settings:    NewSettings(store),
		Profile:     NewProfile(store),
	}
}
