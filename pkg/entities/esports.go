package entities

import (
	"context"
	"strings"

	"github.com/aretw0/shelf/pkg/core"
	"github.com/aretw0/shelf/pkg/typed"
)

// Team is an esports team.
type Team struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Tag     string `json:"tag,omitempty"`
	Game    string `json:"game,omitempty"`
	Region  string `json:"region,omitempty"`
	Logo    string `json:"logo,omitempty"`
	Founded int    `json:"founded,omitempty"`
}

// Teams is the teams collection.
type Teams struct {
	*typed.Collection[Team]
}

func NewTeams(store *core.Store) *Teams {
	return &Teams{typed.New[Team](store, TeamsNamespace)}
}

// Save validates and stores a team.
func (t *Teams) Save(ctx context.Context, team Team) (Team, error) {
	if strings.TrimSpace(team.Name) == "" {
		return Team{}, invalid("team name is required")
	}
	return t.Collection.Save(ctx, team)
}

// Player belongs to a team through TeamID.
type Player struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Name     string `json:"name,omitempty"`
	TeamID   string `json:"teamId,omitempty"`
	Role     string `json:"role,omitempty"`
	Country  string `json:"country,omitempty"`
}

type Players struct {
	*typed.Collection[Player]
}

func NewPlayers(store *core.Store) *Players {
	return &Players{typed.New[Player](store, PlayersNamespace)}
}

// Save validates and stores a player.
func (p *Players) Save(ctx context.Context, player Player) (Player, error) {
	if strings.TrimSpace(player.Nickname) == "" {
		return Player{}, invalid("player nickname is required")
	}
	return p.Collection.Save(ctx, player)
}

// ByTeam returns the players of a team.
func (p *Players) ByTeam(ctx context.Context, teamID string) ([]Player, error) {
	return p.Find(ctx, func(pl Player) bool { return pl.TeamID == teamID })
}

// Game is a title the user keeps track of.
type Game struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Genre    string  `json:"genre,omitempty"`
	Platform string  `json:"platform,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
	Image    string  `json:"image,omitempty"`
}

type Games struct {
	*typed.Collection[Game]
}

func NewGames(store *core.Store) *Games {
	return &Games{typed.New[Game](store, GamesNamespace)}
}

// Tournament statuses.
const (
	StatusUpcoming = "upcoming"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

// Tournament is a user-created competition.
type Tournament struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Game         string `json:"game,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	PrizePool    string `json:"prize_pool,omitempty"`
	Rules        string `json:"rules,omitempty"`
	Status       string `json:"status"`
	Participants int    `json:"participants"`
	Location     string `json:"location,omitempty"`
}

type Tournaments struct {
	*typed.Collection[Tournament]
}

func NewTournaments(store *core.Store) *Tournaments {
	return &Tournaments{typed.New[Tournament](store, TournamentsNamespace)}
}

// Save stores a tournament. Status defaults to upcoming.
func (t *Tournaments) Save(ctx context.Context, tour Tournament) (Tournament, error) {
	if strings.TrimSpace(tour.Name) == "" {
		return Tournament{}, invalid("tournament name is required")
	}
	if tour.Status == "" {
		tour.Status = StatusUpcoming
	}
	if tour.Participants < 0 {
		return Tournament{}, invalid("participants cannot be negative")
	}
	return t.Collection.Save(ctx, tour)
}

// ByStatus returns the tournaments with the given status.
func (t *Tournaments) ByStatus(ctx context.Context, status string) ([]Tournament, error) {
	return t.Find(ctx, func(tour Tournament) bool { return tour.Status == status })
}
