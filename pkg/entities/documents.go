package entities

import (
	"context"

	"github.com/aretw0/shelf/pkg/core"
	"github.com/aretw0/shelf/pkg/typed"
)

// Settings are the user preferences.
type Settings struct {
	Notifications bool   `json:"notifications"`
	DarkMode      bool   `json:"darkMode"`
	Language      string `json:"language"`
	AutoSync      bool   `json:"autoSync"`
	QualityMode   string `json:"qualityMode"`
}

// DefaultSettings apply to every field never written.
func DefaultSettings() Settings {
	return Settings{
		Notifications: true,
		DarkMode:      true,
		Language:      "pt-BR",
		AutoSync:      true,
		QualityMode:   "high",
	}
}

// SettingsDocument stores Settings as a single object.
type SettingsDocument struct {
	*typed.Document[Settings]
}

func NewSettings(store *core.Store) *SettingsDocument {
	return &SettingsDocument{mustDocument(store, SettingsNamespace, DefaultSettings())}
}

// Profile describes the local user.
type Profile struct {
	Name      string   `json:"name,omitempty"`
	Email     string   `json:"email,omitempty"`
	Avatar    string   `json:"avatar,omitempty"`
	Bio       string   `json:"bio,omitempty"`
	Games     []string `json:"favoriteGames,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

// ProfileDocument stores the Profile as a single object.
type ProfileDocument struct {
	*typed.Document[Profile]
}

func NewProfile(store *core.Store) *ProfileDocument {
	return &ProfileDocument{mustDocument(store, ProfileNamespace, Profile{})}
}

// Find returns the profile. found is false when none was saved.
func (p *ProfileDocument) Find(ctx context.Context) (Profile, bool, error) {
	found, err := p.Exists(ctx)
	if err != nil || !found {
		return Profile{}, false, err
	}
	prof, err := p.Load(ctx)
	return prof, err == nil, err
}

// mustDocument panics when defaults do not encode as a JSON object, which
// only happens for non-struct types.
func mustDocument[T any](store *core.Store, ns string, defaults T) *typed.Document[T] {
	doc, err := typed.NewDocument(store, ns, defaults)
	if err != nil {
		panic(err)
	}
	return doc
}
