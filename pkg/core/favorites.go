package core

import (
	"context"
	"encoding/json"
	"sort"
)

// FavoritesNamespace returns the namespace that holds favorite markers.
func (s *Store) FavoritesNamespace() string {
	return s.favoritesNS
}

// ToggleFavorite flips the favorite state of entity under entityType.
// It returns true when the entity is now a favorite.
func (s *Store) ToggleFavorite(ctx context.Context, entity Record, entityType string) (bool, error) {
	id := entity.ID()
	if id == "" {
		return false, ErrMissingID
	}
	if entityType == "" {
		return false, ErrMissingType
	}

	ns := s.favoritesNS
	unlock := s.lock(ns)
	defer unlock()

	favs, err := s.loadFavorites(ctx)
	if err != nil {
		return false, err
	}

	key := FavoriteKey(entityType, id)
	_, present := favs[key]
	if present {
		delete(favs, key)
	} else {
		favs[key] = FavoriteMarker{
			EntityID:    id,
			EntityType:  entityType,
			FavoritedAt: s.now(),
			Snapshot:    entity.Clone(),
		}
	}

	if err := s.write(ctx, ns, favs); err != nil {
		return false, err
	}
	if present {
		s.publish(EventDelete, ns, key)
	} else {
		s.publish(EventCreate, ns, key)
	}
	return !present, nil
}

// IsFavorite reports whether the entity is currently a favorite.
func (s *Store) IsFavorite(ctx context.Context, entityType, id string) (bool, error) {
	favs, err := s.loadFavorites(ctx)
	if err != nil {
		return false, err
	}
	_, ok := favs[FavoriteKey(entityType, id)]
	return ok, nil
}

// RemoveFavorite drops a marker. It reports false when none existed.
func (s *Store) RemoveFavorite(ctx context.Context, entityType, id string) (bool, error) {
	ns := s.favoritesNS
	unlock := s.lock(ns)
	defer unlock()

	favs, err := s.loadFavorites(ctx)
	if err != nil {
		return false, err
	}
	key := FavoriteKey(entityType, id)
	if _, ok := favs[key]; !ok {
		return false, nil
	}
	delete(favs, key)
	if err := s.write(ctx, ns, favs); err != nil {
		return false, err
	}
	s.publish(EventDelete, ns, key)
	return true, nil
}

// Favorites lists every marker, oldest first.
func (s *Store) Favorites(ctx context.Context) ([]FavoriteMarker, error) {
	favs, err := s.loadFavorites(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]FavoriteMarker, 0, len(favs))
	for _, m := range favs {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FavoritedAt.Equal(out[j].FavoritedAt) {
			return out[i].FavoritedAt.Before(out[j].FavoritedAt)
		}
		return out[i].Key() < out[j].Key()
	})
	return out, nil
}

func (s *Store) loadFavorites(ctx context.Context) (map[string]FavoriteMarker, error) {
	ns := s.favoritesNS
	raw, found, err := s.read(ctx, ns)
	if err != nil {
		return nil, err
	}
	favs := make(map[string]FavoriteMarker)
	if !found {
		return favs, nil
	}
	if err := json.Unmarshal([]byte(raw), &favs); err != nil {
		return nil, corrupt(ns, err)
	}
	if favs == nil {
		favs = make(map[string]FavoriteMarker)
	}
	return favs, nil
}
