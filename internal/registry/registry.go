// Package registry holds the outfits a racer can wear. Outfits register
// themselves at init, so the race and the menus can look them up by ID
// without hardcoding the catalogue.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-parkour/internal/core"
)

// ErrUnknownOutfit is returned by Get for an unregistered ID.
var ErrUnknownOutfit = errors.New("registry: unknown outfit")

// DefaultOutfit is the outfit every profile starts with.
const DefaultOutfit = "default"

// Outfit is a purchasable racer appearance. The colors are opaque to the
// simulation and only reach renderers.
type Outfit struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Cost   int             `json:"cost"`
	Colors core.Appearance `json:"colors"`
}

var (
	outfits = make(map[string]Outfit)
	mu      sync.RWMutex
)

// Register adds an outfit to the registry.
// Panics if an outfit with the same ID is already registered.
func Register(o Outfit) {
	mu.Lock()
	defer mu.Unlock()

	if o.ID == "" {
		panic("registry: outfit without ID")
	}
	if _, exists := outfits[o.ID]; exists {
		panic(fmt.Sprintf("registry: outfit %q already registered", o.ID))
	}
	outfits[o.ID] = o
}

// Get returns the outfit registered under id.
func Get(id string) (Outfit, error) {
	mu.RLock()
	defer mu.RUnlock()

	o, ok := outfits[id]
	if !ok {
		return Outfit{}, fmt.Errorf("%w %q", ErrUnknownOutfit, id)
	}
	return o, nil
}

// Appearance returns the colors of outfit id, falling back to the default
// outfit for unknown IDs.
func Appearance(id string) core.Appearance {
	if o, err := Get(id); err == nil {
		return o.Colors
	}
	o, _ := Get(DefaultOutfit)
	return o.Colors
}

// Exists checks if an outfit with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := outfits[id]
	return ok
}

// List returns all registered outfits ordered by cost, then ID.
func List() []Outfit {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Outfit, 0, len(outfits))
	for _, o := range outfits {
		result = append(result, o)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Cost != result[j].Cost {
			return result[i].Cost < result[j].Cost
		}
		return result[i].ID < result[j].ID
	})
	return result
}
