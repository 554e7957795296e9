package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/geo"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/store"
)

// StoreKey is where preferences live in the key-value store
const StoreKey = "nextup-preferences"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	DefaultAccentColor = "99"
)

// Preferences are the user's persisted UI settings
type Preferences struct {
	German          bool            `json:"german"`
	Theme           string          `json:"theme"`
	AccentColor     string          `json:"accentColor,omitempty"`
	LocationConsent bool            `json:"locationConsent"`
	Home            *geo.Coordinate `json:"home,omitempty"`
}

// Default is what a first run starts with
func Default() Preferences {
	return Preferences{Theme: ThemeLight, AccentColor: DefaultAccentColor}
}

// Dark reports whether the dark theme is selected
func (p Preferences) Dark() bool {
	return p.Theme == ThemeDark
}

// Validate rejects unknown themes and out of range home coordinates
func (p Preferences) Validate() error {
	if p.Theme != ThemeLight && p.Theme != ThemeDark {
		return fmt.Errorf("unknown theme %q, expected %s or %s", p.Theme, ThemeLight, ThemeDark)
	}
	if p.Home != nil && !p.Home.Valid() {
		return fmt.Errorf("home coordinate %s out of range", p.Home)
	}
	return nil
}

// Load reads preferences from kv. A missing entry yields Default().
func Load(ctx context.Context, kv store.Store) (Preferences, error) {
	raw, err := kv.Get(ctx, StoreKey)
	if errors.Is(err, store.ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("failed to load preferences: %w", err)
	}

	p := Default()
	if err := json.Unmarshal(raw, &p); err != nil {
		return Default(), fmt.Errorf("failed to parse preferences: %w", err)
	}
	if p.Theme == "" {
		p.Theme = ThemeLight
	}
	if p.AccentColor == "" {
		p.AccentColor = DefaultAccentColor
	}
	return p, nil
}

// Save validates p and writes it to kv
func Save(ctx context.Context, kv store.Store, p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize preferences: %w", err)
	}
	if err := kv.Put(ctx, StoreKey, raw); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
