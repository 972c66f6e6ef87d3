// Package theme resolves the active color palette from the device scheme and
// the user's persisted theme selection.
package theme

import (
	"context"

	"github.com/rs/zerolog"

	"museumrewards/internal/kv"
	"museumrewards/internal/models"
)

const ActiveThemeKey = "@museum_active_theme"

type Selection string

const (
	SelectionSystem Selection = "system"
	SelectionNight  Selection = "night"
)

type Scheme string

const (
	SchemeLight Scheme = "light"
	SchemeDark  Scheme = "dark"
)

// ParseScheme maps anything other than "dark" to light.
func ParseScheme(s string) Scheme {
	if s == string(SchemeDark) {
		return SchemeDark
	}
	return SchemeLight
}

// ParseSelection maps anything other than "night" to system.
func ParseSelection(s string) Selection {
	if s == string(SelectionNight) {
		return SelectionNight
	}
	return SelectionSystem
}

// Resolver persists the selection. It does not check that the night theme
// benefit is unlocked; callers gate Toggle on that.
type Resolver struct {
	store kv.Store
	log   zerolog.Logger
}

func New(store kv.Store, log zerolog.Logger) *Resolver {
	return &Resolver{store: store, log: log}
}

func (r *Resolver) Active(ctx context.Context) Selection {
	raw, found, err := r.store.Get(ctx, ActiveThemeKey)
	if err != nil {
		r.log.Error().Err(err).Msg("read active theme")
		return SelectionSystem
	}
	if !found {
		return SelectionSystem
	}
	return ParseSelection(raw)
}

func (r *Resolver) Set(ctx context.Context, sel Selection) Selection {
	sel = ParseSelection(string(sel))
	if err := r.store.Set(ctx, ActiveThemeKey, string(sel)); err != nil {
		r.log.Error().Err(err).Str("theme", string(sel)).Msg("store active theme")
		return r.Active(ctx)
	}
	return sel
}

func (r *Resolver) Toggle(ctx context.Context) Selection {
	if r.Active(ctx) == SelectionNight {
		return r.Set(ctx, SelectionSystem)
	}
	return r.Set(ctx, SelectionNight)
}

// ResolvePalette returns the night palette for a night selection regardless
// of scheme, otherwise the palette matching the device scheme.
func ResolvePalette(scheme Scheme, sel Selection) models.Palette {
	if sel == SelectionNight {
		return nightPalette
	}
	if scheme == SchemeDark {
		return darkPalette
	}
	return lightPalette
}
