package benefits

import (
	"context"

	"github.com/rs/zerolog"

	"museumrewards/internal/kv"
	"museumrewards/internal/models"
)

const (
	NightThemeID     = "night_theme"
	CollectorBadgeID = "collector_badge"
	Visor3DID        = "visor_3d"
)

// catalog order is display order. Each benefit owns its own unlock key.
var catalog = []models.Benefit{
	{
		ID:          NightThemeID,
		Name:        "Modo Nocturno del Museo",
		Description: "Tema especial con colores violetas y morados",
		Icon:        "🌙",
		Cost:        100,
		UnlockKey:   "@museum_night_theme",
	},
	{
		ID:          CollectorBadgeID,
		Name:        "Insignia de Coleccionista",
		Description: "Insignia especial que aparece sobre tu foto de perfil",
		Icon:        "🏅",
		Cost:        200,
		UnlockKey:   "@museum_collector_badge",
	},
	{
		ID:          Visor3DID,
		Name:        "Visor 3D Avanzado",
		Description: "Permite ver imagenes de las muestras en 3D",
		Icon:        "🥽",
		Cost:        1000,
		UnlockKey:   "@museum_visor_3d",
	},
}

func Available() []models.Benefit {
	out := make([]models.Benefit, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(id string) (models.Benefit, bool) {
	for _, b := range catalog {
		if b.ID == id {
			return b, true
		}
	}
	return models.Benefit{}, false
}

type Registry struct {
	store kv.Store
	log   zerolog.Logger
}

func New(store kv.Store, log zerolog.Logger) *Registry {
	return &Registry{store: store, log: log}
}

func (r *Registry) IsUnlocked(ctx context.Context, b models.Benefit) bool {
	unlocked, err := kv.GetBool(ctx, r.store, b.UnlockKey)
	if err != nil {
		r.log.Error().Err(err).Str("benefit", b.ID).Msg("read benefit flag")
		return false
	}
	return unlocked
}

// Unlock sets the benefit flag. There is no way back to locked.
func (r *Registry) Unlock(ctx context.Context, b models.Benefit) bool {
	if err := kv.SetBool(ctx, r.store, b.UnlockKey, true); err != nil {
		r.log.Error().Err(err).Str("benefit", b.ID).Msg("unlock benefit")
		return false
	}
	r.log.Info().Str("benefit", b.ID).Msg("benefit unlocked")
	return true
}

func (r *Registry) Summary(ctx context.Context) models.UnlockSummary {
	summary := models.UnlockSummary{Benefits: make(map[string]bool, len(catalog))}
	for _, b := range catalog {
		unlocked := r.IsUnlocked(ctx, b)
		summary.Benefits[b.ID] = unlocked
		if unlocked {
			summary.TotalUnlocked++
		}
	}
	return summary
}

// States lists the catalog with each benefit's unlock flag.
func (r *Registry) States(ctx context.Context) []models.BenefitState {
	out := make([]models.BenefitState, 0, len(catalog))
	for _, b := range catalog {
		out = append(out, models.BenefitState{Benefit: b, Unlocked: r.IsUnlocked(ctx, b)})
	}
	return out
}
