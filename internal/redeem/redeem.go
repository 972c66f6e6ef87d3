// Package redeem spends coins on a benefit and unlocks it.
package redeem

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"museumrewards/internal/models"
)

type Authenticator interface {
	IsLoggedIn(ctx context.Context) bool
}

type Ledger interface {
	Balance(ctx context.Context) int
	Add(ctx context.Context, amount int) int
	Subtract(ctx context.Context, amount int) (int, bool)
}

type Unlocker interface {
	IsUnlocked(ctx context.Context, b models.Benefit) bool
	Unlock(ctx context.Context, b models.Benefit) bool
}

// Workflow serializes redemptions so two concurrent requests cannot both pay
// for the same benefit.
type Workflow struct {
	mu       sync.Mutex
	ledger   Ledger
	benefits Unlocker
	auth     Authenticator
	log      zerolog.Logger
}

func New(ledger Ledger, benefits Unlocker, auth Authenticator, log zerolog.Logger) *Workflow {
	return &Workflow{ledger: ledger, benefits: benefits, auth: auth, log: log}
}

// Redeem unlocks b only after its cost has been debited. A failed unlock
// credits the cost back.
func (w *Workflow) Redeem(ctx context.Context, b models.Benefit) models.RedeemResult {
	if !w.auth.IsLoggedIn(ctx) {
		return models.RedeemResult{Reason: models.ReasonNotAuthenticated}
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.benefits.IsUnlocked(ctx, b) {
		balance := w.ledger.Balance(ctx)
		return models.RedeemResult{Reason: models.ReasonAlreadyUnlocked, NewBalance: &balance}
	}

	balance := w.ledger.Balance(ctx)
	if balance < b.Cost {
		return models.RedeemResult{Reason: models.ReasonInsufficientFunds, NewBalance: &balance}
	}
	remaining, ok := w.ledger.Subtract(ctx, b.Cost)
	if !ok {
		return models.RedeemResult{Reason: models.ReasonInsufficientFunds, NewBalance: &remaining}
	}

	if !w.benefits.Unlock(ctx, b) {
		refunded := w.ledger.Add(ctx, b.Cost)
		w.log.Warn().Str("benefit", b.ID).Int("cost", b.Cost).Msg("unlock failed, coins returned")
		return models.RedeemResult{Reason: models.ReasonUnlockFailed, NewBalance: &refunded}
	}
	w.log.Info().Str("benefit", b.ID).Int("cost", b.Cost).Int("balance", remaining).Msg("benefit redeemed")
	return models.RedeemResult{Success: true, NewBalance: &remaining}
}
