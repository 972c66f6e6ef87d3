package coins

import (
	"context"
	"errors"

	"museumrewards/internal/models"
)

var ErrUnknownPack = errors.New("unknown coin pack")

// The purchase flow is simulated: no payment provider is contacted.
var packs = []models.CoinPack{
	{ID: "small", Name: "Bolsa de monedas", Coins: 100, Price: "USD 0.99"},
	{ID: "medium", Name: "Cofre de monedas", Coins: 500, Price: "USD 3.99"},
	{ID: "large", Name: "Tesoro del museo", Coins: 1200, Price: "USD 7.99"},
}

func Packs() []models.CoinPack {
	out := make([]models.CoinPack, len(packs))
	copy(out, packs)
	return out
}

func LookupPack(id string) (models.CoinPack, bool) {
	for _, p := range packs {
		if p.ID == id {
			return p, true
		}
	}
	return models.CoinPack{}, false
}

func (l *Ledger) Purchase(ctx context.Context, packID string) (models.PurchaseResult, error) {
	pack, ok := LookupPack(packID)
	if !ok {
		return models.PurchaseResult{}, ErrUnknownPack
	}
	total := l.Add(ctx, pack.Coins)
	l.log.Info().Str("pack", pack.ID).Int("coins", pack.Coins).Msg("simulated coin purchase")
	return models.PurchaseResult{Pack: pack, TotalCoins: total}, nil
}
