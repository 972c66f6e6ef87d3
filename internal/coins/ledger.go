// Package coins keeps the user's coin balance and the two reward guards:
// one daily-login grant per calendar day and one grant per first item view.
package coins

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"museumrewards/internal/kv"
	"museumrewards/internal/models"
)

const (
	BalanceKey     = "@museum_coins"
	LastLoginKey   = "@museum_last_login"
	ViewedItemsKey = "@museum_viewed_items"
	TimezoneKey    = "@museum_timezone"
)

// MarkerLayout is the calendar-day format of the last-login marker.
const MarkerLayout = "Mon Jan 02 2006"

const (
	DefaultDailyLoginReward = 10
	DefaultFirstViewReward  = 5
)

type Rewards struct {
	DailyLogin int
	FirstView  int
}

func DefaultRewards() Rewards {
	return Rewards{DailyLogin: DefaultDailyLoginReward, FirstView: DefaultFirstViewReward}
}

// Ledger never returns store errors: failures are logged and reported as
// zero coins, no reward, or an empty set.
//
// Every read-modify-write of the balance runs under mu, so one Ledger must
// be shared by all callers touching the same store namespace.
type Ledger struct {
	store   kv.Store
	log     zerolog.Logger
	rewards Rewards
	now     func() time.Time
	loc     *time.Location

	mu sync.Mutex
}

type Option func(*Ledger)

func WithLogger(l zerolog.Logger) Option {
	return func(led *Ledger) { led.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(led *Ledger) { led.now = now }
}

// WithLocation sets the zone used for calendar days when the context
// carries none.
func WithLocation(loc *time.Location) Option {
	return func(led *Ledger) {
		if loc != nil {
			led.loc = loc
		}
	}
}

func WithRewards(r Rewards) Option {
	return func(led *Ledger) { led.rewards = r }
}

func New(store kv.Store, opts ...Option) *Ledger {
	led := &Ledger{
		store:   store,
		log:     zerolog.Nop(),
		rewards: DefaultRewards(),
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(led)
	}
	return led
}

type locationKey struct{}

// ContextWithLocation attaches the caller's time zone for daily-login checks.
func ContextWithLocation(ctx context.Context, loc *time.Location) context.Context {
	return context.WithValue(ctx, locationKey{}, loc)
}

func (l *Ledger) location(ctx context.Context) *time.Location {
	if loc, ok := ctx.Value(locationKey{}).(*time.Location); ok && loc != nil {
		return loc
	}
	return l.loc
}

func (l *Ledger) Rewards() Rewards {
	return l.rewards
}

func (l *Ledger) Balance(ctx context.Context) int {
	n, err := l.readBalance(ctx)
	if err != nil {
		l.log.Error().Err(err).Str("key", BalanceKey).Msg("read coin balance")
		return 0
	}
	return n
}

func (l *Ledger) Add(ctx context.Context, amount int) int {
	if amount <= 0 {
		l.log.Warn().Int("amount", amount).Msg("ignoring non-positive coin credit")
		return l.Balance(ctx)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	total, err := l.credit(ctx, amount)
	if err != nil {
		l.log.Error().Err(err).Int("amount", amount).Msg("add coins")
		return 0
	}
	return total
}

// Subtract debits amount and returns the new balance. ok is false when the
// balance does not cover amount or the write failed; nothing is mutated then.
func (l *Ledger) Subtract(ctx context.Context, amount int) (balance int, ok bool) {
	if amount <= 0 {
		l.log.Warn().Int("amount", amount).Msg("ignoring non-positive coin debit")
		return l.Balance(ctx), false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	current, err := l.readBalance(ctx)
	if err != nil {
		l.log.Error().Err(err).Str("key", BalanceKey).Msg("read coin balance")
		return 0, false
	}
	if amount > current {
		return current, false
	}
	if err := kv.SetInt(ctx, l.store, BalanceKey, current-amount); err != nil {
		l.log.Error().Err(err).Int("amount", amount).Msg("subtract coins")
		return current, false
	}
	return current - amount, true
}

func (l *Ledger) CheckDailyLogin(ctx context.Context) models.DailyLoginResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	loc, err := l.loginLocation(ctx)
	if err != nil {
		l.log.Error().Err(err).Str("key", TimezoneKey).Msg("resolve login time zone")
		return models.DailyLoginResult{}
	}
	today := l.now().In(loc).Format(MarkerLayout)
	marker, found, err := l.store.Get(ctx, LastLoginKey)
	if err != nil {
		l.log.Error().Err(err).Str("key", LastLoginKey).Msg("read last login marker")
		return models.DailyLoginResult{}
	}
	if found && marker == today {
		total, err := l.readBalance(ctx)
		if err != nil {
			l.log.Error().Err(err).Str("key", BalanceKey).Msg("read coin balance")
		}
		return models.DailyLoginResult{TotalCoins: total}
	}

	if err := l.store.Set(ctx, LastLoginKey, today); err != nil {
		l.log.Error().Err(err).Str("key", LastLoginKey).Msg("store last login marker")
		return models.DailyLoginResult{}
	}
	total, err := l.credit(ctx, l.rewards.DailyLogin)
	if err != nil {
		l.log.Error().Err(err).Msg("grant daily login reward")
		return models.DailyLoginResult{}
	}
	l.log.Debug().Str("day", today).Int("coins", l.rewards.DailyLogin).Msg("daily login reward granted")
	return models.DailyLoginResult{
		EarnedCoins:  true,
		CoinsAwarded: l.rewards.DailyLogin,
		TotalCoins:   total,
	}
}

func (l *Ledger) ViewItem(ctx context.Context, itemID string) models.ViewResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	viewed, err := l.readViewed(ctx)
	if err != nil {
		l.log.Error().Err(err).Str("key", ViewedItemsKey).Msg("read viewed items")
		return models.ViewResult{}
	}
	if slices.Contains(viewed, itemID) {
		total, err := l.readBalance(ctx)
		if err != nil {
			l.log.Error().Err(err).Str("key", BalanceKey).Msg("read coin balance")
		}
		return models.ViewResult{TotalCoins: total}
	}

	viewed = append(viewed, itemID)
	if err := kv.SetJSON(ctx, l.store, ViewedItemsKey, viewed); err != nil {
		l.log.Error().Err(err).Str("item", itemID).Msg("store viewed items")
		return models.ViewResult{}
	}
	total, err := l.credit(ctx, l.rewards.FirstView)
	if err != nil {
		l.log.Error().Err(err).Str("item", itemID).Msg("grant first view reward")
		return models.ViewResult{}
	}
	return models.ViewResult{
		EarnedCoins:  true,
		CoinsAwarded: l.rewards.FirstView,
		TotalCoins:   total,
		IsFirstView:  true,
	}
}

func (l *Ledger) Stats(ctx context.Context) models.Stats {
	total, err := l.readBalance(ctx)
	if err != nil {
		l.log.Error().Err(err).Str("key", BalanceKey).Msg("read coin balance")
		return models.Stats{ViewedItemIDs: []string{}}
	}
	viewed, err := l.readViewed(ctx)
	if err != nil {
		l.log.Error().Err(err).Str("key", ViewedItemsKey).Msg("read viewed items")
		return models.Stats{ViewedItemIDs: []string{}}
	}
	return models.Stats{TotalCoins: total, ItemsViewed: len(viewed), ViewedItemIDs: viewed}
}

// ResetAll clears balance, login marker and viewed items in one store call.
// Benefit flags and the theme selection are left alone.
func (l *Ledger) ResetAll(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.MultiRemove(ctx, BalanceKey, LastLoginKey, ViewedItemsKey); err != nil {
		l.log.Error().Err(err).Msg("reset coin ledger")
		return false
	}
	return true
}

// loginLocation returns the zone the account's calendar days are counted in.
// The first daily-login check pins the caller's zone; later checks ignore the
// caller's zone so that switching zones cannot produce a new "today".
// Must be called with mu held.
func (l *Ledger) loginLocation(ctx context.Context) (*time.Location, error) {
	name, found, err := l.store.Get(ctx, TimezoneKey)
	if err != nil {
		return nil, err
	}
	if found && name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc, nil
		}
		l.log.Warn().Str("zone", name).Msg("stored login time zone is unknown, pinning again")
	}
	loc := l.location(ctx)
	if !reloadable(loc) {
		loc = l.loc
	}
	if err := l.store.Set(ctx, TimezoneKey, loc.String()); err != nil {
		return nil, err
	}
	return loc, nil
}

// reloadable reports whether loc can be restored from its name.
func reloadable(loc *time.Location) bool {
	name := loc.String()
	if name == "" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

// credit must be called with mu held.
func (l *Ledger) credit(ctx context.Context, amount int) (int, error) {
	current, err := l.readBalance(ctx)
	if err != nil {
		return 0, err
	}
	total := current + amount
	if err := kv.SetInt(ctx, l.store, BalanceKey, total); err != nil {
		return 0, err
	}
	return total, nil
}

func (l *Ledger) readBalance(ctx context.Context) (int, error) {
	n, _, err := kv.GetInt(ctx, l.store, BalanceKey)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

func (l *Ledger) readViewed(ctx context.Context) ([]string, error) {
	viewed, _, err := kv.GetJSON[[]string](ctx, l.store, ViewedItemsKey)
	if err != nil {
		return nil, err
	}
	if viewed == nil {
		viewed = []string{}
	}
	return viewed, nil
}
